package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/types"
)

// systemPrompt fixes the assistant role, the supported operations, and the
// response-language policy. It is identical for interpretation and
// reconciliation so both calls share the model's framing.
const systemPrompt = `You are an assistant for an apartment rental operations team in Kyiv.
You help coordinators manage check-in/check-out tasks and apartment assignments.

You can either answer in plain text or call exactly one of the provided functions
when the user asks for a change. Supported operations:
- update_task_time: change the check-in or check-out time of a task
- update_task_info: change the sum to collect and/or the keys count of a task
- manage_apartment_assignments: add or remove apartments for a user (admin only)
- show_user_apartments: list the apartments assigned to a user (admin only)

Rules:
- Always answer in Ukrainian.
- Use the SITUATION block for the caller identity, admin flag, visible apartments, and open tasks.
- Pass the caller's admin flag and user id into function arguments exactly as given in SITUATION.
- Never invent task or apartment identifiers that are not in the SITUATION block or the conversation.
- If the request is ambiguous, ask a clarifying question in plain text instead of calling a function.`

// allVisibleSentinel marks that an admin caller sees every apartment.
const allVisibleSentinel = "ALL"

// renderFacts produces the situational-facts block appended to every
// interpretation request.
func renderFacts(facts types.SituationalFacts) string {
	var b strings.Builder
	b.WriteString("SITUATION:\n")
	fmt.Fprintf(&b, "- caller id: %s", facts.CallerID)
	if facts.CallerName != "" {
		fmt.Fprintf(&b, " (%s)", facts.CallerName)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "- admin: %t\n", facts.IsAdmin)

	visible := allVisibleSentinel
	if !facts.IsAdmin {
		if len(facts.AssignedApartmentIDs) == 0 {
			visible = "none"
		} else {
			visible = strings.Join(facts.AssignedApartmentIDs, ", ")
		}
	}
	fmt.Fprintf(&b, "- visible apartments: %s\n", visible)

	if len(facts.OpenTasks) == 0 {
		b.WriteString("- open tasks: none\n")
		return b.String()
	}
	b.WriteString("- open tasks:\n")
	for _, t := range facts.OpenTasks {
		fmt.Fprintf(&b, "  - task %s: %s, apartment %s", t.ID, t.Type, t.ApartmentID)
		if t.CheckinTime != "" {
			fmt.Fprintf(&b, ", checkin %s", t.CheckinTime)
		}
		if t.CheckoutTime != "" {
			fmt.Fprintf(&b, ", checkout %s", t.CheckoutTime)
		}
		if t.SumToCollect != nil {
			fmt.Fprintf(&b, ", sum to collect %g", *t.SumToCollect)
		}
		if t.KeysCount != nil {
			fmt.Fprintf(&b, ", keys %d", *t.KeysCount)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderHistory serializes the bounded context turns into a transcript.
func renderHistory(turns []types.Turn) string {
	if len(turns) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("CONVERSATION SO FAR:\n")
	for _, t := range turns {
		switch t.Role {
		case types.RoleUser:
			fmt.Fprintf(&b, "user: %s\n", t.Text)
		case types.RoleAssistant:
			if t.FunctionCall != nil {
				argsJSON, _ := json.Marshal(t.FunctionCall.Arguments)
				fmt.Fprintf(&b, "assistant: [called %s %s]\n", t.FunctionCall.Name, argsJSON)
			} else {
				fmt.Fprintf(&b, "assistant: %s\n", t.Text)
			}
		case types.RoleFunctionResult:
			fmt.Fprintf(&b, "function %s result: %s\n", t.FunctionResult.Name, t.FunctionResult.Payload)
		}
	}
	return b.String()
}

// buildInterpretPrompt assembles the user-side payload for interpretation:
// bounded history, situational facts, then the new utterance.
func buildInterpretPrompt(turns []types.Turn, facts types.SituationalFacts, utterance string) string {
	var b strings.Builder
	if history := renderHistory(turns); history != "" {
		b.WriteString(history)
		b.WriteString("\n")
	}
	b.WriteString(renderFacts(facts))
	b.WriteString("\nNEW MESSAGE:\n")
	b.WriteString(utterance)
	return b.String()
}

// buildReconcilePrompt assembles the narration request issued after a
// dispatch. The function result is already the last context turn.
func buildReconcilePrompt(turns []types.Turn) string {
	var b strings.Builder
	b.WriteString(renderHistory(turns))
	b.WriteString("\nThe function above has already been executed. ")
	b.WriteString("Phrase a short natural confirmation of its result for the user, in Ukrainian. ")
	b.WriteString("Do not call any function.")
	return b.String()
}
