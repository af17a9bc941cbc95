package engine

import (
	"strings"
	"testing"

	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/types"
)

func TestRenderFactsAdminSeesAll(t *testing.T) {
	facts := types.SituationalFacts{
		CallerID: "u-olena", CallerName: "Олена", IsAdmin: true,
	}
	out := renderFacts(facts)
	if !strings.Contains(out, "visible apartments: ALL") {
		t.Errorf("admin facts missing ALL sentinel:\n%s", out)
	}
	if !strings.Contains(out, "open tasks: none") {
		t.Errorf("empty task list not rendered as none:\n%s", out)
	}
}

func TestRenderFactsNonAdminSeesAssignedOnly(t *testing.T) {
	sum := 1500.0
	facts := types.SituationalFacts{
		CallerID:             "u-maria",
		CallerName:           "Марія",
		AssignedApartmentIDs: []string{"101", "205"},
		OpenTasks: []types.Task{
			{ID: "562", ApartmentID: "562", Type: types.TaskCheckout, CheckoutTime: "11:00", SumToCollect: &sum},
		},
	}
	out := renderFacts(facts)
	if !strings.Contains(out, "visible apartments: 101, 205") {
		t.Errorf("assigned apartments not rendered:\n%s", out)
	}
	if !strings.Contains(out, "task 562") || !strings.Contains(out, "checkout 11:00") {
		t.Errorf("open task details missing:\n%s", out)
	}
	if !strings.Contains(out, "sum to collect 1500") {
		t.Errorf("sum not rendered:\n%s", out)
	}
}

func TestRenderFactsNonAdminWithoutApartments(t *testing.T) {
	out := renderFacts(types.SituationalFacts{CallerID: "u-ivan"})
	if !strings.Contains(out, "visible apartments: none") {
		t.Errorf("empty assignment not rendered as none:\n%s", out)
	}
}

func TestRenderHistoryAllTurnKinds(t *testing.T) {
	turns := []types.Turn{
		types.UserTurn("перенеси виїзд 562 на 12"),
		types.AssistantCallTurn(types.FunctionCallRequest{
			Name:      "update_task_time",
			Arguments: map[string]any{"taskId": "562"},
		}),
		types.FunctionResultTurn("update_task_time", `{"success":true,"message":"ok"}`),
		types.AssistantTurn("Готово."),
	}
	out := renderHistory(turns)

	for _, want := range []string{
		"user: перенеси виїзд 562 на 12",
		"[called update_task_time",
		`function update_task_time result: {"success":true,"message":"ok"}`,
		"assistant: Готово.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("history missing %q:\n%s", want, out)
		}
	}
}

func TestRenderHistoryEmpty(t *testing.T) {
	if out := renderHistory(nil); out != "" {
		t.Errorf("empty history rendered as %q, want empty", out)
	}
}

func TestBuildInterpretPromptLayout(t *testing.T) {
	turns := []types.Turn{types.UserTurn("привіт")}
	facts := types.SituationalFacts{CallerID: "u-olena", IsAdmin: true}

	out := buildInterpretPrompt(turns, facts, "що по 562?")

	historyIdx := strings.Index(out, "CONVERSATION SO FAR:")
	factsIdx := strings.Index(out, "SITUATION:")
	msgIdx := strings.Index(out, "NEW MESSAGE:")
	if historyIdx == -1 || factsIdx == -1 || msgIdx == -1 {
		t.Fatalf("prompt missing a section:\n%s", out)
	}
	if !(historyIdx < factsIdx && factsIdx < msgIdx) {
		t.Errorf("sections out of order: history=%d facts=%d message=%d", historyIdx, factsIdx, msgIdx)
	}
	if !strings.HasSuffix(out, "що по 562?") {
		t.Errorf("utterance must be last:\n%s", out)
	}
}

func TestBuildReconcilePromptForbidsSecondCall(t *testing.T) {
	turns := []types.Turn{
		types.FunctionResultTurn("update_task_time", `{"success":true}`),
	}
	out := buildReconcilePrompt(turns)
	if !strings.Contains(out, "Do not call any function.") {
		t.Errorf("reconcile prompt missing the no-call instruction:\n%s", out)
	}
}
