package engine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/catalog"
	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/logging"
	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/types"
)

// Reconcile narrates a dispatch result back to the user. The serialized
// result is appended to context first, then the provider is asked to
// phrase a confirmation. A second function call at this stage is refused:
// one function hop per user turn. On provider failure the raw dispatch
// message is returned verbatim, so the mutation outcome always reaches
// the user regardless of narration success.
func (e *Engine) Reconcile(ctx context.Context, conversationID, operationName string, result types.DispatchResult) string {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(result)
	if err != nil {
		// A struct of a bool and a string cannot fail to marshal, but
		// the result must still reach the user.
		return result.Message
	}
	e.convo.Append(conversationID, types.FunctionResultTurn(operationName, string(payload)))

	start := time.Now()
	userPrompt := buildReconcilePrompt(e.convo.Get(conversationID))

	resp, err := e.llm.CompleteWithTools(ctx, systemPrompt, userPrompt, catalog.Definitions())
	if err != nil {
		logging.EngineWarn("reconcile: provider failed, echoing dispatch message: %v", err)
		return result.Message
	}

	if resp.HasToolCalls() {
		logging.EngineWarn("reconcile: provider requested another call (%s); refusing second hop",
			resp.ToolCalls[0].Name)
		e.convo.Append(conversationID, types.AssistantTurn(secondHopText))
		return secondHopText
	}

	if resp.Text == "" {
		return result.Message
	}

	e.convo.Append(conversationID, types.AssistantTurn(resp.Text))
	logging.EngineDebug("reconcile: narration completed in %v", time.Since(start))
	return resp.Text
}
