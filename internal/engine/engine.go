package engine

import (
	"context"

	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/types"
)

// InterpretAndDispatch runs the full act-then-narrate loop for one
// utterance: interpretation, at most one dispatch, then reconciliation.
// The returned text is always user-ready.
func (e *Engine) InterpretAndDispatch(ctx context.Context, utterance, conversationID string, facts types.SituationalFacts) string {
	res := e.Interpret(ctx, utterance, conversationID, facts)
	if !res.IsCall() {
		return res.Text
	}

	result := e.dispatcher.Execute(ctx, res.Call.Name, res.Call.Arguments)
	return e.Reconcile(ctx, conversationID, res.Call.Name, result)
}

// Dispatch executes an already-resolved structured intent, skipping
// interpretation. Used by transports that produce intents directly, such
// as button presses.
func (e *Engine) Dispatch(ctx context.Context, name string, args map[string]any) types.DispatchResult {
	return e.dispatcher.Execute(ctx, name, args)
}

// ClearConversation drops a conversation's bounded history. Called by the
// transport when a topic ends.
func (e *Engine) ClearConversation(conversationID string) {
	e.convo.Clear(conversationID)
}
