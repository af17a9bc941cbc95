// Package engine ties the interpretation loop together: one utterance is
// interpreted into text or a structured intent, the intent is dispatched,
// and the result is narrated back. Provider and store failures never
// escape this package; every path ends in user-readable text.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/catalog"
	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/convo"
	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/dispatch"
	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/logging"
	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/store"
	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/types"
)

// fallbackText is returned whenever the provider fails or replies empty.
const fallbackText = "Не вдалося обробити запит, спробуйте пізніше."

// secondHopText is returned when the provider asks for another function
// during reconciliation. Only one function hop per user turn is honored.
const secondHopText = "Оновлення виконано. Для подальших дій надішліть нове повідомлення."

// Engine is the caller-facing surface of the interpretation core.
type Engine struct {
	convo      *convo.Store
	llm        types.LLMClient
	dispatcher *dispatch.Dispatcher
	store      store.EntityStore
	timeout    time.Duration
}

// Options tune the engine. Zero values fall back to defaults.
type Options struct {
	HistoryLimit int
	Timeout      time.Duration
}

// New wires an engine over the given provider and entity store.
func New(llm types.LLMClient, st store.EntityStore, opts Options) *Engine {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Engine{
		convo:      convo.NewStore(opts.HistoryLimit),
		llm:        llm,
		dispatcher: dispatch.New(st).WithTimeout(timeout),
		store:      st,
		timeout:    timeout,
	}
}

// InterpretResult is the outcome of one interpretation: either final text
// or a structured function call for the dispatcher.
type InterpretResult struct {
	Text string
	Call *types.FunctionCallRequest
}

// IsCall reports whether the provider selected a function.
func (r InterpretResult) IsCall() bool { return r.Call != nil }

// Interpret sends one utterance to the provider together with the bounded
// history, the situational facts, and the function catalog. Provider
// failures and empty replies yield the fixed fallback text and leave the
// conversation context untouched, so a failed turn never poisons history.
func (e *Engine) Interpret(ctx context.Context, utterance, conversationID string, facts types.SituationalFacts) InterpretResult {
	reqID := uuid.NewString()[:8]
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	history := e.convo.Get(conversationID)
	userPrompt := buildInterpretPrompt(history, facts, utterance)

	logging.Engine("[req:%s] interpret conversation=%s history=%d utterance_len=%d",
		reqID, conversationID, len(history), len(utterance))

	resp, err := e.llm.CompleteWithTools(ctx, systemPrompt, userPrompt, catalog.Definitions())
	if err != nil {
		logging.EngineError("[req:%s] provider failed: %v", reqID, err)
		return InterpretResult{Text: fallbackText}
	}

	if call := resp.FirstToolCall(); call != nil {
		req := types.FunctionCallRequest{Name: call.Name, Arguments: call.Input}
		e.convo.Append(conversationID, types.UserTurn(utterance))
		e.convo.Append(conversationID, types.AssistantCallTurn(req))
		logging.Engine("[req:%s] function call selected: %s", reqID, call.Name)
		return InterpretResult{Call: &req}
	}

	if resp.Text == "" {
		logging.EngineWarn("[req:%s] empty provider reply", reqID)
		return InterpretResult{Text: fallbackText}
	}

	e.convo.Append(conversationID, types.UserTurn(utterance))
	e.convo.Append(conversationID, types.AssistantTurn(resp.Text))
	logging.EngineDebug("[req:%s] text reply len=%d", reqID, len(resp.Text))
	return InterpretResult{Text: resp.Text}
}
