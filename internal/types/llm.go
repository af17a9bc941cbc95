package types

import "context"

// LLMClient defines the interface for NLP providers.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// CompleteWithTools sends a prompt with tool definitions and returns the
	// response together with any function calls the model selected.
	CompleteWithTools(ctx context.Context, systemPrompt, userPrompt string, tools []ToolDefinition) (*LLMToolResponse, error)
}

// ToolDefinition describes an operation the model may invoke.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"` // JSON Schema for parameters
}

// ToolCall represents a function invocation requested by the model.
type ToolCall struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
}

// UsageMetadata captures token usage metrics from the provider.
type UsageMetadata struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// LLMToolResponse contains both the text response and any tool calls.
type LLMToolResponse struct {
	Text       string        `json:"text"`        // may be empty if only tool calls
	ToolCalls  []ToolCall    `json:"tool_calls"`  // function invocations requested by the model
	StopReason string        `json:"stop_reason"` // "end_turn", "tool_use", etc.
	Usage      UsageMetadata `json:"usage"`
}

// HasToolCalls reports whether the model selected at least one function.
func (r *LLMToolResponse) HasToolCalls() bool {
	return r != nil && len(r.ToolCalls) > 0
}

// FirstToolCall returns the first requested call, or nil. Only one function
// hop per user turn is honored; additional calls are ignored by design of
// the dispatch loop.
func (r *LLMToolResponse) FirstToolCall() *ToolCall {
	if !r.HasToolCalls() {
		return nil
	}
	return &r.ToolCalls[0]
}
