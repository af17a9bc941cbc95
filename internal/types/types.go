// Package types holds the shared contracts of the assistant: the domain
// records owned by the entity store, the conversation turn model, and the
// LLM provider interface used for function calling.
package types

import "time"

// TaskType distinguishes check-in tasks from check-out tasks.
type TaskType string

const (
	TaskCheckin  TaskType = "checkin"
	TaskCheckout TaskType = "checkout"
)

// Task is an apartment service task as stored in the entity store.
// Times, when set, are normalized to "HH:00" (00..23).
type Task struct {
	ID           string    `json:"id"`
	ApartmentID  string    `json:"apartment_id"`
	Type         TaskType  `json:"type"`
	CheckinTime  string    `json:"checkin_time,omitempty"`
	CheckoutTime string    `json:"checkout_time,omitempty"`
	SumToCollect *float64  `json:"sum_to_collect,omitempty"`
	KeysCount    *int      `json:"keys_count,omitempty"`
	Status       string    `json:"status"`
	UpdatedBy    string    `json:"updated_by,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TaskPatch describes a partial task update. Nil fields are left untouched.
type TaskPatch struct {
	CheckinTime  *string
	CheckoutTime *string
	SumToCollect *float64
	KeysCount    *int
	Status       *string
	UpdatedBy    *string
	UpdatedAt    *time.Time
}

// IsEmpty reports whether the patch would change nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.CheckinTime == nil && p.CheckoutTime == nil &&
		p.SumToCollect == nil && p.KeysCount == nil &&
		p.Status == nil && p.UpdatedBy == nil && p.UpdatedAt == nil
}

// Assignment links a user to the set of apartments they service.
// ApartmentIDs contains no duplicates; insertion order is preserved
// for display.
type Assignment struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	ApartmentIDs []string  `json:"apartment_ids"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AssignmentPatch describes a partial assignment update.
type AssignmentPatch struct {
	ApartmentIDs *[]string
	UpdatedAt    *time.Time
}

// User is a directory entry resolvable by id, display name, or handle.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Handle  string `json:"handle,omitempty"`
	IsAdmin bool   `json:"is_admin"`
}

// DispatchResult is the only value the dispatcher hands back to callers.
// It is intentionally opaque beyond success/message.
type DispatchResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// FunctionCallRequest is a structured intent chosen by the NLP provider.
// It is never constructed from user input directly.
type FunctionCallRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// SituationalFacts are the live facts handed to the interpreter together
// with each utterance: who is asking, what they may see, and what is open.
type SituationalFacts struct {
	CallerID             string
	CallerName           string
	IsAdmin              bool
	AssignedApartmentIDs []string
	OpenTasks            []Task
}

// TurnRole identifies the author of a conversation turn.
type TurnRole string

const (
	RoleUser           TurnRole = "user"
	RoleAssistant      TurnRole = "assistant"
	RoleFunctionResult TurnRole = "function"
)

// FunctionResultRef records a dispatched operation and its serialized result.
type FunctionResultRef struct {
	Name    string `json:"name"`
	Payload string `json:"payload"`
}

// Turn is one unit of bounded conversation history. User and assistant
// turns carry Text; an assistant turn may instead carry a function-call
// reference; function turns carry the serialized dispatch result.
type Turn struct {
	Role           TurnRole             `json:"role"`
	Text           string               `json:"text,omitempty"`
	FunctionCall   *FunctionCallRequest `json:"function_call,omitempty"`
	FunctionResult *FunctionResultRef   `json:"function_result,omitempty"`
}

// UserTurn builds a user text turn.
func UserTurn(text string) Turn {
	return Turn{Role: RoleUser, Text: text}
}

// AssistantTurn builds an assistant text turn.
func AssistantTurn(text string) Turn {
	return Turn{Role: RoleAssistant, Text: text}
}

// AssistantCallTurn builds an assistant turn carrying a function-call reference.
func AssistantCallTurn(call FunctionCallRequest) Turn {
	return Turn{Role: RoleAssistant, FunctionCall: &call}
}

// FunctionResultTurn builds a function-result turn.
func FunctionResultTurn(name, payload string) Turn {
	return Turn{Role: RoleFunctionResult, FunctionResult: &FunctionResultRef{Name: name, Payload: payload}}
}
