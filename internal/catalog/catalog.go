// Package catalog defines the closed set of operations the assistant can
// perform. The catalog is the single source of truth for both what is
// advertised to the NLP provider and what the dispatcher is willing to
// accept: anything outside it is rejected, never invoked.
package catalog

import (
	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/types"
)

// Operation names. These are the only function names the dispatcher honors.
const (
	OpUpdateTaskTime    = "update_task_time"
	OpUpdateTaskInfo    = "update_task_info"
	OpManageAssignments = "manage_apartment_assignments"
	OpShowAssignments   = "show_user_apartments"
)

// Property describes a single parameter for the JSON schema.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Enum        []any  `json:"enum,omitempty"`
	// Items describes array element schema (required for type="array")
	Items *PropertyItems `json:"items,omitempty"`
}

// PropertyItems describes the schema for array elements.
type PropertyItems struct {
	Type string `json:"type"`
}

// Schema defines the JSON schema for operation arguments.
type Schema struct {
	// Required lists parameters that must be provided.
	Required []string `json:"required"`

	// Properties describes each parameter.
	Properties map[string]Property `json:"properties"`
}

// Spec is one catalog entry: the operation name, the human description sent
// verbatim to the provider, and the parameter contract.
type Spec struct {
	Name        string
	Description string
	Schema      Schema
}

// specs is the static catalog table. Order is the order operations are
// advertised to the provider.
var specs = []Spec{
	{
		Name: OpUpdateTaskTime,
		Description: "Update the check-in or check-out time of a task. " +
			"Use when the user asks to change, move, or set the arrival or departure time for an apartment task.",
		Schema: Schema{
			Required: []string{"taskId", "newTime", "changeType", "userId"},
			Properties: map[string]Property{
				"taskId":     {Type: "string", Description: "Identifier of the task to update"},
				"newTime":    {Type: "string", Description: "New time in HH:00 format, hours 00..23 (e.g. 14:00)"},
				"changeType": {Type: "string", Description: "Which time to change", Enum: []any{"checkin", "checkout"}},
				"userId":     {Type: "string", Description: "Identifier of the user making the change"},
			},
		},
	},
	{
		Name: OpUpdateTaskInfo,
		Description: "Update the sum to collect and/or the keys count of a task. " +
			"At least one of newSumToCollect or newKeysCount must be given.",
		Schema: Schema{
			Required: []string{"taskId", "userId"},
			Properties: map[string]Property{
				"taskId":          {Type: "string", Description: "Identifier of the task to update"},
				"newSumToCollect": {Type: "number", Description: "New amount of money to collect from guests"},
				"newKeysCount":    {Type: "number", Description: "New number of key sets for the apartment"},
				"userId":          {Type: "string", Description: "Identifier of the user making the change"},
			},
		},
	},
	{
		Name: OpManageAssignments,
		Description: "Add apartments to or remove apartments from a user's assignment list. " +
			"Admin only. The target user may be given as a display name, @handle, or raw identifier.",
		Schema: Schema{
			Required: []string{"targetUserId", "action", "apartmentIds", "isAdmin"},
			Properties: map[string]Property{
				"targetUserId": {Type: "string", Description: "Display name, @handle, or identifier of the target user"},
				"action":       {Type: "string", Description: "Whether to add or remove the apartments", Enum: []any{"add", "remove"}},
				"apartmentIds": {Type: "array", Description: "Apartment identifiers to add or remove", Items: &PropertyItems{Type: "string"}},
				"isAdmin":      {Type: "boolean", Description: "Whether the caller has admin rights"},
			},
		},
	},
	{
		Name:        OpShowAssignments,
		Description: "Show the list of apartments assigned to a user. Admin only.",
		Schema: Schema{
			Required: []string{"targetUserId", "isAdmin"},
			Properties: map[string]Property{
				"targetUserId": {Type: "string", Description: "Display name, @handle, or identifier of the target user"},
				"isAdmin":      {Type: "boolean", Description: "Whether the caller has admin rights"},
			},
		},
	},
}

// All returns the catalog entries in advertisement order.
func All() []Spec {
	out := make([]Spec, len(specs))
	copy(out, specs)
	return out
}

// Lookup returns the spec for an operation name.
func Lookup(name string) (Spec, bool) {
	for _, s := range specs {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}

// Has reports whether the operation name is part of the catalog.
func Has(name string) bool {
	_, ok := Lookup(name)
	return ok
}

// Names returns all operation names in advertisement order.
func Names() []string {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return names
}

// Definitions converts the catalog into provider tool definitions.
func Definitions() []types.ToolDefinition {
	defs := make([]types.ToolDefinition, len(specs))
	for i, s := range specs {
		defs[i] = types.ToolDefinition{
			Name:        s.Name,
			Description: s.Description,
			InputSchema: s.Schema.JSONSchema(),
		}
	}
	return defs
}

// JSONSchema renders the parameter contract as a JSON-schema object map.
func (s Schema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.Properties))
	for name, p := range s.Properties {
		prop := map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		if p.Items != nil {
			prop["items"] = map[string]any{"type": p.Items.Type}
		}
		props[name] = prop
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(s.Required) > 0 {
		schema["required"] = s.Required
	}
	return schema
}

// MissingArgs returns the required parameters absent (or nil) in args.
func (s Spec) MissingArgs(args map[string]any) []string {
	var missing []string
	for _, req := range s.Schema.Required {
		v, ok := args[req]
		if !ok || v == nil {
			missing = append(missing, req)
		}
	}
	return missing
}
