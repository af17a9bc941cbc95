package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCatalogIsClosed(t *testing.T) {
	want := []string{
		OpUpdateTaskTime,
		OpUpdateTaskInfo,
		OpManageAssignments,
		OpShowAssignments,
	}
	if diff := cmp.Diff(want, Names()); diff != "" {
		t.Errorf("catalog names mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, ok := Lookup("delete_everything"); ok {
		t.Error("Lookup accepted an operation outside the catalog")
	}
	if Has("drop_tables") {
		t.Error("Has accepted an operation outside the catalog")
	}
}

func TestDefinitionsCarrySchemas(t *testing.T) {
	defs := Definitions()
	if len(defs) != len(specs) {
		t.Fatalf("got %d definitions, want %d", len(defs), len(specs))
	}
	for _, def := range defs {
		if def.Description == "" {
			t.Errorf("%s: empty description", def.Name)
		}
		if def.InputSchema["type"] != "object" {
			t.Errorf("%s: schema type = %v, want object", def.Name, def.InputSchema["type"])
		}
		if _, ok := def.InputSchema["properties"].(map[string]any); !ok {
			t.Errorf("%s: schema missing properties map", def.Name)
		}
	}
}

func TestTimeUpdateSchemaShape(t *testing.T) {
	spec, ok := Lookup(OpUpdateTaskTime)
	if !ok {
		t.Fatal("update_task_time missing from catalog")
	}
	wantRequired := []string{"taskId", "newTime", "changeType", "userId"}
	if diff := cmp.Diff(wantRequired, spec.Schema.Required); diff != "" {
		t.Errorf("required mismatch (-want +got):\n%s", diff)
	}
	ct, ok := spec.Schema.Properties["changeType"]
	if !ok {
		t.Fatal("changeType property missing")
	}
	if len(ct.Enum) != 2 {
		t.Errorf("changeType enum = %v, want checkin/checkout", ct.Enum)
	}
}

func TestManageAssignmentsSchemaShape(t *testing.T) {
	spec, _ := Lookup(OpManageAssignments)
	ids, ok := spec.Schema.Properties["apartmentIds"]
	if !ok {
		t.Fatal("apartmentIds property missing")
	}
	if ids.Type != "array" || ids.Items == nil || ids.Items.Type != "string" {
		t.Errorf("apartmentIds schema = %+v, want array of string", ids)
	}

	rendered := spec.Schema.JSONSchema()
	props := rendered["properties"].(map[string]any)
	idsProp := props["apartmentIds"].(map[string]any)
	items, ok := idsProp["items"].(map[string]any)
	if !ok || items["type"] != "string" {
		t.Errorf("rendered items = %v, want {type: string}", idsProp["items"])
	}
}

func TestMissingArgs(t *testing.T) {
	spec, _ := Lookup(OpUpdateTaskTime)

	tests := []struct {
		name string
		args map[string]any
		want []string
	}{
		{
			name: "all present",
			args: map[string]any{"taskId": "562", "newTime": "12:00", "changeType": "checkout", "userId": "u1"},
			want: nil,
		},
		{
			name: "nil value counts as missing",
			args: map[string]any{"taskId": "562", "newTime": nil, "changeType": "checkout", "userId": "u1"},
			want: []string{"newTime"},
		},
		{
			name: "empty args",
			args: map[string]any{},
			want: []string{"taskId", "newTime", "changeType", "userId"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, spec.MissingArgs(tt.args)); diff != "" {
				t.Errorf("MissingArgs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
