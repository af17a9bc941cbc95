package convo

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/types"
)

func TestNewStoreDefaultCapacity(t *testing.T) {
	s := NewStore(0)
	if s.capacity != DefaultCapacity {
		t.Errorf("capacity = %d, want %d", s.capacity, DefaultCapacity)
	}
	s = NewStore(-5)
	if s.capacity != DefaultCapacity {
		t.Errorf("capacity = %d, want %d", s.capacity, DefaultCapacity)
	}
}

func TestGetCreatesEmptyConversation(t *testing.T) {
	s := NewStore(3)

	turns := s.Get("chat:1")
	if len(turns) != 0 {
		t.Fatalf("fresh conversation has %d turns, want 0", len(turns))
	}
	if s.Len("chat:1") != 0 {
		t.Errorf("Len = %d, want 0", s.Len("chat:1"))
	}
}

func TestAppendEvictsOldestFirst(t *testing.T) {
	s := NewStore(3)

	for i := 1; i <= 5; i++ {
		s.Append("chat:1", types.UserTurn(fmt.Sprintf("msg-%d", i)))
	}

	got := s.Get("chat:1")
	want := []types.Turn{
		types.UserTurn("msg-3"),
		types.UserTurn("msg-4"),
		types.UserTurn("msg-5"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestConversationsAreIsolated(t *testing.T) {
	s := NewStore(3)

	s.Append("chat:a", types.UserTurn("hello from a"))
	s.Append("chat:b", types.UserTurn("hello from b"))

	a := s.Get("chat:a")
	b := s.Get("chat:b")
	if len(a) != 1 || a[0].Text != "hello from a" {
		t.Errorf("chat:a history corrupted: %+v", a)
	}
	if len(b) != 1 || b[0].Text != "hello from b" {
		t.Errorf("chat:b history corrupted: %+v", b)
	}
}

func TestClearDropsOnlyThatConversation(t *testing.T) {
	s := NewStore(3)

	s.Append("chat:a", types.UserTurn("one"))
	s.Append("chat:b", types.UserTurn("two"))
	s.Clear("chat:a")

	if s.Len("chat:a") != 0 {
		t.Errorf("chat:a not cleared, len=%d", s.Len("chat:a"))
	}
	if s.Len("chat:b") != 1 {
		t.Errorf("chat:b affected by clear, len=%d", s.Len("chat:b"))
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewStore(3)
	s.Append("chat:1", types.UserTurn("original"))

	got := s.Get("chat:1")
	got[0].Text = "mutated"

	if again := s.Get("chat:1"); again[0].Text != "original" {
		t.Errorf("internal history mutated through returned slice: %q", again[0].Text)
	}
}

func TestMixedTurnKindsSurviveEviction(t *testing.T) {
	s := NewStore(3)

	s.Append("chat:1", types.UserTurn("перенеси виїзд"))
	s.Append("chat:1", types.AssistantCallTurn(types.FunctionCallRequest{
		Name:      "update_task_time",
		Arguments: map[string]any{"taskId": "562"},
	}))
	s.Append("chat:1", types.FunctionResultTurn("update_task_time", `{"success":true}`))
	s.Append("chat:1", types.AssistantTurn("Готово."))

	got := s.Get("chat:1")
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].FunctionCall == nil || got[0].FunctionCall.Name != "update_task_time" {
		t.Errorf("oldest kept turn should be the call turn, got %+v", got[0])
	}
	if got[2].Text != "Готово." {
		t.Errorf("newest turn = %+v, want assistant text", got[2])
	}
}
