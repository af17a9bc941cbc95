package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/types"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "aptsbot.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTaskRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sum := 1200.0
	keys := 3
	want := types.Task{
		ID: "562", ApartmentID: "562", Type: types.TaskCheckout,
		CheckinTime: "14:00", CheckoutTime: "11:00",
		SumToCollect: &sum, KeysCount: &keys,
		Status: "open", UpdatedBy: "u-olena",
	}
	if err := s.InsertTask(ctx, want); err != nil {
		t.Fatalf("InsertTask: %v", err)
	}

	got, err := s.GetTask(ctx, "562")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.ID != "562" || got.Type != types.TaskCheckout {
		t.Errorf("task basics mismatch: %+v", got)
	}
	if got.SumToCollect == nil || *got.SumToCollect != 1200.0 {
		t.Errorf("SumToCollect = %v, want 1200", got.SumToCollect)
	}
	if got.KeysCount == nil || *got.KeysCount != 3 {
		t.Errorf("KeysCount = %v, want 3", got.KeysCount)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetTask(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateTaskPatchSemantics(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.InsertTask(ctx, types.Task{
		ID: "562", ApartmentID: "562", Type: types.TaskCheckout,
		CheckinTime: "14:00", CheckoutTime: "11:00",
	}); err != nil {
		t.Fatalf("InsertTask: %v", err)
	}

	newTime := "12:00"
	by := "u-olena"
	now := time.Now().UTC().Truncate(time.Second)
	err := s.UpdateTask(ctx, "562", types.TaskPatch{
		CheckoutTime: &newTime, UpdatedBy: &by, UpdatedAt: &now,
	})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	got, err := s.GetTask(ctx, "562")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.CheckoutTime != "12:00" {
		t.Errorf("CheckoutTime = %q, want 12:00", got.CheckoutTime)
	}
	if got.CheckinTime != "14:00" {
		t.Errorf("CheckinTime = %q, want untouched 14:00", got.CheckinTime)
	}
	if got.UpdatedBy != "u-olena" {
		t.Errorf("UpdatedBy = %q, want u-olena", got.UpdatedBy)
	}
	if got.SumToCollect != nil {
		t.Errorf("SumToCollect = %v, want nil (never set)", got.SumToCollect)
	}
}

func TestUpdateTaskMissingRow(t *testing.T) {
	s := newTestStore(t)

	newTime := "12:00"
	err := s.UpdateTask(context.Background(), "nope", types.TaskPatch{CheckoutTime: &newTime})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateTaskEmptyPatchIsNoop(t *testing.T) {
	s := newTestStore(t)

	// No row exists either; an empty patch must still succeed.
	if err := s.UpdateTask(context.Background(), "562", types.TaskPatch{}); err != nil {
		t.Errorf("empty patch returned %v, want nil", err)
	}
}

func TestListOpenTasks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tasks := []types.Task{
		{ID: "1", ApartmentID: "101", Type: types.TaskCheckin, UpdatedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)},
		{ID: "2", ApartmentID: "102", Type: types.TaskCheckout, UpdatedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)},
		{ID: "3", ApartmentID: "103", Type: types.TaskCheckout, Status: "done", UpdatedAt: time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)},
	}
	for _, task := range tasks {
		if err := s.InsertTask(ctx, task); err != nil {
			t.Fatalf("InsertTask %s: %v", task.ID, err)
		}
	}

	open, err := s.ListOpenTasks(ctx)
	if err != nil {
		t.Fatalf("ListOpenTasks: %v", err)
	}
	var ids []string
	for _, task := range open {
		ids = append(ids, task.ID)
	}
	if diff := cmp.Diff([]string{"2", "1"}, ids); diff != "" {
		t.Errorf("open task order mismatch (-want +got):\n%s", diff)
	}
}

func TestAssignmentLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetAssignment(ctx, "u-maria"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before create, got %v", err)
	}

	created, err := s.CreateAssignment(ctx, "u-maria", []string{"101", "205"})
	if err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
	if created.ID == "" {
		t.Error("created assignment has empty id")
	}

	got, err := s.GetAssignment(ctx, "u-maria")
	if err != nil {
		t.Fatalf("GetAssignment: %v", err)
	}
	if diff := cmp.Diff([]string{"101", "205"}, got.ApartmentIDs); diff != "" {
		t.Errorf("apartment ids mismatch (-want +got):\n%s", diff)
	}

	next := []string{"101", "205", "301"}
	now := time.Now().UTC().Truncate(time.Second)
	if err := s.UpdateAssignment(ctx, got.ID, types.AssignmentPatch{ApartmentIDs: &next, UpdatedAt: &now}); err != nil {
		t.Fatalf("UpdateAssignment: %v", err)
	}

	got, err = s.GetAssignment(ctx, "u-maria")
	if err != nil {
		t.Fatalf("GetAssignment after update: %v", err)
	}
	if diff := cmp.Diff(next, got.ApartmentIDs); diff != "" {
		t.Errorf("updated ids mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateAssignmentMissingRow(t *testing.T) {
	s := newTestStore(t)

	ids := []string{"101"}
	err := s.UpdateAssignment(context.Background(), "no-such-id", types.AssignmentPatch{ApartmentIDs: &ids})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFindUserByNameOrHandle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.InsertUser(ctx, types.User{ID: "u-maria", Name: "Марія", Handle: "maria_kyiv"}); err != nil {
		t.Fatalf("InsertUser: %v", err)
	}

	tests := []struct {
		name  string
		query string
	}{
		{"by id", "u-maria"},
		{"by display name", "Марія"},
		{"by handle", "maria_kyiv"},
		{"by at-handle", "@maria_kyiv"},
		{"case insensitive handle", "MARIA_KYIV"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := s.FindUserByNameOrHandle(ctx, tt.query)
			if err != nil {
				t.Fatalf("resolve %q: %v", tt.query, err)
			}
			if u.ID != "u-maria" {
				t.Errorf("resolved %q to %s, want u-maria", tt.query, u.ID)
			}
		})
	}

	t.Run("unknown text", func(t *testing.T) {
		_, err := s.FindUserByNameOrHandle(ctx, "Богдан")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		_, err := s.FindUserByNameOrHandle(ctx, "  ")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestSeedDemoIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SeedDemo(ctx); err != nil {
		t.Fatalf("first SeedDemo: %v", err)
	}
	if err := s.SeedDemo(ctx); err != nil {
		t.Fatalf("second SeedDemo: %v", err)
	}

	u, err := s.FindUserByNameOrHandle(ctx, "Олена")
	if err != nil {
		t.Fatalf("seeded admin missing: %v", err)
	}
	if !u.IsAdmin {
		t.Error("seeded Олена should be admin")
	}

	a, err := s.GetAssignment(ctx, "u-maria")
	if err != nil {
		t.Fatalf("seeded assignment missing: %v", err)
	}
	if diff := cmp.Diff([]string{"562"}, a.ApartmentIDs); diff != "" {
		t.Errorf("seeded assignment mismatch (-want +got):\n%s", diff)
	}
}
