package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/types"
)

// InsertTask inserts a task record. Used by seeding and tests; the
// interpretation core itself never creates tasks.
func (s *SQLiteStore) InsertTask(ctx context.Context, t types.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Status == "" {
		t.Status = "open"
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = time.Now().UTC()
	}
	var sum any
	if t.SumToCollect != nil {
		sum = *t.SumToCollect
	}
	var keys any
	if t.KeysCount != nil {
		keys = *t.KeysCount
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, apartment_id, type, checkin_time, checkout_time,
		                   sum_to_collect, keys_count, status, updated_by, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ApartmentID, t.Type, t.CheckinTime, t.CheckoutTime,
		sum, keys, t.Status, t.UpdatedBy, t.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert task %s: %w", t.ID, err)
	}
	return nil
}

// InsertUser inserts a directory entry.
func (s *SQLiteStore) InsertUser(ctx context.Context, u types.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, handle, is_admin) VALUES (?, ?, ?, ?)`,
		u.ID, u.Name, u.Handle, u.IsAdmin)
	if err != nil {
		return fmt.Errorf("failed to insert user %s: %w", u.ID, err)
	}
	return nil
}

// SeedDemo populates an empty database with a small working dataset so the
// REPL is usable end-to-end. A no-op when users already exist.
func (s *SQLiteStore) SeedDemo(ctx context.Context) error {
	s.mu.RLock()
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	users := []types.User{
		{ID: "u-admin", Name: "Олена", Handle: "olena_admin", IsAdmin: true},
		{ID: "u-maria", Name: "Марія", Handle: "maria_kyiv"},
		{ID: "u-ivan", Name: "Іван", Handle: "ivan_s"},
	}
	for _, u := range users {
		if err := s.InsertUser(ctx, u); err != nil {
			return err
		}
	}

	sum := 1500.0
	keys := 2
	tasks := []types.Task{
		{ID: "562", ApartmentID: "562", Type: types.TaskCheckout, CheckoutTime: "11:00"},
		{ID: "321", ApartmentID: "321", Type: types.TaskCheckin, CheckinTime: "15:00", SumToCollect: &sum, KeysCount: &keys},
	}
	for _, t := range tasks {
		if err := s.InsertTask(ctx, t); err != nil {
			return err
		}
	}

	if _, err := s.CreateAssignment(ctx, "u-maria", []string{"562"}); err != nil {
		return err
	}
	return nil
}
