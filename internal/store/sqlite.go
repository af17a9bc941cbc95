package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/logging"
	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/types"
)

// SQLiteStore implements EntityStore on a local SQLite database.
// A single connection plus WAL gives the per-document atomicity the
// dispatcher relies on.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewSQLiteStore opens (creating if needed) the database at the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "NewSQLiteStore")
	defer timer.Stop()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("failed to set sqlite journal_mode=WAL: %v", err)
	}

	s := &SQLiteStore{db: db, dbPath: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logging.Store("SQLiteStore ready at %s", path)
	return s, nil
}

// migrate creates the required tables.
func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		apartment_id TEXT NOT NULL,
		type TEXT NOT NULL,
		checkin_time TEXT NOT NULL DEFAULT '',
		checkout_time TEXT NOT NULL DEFAULT '',
		sum_to_collect REAL,
		keys_count INTEGER,
		status TEXT NOT NULL DEFAULT 'open',
		updated_by TEXT NOT NULL DEFAULT '',
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS assignments (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		apartment_ids TEXT NOT NULL DEFAULT '[]',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		handle TEXT NOT NULL DEFAULT '',
		is_admin INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetTask loads one task by id.
func (s *SQLiteStore) GetTask(ctx context.Context, id string) (*types.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, apartment_id, type, checkin_time, checkout_time,
		       sum_to_collect, keys_count, status, updated_by, updated_at
		FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

// UpdateTask applies a partial update to one task. Nil patch fields are
// left untouched.
func (s *SQLiteStore) UpdateTask(ctx context.Context, id string, patch types.TaskPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var sets []string
	var args []any
	if patch.CheckinTime != nil {
		sets = append(sets, "checkin_time = ?")
		args = append(args, *patch.CheckinTime)
	}
	if patch.CheckoutTime != nil {
		sets = append(sets, "checkout_time = ?")
		args = append(args, *patch.CheckoutTime)
	}
	if patch.SumToCollect != nil {
		sets = append(sets, "sum_to_collect = ?")
		args = append(args, *patch.SumToCollect)
	}
	if patch.KeysCount != nil {
		sets = append(sets, "keys_count = ?")
		args = append(args, *patch.KeysCount)
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.UpdatedBy != nil {
		sets = append(sets, "updated_by = ?")
		args = append(args, *patch.UpdatedBy)
	}
	if patch.UpdatedAt != nil {
		sets = append(sets, "updated_at = ?")
		args = append(args, patch.UpdatedAt.UTC())
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = ?", strings.Join(sets, ", "))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update task %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	logging.StoreDebug("updated task %s (%d fields)", id, len(sets))
	return nil
}

// ListOpenTasks returns all tasks with status "open", oldest update first.
func (s *SQLiteStore) ListOpenTasks(ctx context.Context) ([]types.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, apartment_id, type, checkin_time, checkout_time,
		       sum_to_collect, keys_count, status, updated_by, updated_at
		FROM tasks WHERE status = 'open' ORDER BY updated_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list open tasks: %w", err)
	}
	defer rows.Close()

	var tasks []types.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// GetAssignment loads the assignment record for a user.
func (s *SQLiteStore) GetAssignment(ctx context.Context, userID string) (*types.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, apartment_ids, created_at, updated_at
		FROM assignments WHERE user_id = ?`, userID)

	var a types.Assignment
	var idsJSON string
	err := row.Scan(&a.ID, &a.UserID, &idsJSON, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("assignment for user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load assignment: %w", err)
	}
	if err := json.Unmarshal([]byte(idsJSON), &a.ApartmentIDs); err != nil {
		return nil, fmt.Errorf("corrupt apartment_ids for user %s: %w", userID, err)
	}
	return &a, nil
}

// CreateAssignment creates a new assignment record seeded with the given
// apartment ids.
func (s *SQLiteStore) CreateAssignment(ctx context.Context, userID string, apartmentIDs []string) (*types.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	a := &types.Assignment{
		ID:           uuid.NewString(),
		UserID:       userID,
		ApartmentIDs: apartmentIDs,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	idsJSON, err := json.Marshal(a.ApartmentIDs)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO assignments (id, user_id, apartment_ids, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.UserID, string(idsJSON), a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	logging.Store("created assignment %s for user %s (%d apartments)", a.ID, userID, len(apartmentIDs))
	return a, nil
}

// UpdateAssignment applies a partial update to one assignment record.
func (s *SQLiteStore) UpdateAssignment(ctx context.Context, id string, patch types.AssignmentPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sets []string
	var args []any
	if patch.ApartmentIDs != nil {
		idsJSON, err := json.Marshal(*patch.ApartmentIDs)
		if err != nil {
			return err
		}
		sets = append(sets, "apartment_ids = ?")
		args = append(args, string(idsJSON))
	}
	if patch.UpdatedAt != nil {
		sets = append(sets, "updated_at = ?")
		args = append(args, patch.UpdatedAt.UTC())
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE assignments SET %s WHERE id = ?", strings.Join(sets, ", "))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update assignment %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("assignment %s: %w", id, ErrNotFound)
	}
	return nil
}

// FindUserByNameOrHandle resolves a directory entry from free text: a raw
// id, a display name, or an @handle (leading @ optional).
func (s *SQLiteStore) FindUserByNameOrHandle(ctx context.Context, text string) (*types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.TrimSpace(text)
	if needle == "" {
		return nil, fmt.Errorf("user %q: %w", text, ErrNotFound)
	}
	handle := strings.TrimPrefix(needle, "@")

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, handle, is_admin FROM users
		WHERE id = ? OR lower(name) = lower(?) OR lower(handle) = lower(?)
		LIMIT 1`, needle, needle, handle)

	var u types.User
	err := row.Scan(&u.ID, &u.Name, &u.Handle, &u.IsAdmin)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %q: %w", text, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	return &u, nil
}

// scanner abstracts sql.Row and sql.Rows for task scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*types.Task, error) {
	var t types.Task
	var sum sql.NullFloat64
	var keys sql.NullInt64
	err := row.Scan(&t.ID, &t.ApartmentID, &t.Type, &t.CheckinTime, &t.CheckoutTime,
		&sum, &keys, &t.Status, &t.UpdatedBy, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}
	if sum.Valid {
		v := sum.Float64
		t.SumToCollect = &v
	}
	if keys.Valid {
		v := int(keys.Int64)
		t.KeysCount = &v
	}
	return &t, nil
}
