package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/rpggio/timetrack/internal/domain/session"
	"github.com/rpggio/timetrack/internal/repository"
)

var _ session.StateRepository = (*StateRepository)(nil)

// execer is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// StateRepository implements session.StateRepository over the app_state table
type StateRepository struct {
	db *DB
}

// NewStateRepository creates a new StateRepository
func NewStateRepository(db *DB) *StateRepository {
	return &StateRepository{db: db}
}

// GetActive returns the active-session pointer, or nil when none is stored.
// A pointer that cannot be parsed comes back with zero ids so recovery
// treats it as stale.
func (r *StateRepository) GetActive(ctx context.Context) (*session.ActivePointer, error) {
	return getActive(ctx, r.db)
}

// SetActive stores the active-session pointer.
func (r *StateRepository) SetActive(ctx context.Context, ptr session.ActivePointer) error {
	return setActive(ctx, r.db, ptr)
}

// ClearActive removes the active-session pointer.
func (r *StateRepository) ClearActive(ctx context.Context) error {
	return clearActive(ctx, r.db)
}

func getState(ctx context.Context, q execer, key string) (string, error) {
	var value sql.NullString
	err := q.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read app state %s: %w", key, err)
	}
	return value.String, nil
}

func setState(ctx context.Context, q execer, key, value string) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO app_state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write app state %s: %w", key, err)
	}
	return nil
}

func getActive(ctx context.Context, q execer) (*session.ActivePointer, error) {
	sessionValue, err := getState(ctx, q, session.KeyActiveSession)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && sessionValue == "") {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	projectValue, err := getState(ctx, q, session.KeyActiveProject)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	var ptr session.ActivePointer
	if id, err := strconv.ParseInt(sessionValue, 10, 64); err == nil {
		ptr.SessionID = id
	}
	if id, err := strconv.ParseInt(projectValue, 10, 64); err == nil {
		ptr.ProjectID = id
	}
	return &ptr, nil
}

func setActive(ctx context.Context, q execer, ptr session.ActivePointer) error {
	if err := setState(ctx, q, session.KeyActiveSession, strconv.FormatInt(ptr.SessionID, 10)); err != nil {
		return err
	}
	return setState(ctx, q, session.KeyActiveProject, strconv.FormatInt(ptr.ProjectID, 10))
}

func clearActive(ctx context.Context, q execer) error {
	_, err := q.ExecContext(ctx, `DELETE FROM app_state WHERE key IN (?, ?)`,
		session.KeyActiveSession, session.KeyActiveProject)
	if err != nil {
		return fmt.Errorf("failed to clear active pointer: %w", err)
	}
	return nil
}

// clearActiveFor removes the pointer only when it references sessionID.
func clearActiveFor(ctx context.Context, q execer, sessionID int64) error {
	ptr, err := getActive(ctx, q)
	if err != nil {
		return err
	}
	if ptr == nil || ptr.SessionID != sessionID {
		return nil
	}
	return clearActive(ctx, q)
}
