package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/timetrack/internal/domain/session"
	"github.com/rpggio/timetrack/internal/repository"
)

var _ session.SessionRepository = (*SessionRepository)(nil)

// SessionRepository implements session.SessionRepository for SQLite. Writes
// that change which session is running update app_state in the same
// transaction.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Open inserts a running session and points app_state at it. It returns
// repository.ErrConflict when any session is already open, including one
// started by another process sharing the database file.
func (r *SessionRepository) Open(ctx context.Context, sess *session.Session) error {
	var id int64
	err := r.db.immediateTx(ctx, func(q execer) error {
		var open int
		if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE end_time IS NULL`).Scan(&open); err != nil {
			return fmt.Errorf("failed to count open sessions: %w", err)
		}
		if open > 0 {
			return repository.ErrConflict
		}

		result, err := q.ExecContext(ctx, `
			INSERT INTO sessions (project_id, start_time, end_time, duration, note)
			VALUES (?, ?, NULL, 0, ?)
		`, sess.ProjectID, formatTime(sess.StartTime), nullString(sess.Note))
		if err != nil {
			if isForeignKeyViolation(err) {
				return repository.ErrForeignKeyViolation
			}
			return fmt.Errorf("failed to open session: %w", err)
		}
		if id, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read session id: %w", err)
		}
		return setActive(ctx, q, session.ActivePointer{SessionID: id, ProjectID: sess.ProjectID})
	})
	if err != nil {
		return err
	}

	sess.ID = id
	sess.EndTime = nil
	sess.Duration = 0
	return nil
}

// Close ends an open session. It returns repository.ErrNotFound when the
// session is missing or already closed.
func (r *SessionRepository) Close(ctx context.Context, id int64, end time.Time, duration int64, note *string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE sessions
		SET end_time = ?, duration = ?, note = COALESCE(?, note)
		WHERE id = ? AND end_time IS NULL
	`, formatTime(end), duration, nullString(note), id)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return err
	}

	if err := clearActiveFor(ctx, tx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Discard deletes an open session without recording it
func (r *SessionRepository) Discard(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ? AND end_time IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to discard session: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return err
	}

	if err := clearActiveFor(ctx, tx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const sessionSelect = `
	SELECT s.id, s.project_id, p.name, s.start_time, s.end_time, s.duration, s.note
	FROM sessions s
	JOIN projects p ON p.id = s.project_id
`

// Get retrieves a session by ID
func (r *SessionRepository) Get(ctx context.Context, id int64) (*session.Session, error) {
	row := r.db.QueryRowContext(ctx, sessionSelect+` WHERE s.id = ?`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess, nil
}

// ListOpen returns sessions with no end time, most recent start first
func (r *SessionRepository) ListOpen(ctx context.Context) ([]session.Session, error) {
	rows, err := r.db.QueryContext(ctx, sessionSelect+`
		WHERE s.end_time IS NULL
		ORDER BY s.start_time DESC, s.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list open sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session rows: %w", err)
	}
	return sessions, nil
}

// NextStartAfter returns the earliest session start strictly after the given
// time, ignoring excludeID
func (r *SessionRepository) NextStartAfter(ctx context.Context, after time.Time, excludeID int64) (time.Time, error) {
	var next sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT MIN(start_time) FROM sessions WHERE start_time > ? AND id != ?
	`, formatTime(after), excludeID).Scan(&next)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to find next session start: %w", err)
	}
	if !next.Valid {
		return time.Time{}, repository.ErrNotFound
	}
	return parseTime(next.String)
}

func scanSession(row rowScanner) (*session.Session, error) {
	var sess session.Session
	var start string
	var end, note sql.NullString
	if err := row.Scan(
		&sess.ID,
		&sess.ProjectID,
		&sess.ProjectName,
		&start,
		&end,
		&sess.Duration,
		&note,
	); err != nil {
		return nil, err
	}

	var err error
	if sess.StartTime, err = parseTime(start); err != nil {
		return nil, err
	}
	if sess.EndTime, err = parseNullTime(end); err != nil {
		return nil, err
	}
	sess.Note = stringPtr(note)
	return &sess, nil
}
