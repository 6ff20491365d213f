package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/timetrack/internal/domain/session"
	"github.com/rpggio/timetrack/internal/repository"
)

func formatTime(t time.Time) string {
	return session.FormatTimestamp(t)
}

func parseTime(value string) (time.Time, error) {
	t, err := session.ParseTimestamp(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", repository.ErrInvalidInput, err)
	}
	return t, nil
}

func parseNullTime(value sql.NullString) (*time.Time, error) {
	if !value.Valid || value.String == "" {
		return nil, nil
	}
	t, err := parseTime(value.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}

// bounds appends a [from, to) start_time filter. Zero bounds are skipped.
func bounds(where []string, args []any, column string, from, to time.Time) ([]string, []any) {
	if !from.IsZero() {
		where = append(where, column+" >= ?")
		args = append(args, formatTime(from))
	}
	if !to.IsZero() {
		where = append(where, column+" < ?")
		args = append(args, formatTime(to))
	}
	return where, args
}
