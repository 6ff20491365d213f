package report

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rpggio/timetrack/internal/domain/errs"
	"github.com/rpggio/timetrack/internal/domain/session"
)

// ExportHeader is the first row of every CSV export.
var ExportHeader = []string{
	"Session ID", "Project", "Start Time", "End Time",
	"Duration (s)", "Duration (HH:MM:SS)", "Note",
}

// Export writes the sessions History would return for f, ignoring limit and
// offset, as CSV. It returns the number of data rows written.
func (s *Service) Export(ctx context.Context, w io.Writer, f Filter) (int, error) {
	f.Limit, f.Offset = 0, 0
	h, err := s.History(ctx, f)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return 0, fmt.Errorf("writing csv header: %w", err)
	}
	for _, e := range h.Entries {
		end := ""
		if e.EndTime != nil {
			end = session.FormatTimestamp(*e.EndTime)
		}
		record := []string{
			strconv.FormatInt(e.SessionID, 10),
			e.ProjectName,
			session.FormatTimestamp(e.StartTime),
			end,
			strconv.FormatInt(e.Duration, 10),
			e.DurationText,
			e.Note,
		}
		if err := cw.Write(record); err != nil {
			return 0, fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flushing csv: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("exported sessions", "rows", len(h.Entries))
	}
	return len(h.Entries), nil
}

// ParseExport reads a CSV produced by Export. Project ids and colors are not
// part of the format and come back empty.
func ParseExport(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(ExportHeader)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrInvalidExport
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidExport, err)
	}
	for i, col := range ExportHeader {
		if header[i] != col {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrInvalidExport, i+1, header[i], col)
		}
	}

	var entries []Entry
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidExport, err)
		}
		e, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidExport, line, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseRecord(record []string) (Entry, error) {
	id, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("session id: %w", err)
	}
	start, err := session.ParseTimestamp(record[2])
	if err != nil {
		return Entry{}, err
	}
	duration, err := strconv.ParseInt(record[4], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("duration: %w", err)
	}

	e := Entry{
		SessionID:    id,
		ProjectName:  record[1],
		StartTime:    start,
		Duration:     duration,
		DurationText: record[5],
		Note:         record[6],
		Open:         record[3] == "",
	}
	if !e.Open {
		end, err := session.ParseTimestamp(record[3])
		if err != nil {
			return Entry{}, err
		}
		e.EndTime = &end
	}
	return e, nil
}

// ExportFileName suggests a file name for an export of f, as
// timetracker_<from>_<to>.csv. An unbounded start reads "all" and an
// unbounded end is today.
func (s *Service) ExportFileName(f Filter) string {
	from := "all"
	if !f.From.IsZero() {
		from = f.From.Format(time.DateOnly)
	}
	to := s.now().In(s.loc).Format(time.DateOnly)
	if !f.To.IsZero() {
		to = f.To.Format(time.DateOnly)
	}
	return fmt.Sprintf("timetracker_%s_%s.csv", from, to)
}

// ParseDate reads a YYYY-MM-DD filter date. Empty input gives the zero time.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", errs.ErrValidation, value)
	}
	return t, nil
}
