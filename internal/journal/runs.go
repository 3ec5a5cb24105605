package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"foldersort/internal/organizer"
)

// ErrRunNotFound is returned when no run matches an identifier.
var ErrRunNotFound = errors.New("run not found")

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one organize invocation.
type Run struct {
	ID         string     `json:"id"`
	Directory  string     `json:"directory"`
	DryRun     bool       `json:"dry_run"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Moved      int        `json:"moved"`
	Error      string     `json:"error,omitempty"`
}

// MoveRecord is one journaled file move.
type MoveRecord struct {
	RunID       string    `json:"run_id"`
	Seq         int       `json:"seq"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	Category    string    `json:"category"`
	Renamed     bool      `json:"renamed"`
	MovedAt     time.Time `json:"moved_at"`
}

// RunRecorder journals the moves of one run. It satisfies organizer.Recorder.
type RunRecorder struct {
	store *Store
	id    string

	mu  sync.Mutex
	seq int
}

// BeginRun inserts a run row and returns its recorder.
func (s *Store) BeginRun(ctx context.Context, directory string, dryRun bool) (*RunRecorder, error) {
	id := uuid.NewString()
	started := time.Now().UTC().Format(timeLayout)
	if err := s.exec(ctx,
		`INSERT INTO runs (id, directory, dry_run, started_at) VALUES (?, ?, ?, ?)`,
		id, directory, boolToInt(dryRun), started,
	); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return &RunRecorder{store: s, id: id}, nil
}

// ID returns the run identifier.
func (r *RunRecorder) ID() string {
	return r.id
}

// RecordMove appends move to the run.
func (r *RunRecorder) RecordMove(ctx context.Context, move organizer.Move) error {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.mu.Unlock()

	if err := r.store.exec(ctx,
		`INSERT INTO moves (run_id, seq, source, destination, category, renamed, moved_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.id, seq, move.Source, move.Destination, move.Category, boolToInt(move.Renamed),
		time.Now().UTC().Format(timeLayout),
	); err != nil {
		return fmt.Errorf("insert move: %w", err)
	}
	return nil
}

// Finish stamps the run with its outcome.
func (r *RunRecorder) Finish(ctx context.Context, moved int, runErr error) error {
	var errText any
	if runErr != nil {
		errText = runErr.Error()
	}
	if err := r.store.exec(ctx,
		`UPDATE runs SET finished_at = ?, moved = ?, error = ? WHERE id = ?`,
		time.Now().UTC().Format(timeLayout), moved, errText, r.id,
	); err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := `SELECT id, directory, dry_run, started_at, finished_at, moved, error
              FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun finds a run by full identifier or unique prefix.
func (s *Store) GetRun(ctx context.Context, idOrPrefix string) (*Run, error) {
	ctx = ensureContext(ctx)
	prefix := strings.TrimSpace(idOrPrefix)
	if prefix == "" {
		return nil, ErrRunNotFound
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, directory, dry_run, started_at, finished_at, moved, error
         FROM runs WHERE substr(id, 1, ?) = ? LIMIT 2`,
		len(prefix), prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("run id prefix %q is ambiguous", prefix)
	}
}

// Moves returns the moves of a run in the order they happened.
func (s *Store) Moves(ctx context.Context, runID string) ([]MoveRecord, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, seq, source, destination, category, renamed, moved_at
         FROM moves WHERE run_id = ? ORDER BY seq`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list moves: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var (
			rec     MoveRecord
			renamed int
			movedAt string
		)
		if err := rows.Scan(&rec.RunID, &rec.Seq, &rec.Source, &rec.Destination, &rec.Category, &renamed, &movedAt); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		rec.Renamed = renamed != 0
		rec.MovedAt = parseTime(movedAt)
		moves = append(moves, rec)
	}
	return moves, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run      Run
		dryRun   int
		started  string
		finished sql.NullString
		errText  sql.NullString
	)
	if err := row.Scan(&run.ID, &run.Directory, &dryRun, &started, &finished, &run.Moved, &errText); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.DryRun = dryRun != 0
	run.StartedAt = parseTime(started)
	if finished.Valid {
		ts := parseTime(finished.String)
		run.FinishedAt = &ts
	}
	run.Error = errText.String
	return run, nil
}

func parseTime(value string) time.Time {
	ts, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
