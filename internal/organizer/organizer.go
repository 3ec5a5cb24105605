package organizer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"foldersort/internal/fileutil"
	"foldersort/internal/logging"
	"foldersort/internal/rules"
)

// Move records one file relocation.
type Move struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Category    string `json:"category"`
	// Renamed is set when a collision forced a "name (n).ext" destination.
	Renamed bool `json:"renamed"`
}

// Report summarizes a run. On failure it holds everything done before the error.
type Report struct {
	Directory string `json:"directory"`
	DryRun    bool   `json:"dry_run"`
	Moves     []Move `json:"moves"`
	// Unclassified counts files whose extension matched no rule.
	Unclassified int `json:"unclassified"`
	// Ignored counts directories and other non-regular entries.
	Ignored int `json:"ignored"`
}

// Moved is the number of files moved (or planned, in a dry run).
func (r *Report) Moved() int {
	if r == nil {
		return 0
	}
	return len(r.Moves)
}

// Recorder is notified after every completed move.
type Recorder interface {
	RecordMove(ctx context.Context, move Move) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logging.NewComponentLogger(logger, "organizer")
	}
}

// WithDryRun makes the engine plan moves without touching the filesystem.
func WithDryRun(enabled bool) Option {
	return func(e *Engine) {
		e.dryRun = enabled
	}
}

// WithRecorder registers a move recorder. Recorder failures are logged and
// never abort a run.
func WithRecorder(recorder Recorder) Option {
	return func(e *Engine) {
		e.recorder = recorder
	}
}

// Engine classifies and moves files. It is safe to reuse across runs but a
// single run must not overlap with another on the same directory.
type Engine struct {
	table    *rules.Table
	logger   *slog.Logger
	dryRun   bool
	recorder Recorder
	move     func(src, dst string) error
}

// New builds an engine over table.
func New(table *rules.Table, opts ...Option) *Engine {
	e := &Engine{
		table:  table,
		logger: logging.NewComponentLogger(nil, "organizer"),
		move:   fileutil.MoveFile,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Organize sorts dir and returns how many files were moved. On error the
// count covers the moves completed before the failure.
func (e *Engine) Organize(dir string) (int, error) {
	report, err := e.Run(context.Background(), dir)
	return report.Moved(), err
}

// Run sorts dir and returns a detailed report. ctx only carries logging
// fields; a run always proceeds to completion or to its first error.
func (e *Engine) Run(ctx context.Context, dir string) (*Report, error) {
	logger := logging.WithContext(ctx, e.logger)
	if strings.TrimSpace(dir) == "" {
		logger.Error("organize requested with an empty directory path")
		return nil, wrap(ErrInvalidArgument, "directory path must not be empty", "", nil)
	}

	logger.Info("starting organization", logging.String("directory", dir), logging.Bool("dry_run", e.dryRun))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, wrap(ErrFilesystem, "read directory", dir, err)
	}

	report := &Report{Directory: dir, DryRun: e.dryRun}
	var reserved map[string]struct{}
	if e.dryRun {
		reserved = make(map[string]struct{})
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			report.Ignored++
			continue
		}
		move, ok, err := e.process(ctx, logger, dir, entry.Name(), reserved)
		if err != nil {
			logger.Error(
				"organization aborted",
				logging.String("file", entry.Name()),
				logging.Int("moved", report.Moved()),
				logging.Error(err),
			)
			return report, err
		}
		if !ok {
			report.Unclassified++
			continue
		}
		report.Moves = append(report.Moves, move)
	}

	logger.Info(
		"organization completed",
		logging.String("directory", dir),
		logging.Int("moved", report.Moved()),
		logging.Int("unclassified", report.Unclassified),
		logging.Int("ignored", report.Ignored),
	)
	return report, nil
}

func (e *Engine) process(ctx context.Context, logger *slog.Logger, dir, name string, reserved map[string]struct{}) (Move, bool, error) {
	stem, ext := SplitName(name)
	key := rules.NormalizeExtension(ext)
	category, ok := e.table.Lookup(key)
	if !ok {
		logger.Debug("no rule for file", logging.String("file", name), logging.String("extension", key))
		return Move{}, false, nil
	}

	destDir := filepath.Join(dir, category, strings.TrimPrefix(key, "."))
	if !e.dryRun {
		if _, statErr := os.Stat(destDir); statErr != nil {
			logger.Info("creating destination folder", logging.String("path", destDir))
		}
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return Move{}, false, wrap(ErrFilesystem, "create destination", destDir, err)
		}
	}

	dest, renamed, err := nextFreePath(destDir, name, stem, ext, reserved)
	if err != nil {
		return Move{}, false, wrap(ErrFilesystem, "check destination", destDir, err)
	}

	move := Move{
		Source:      filepath.Join(dir, name),
		Destination: dest,
		Category:    category,
		Renamed:     renamed,
	}
	if e.dryRun {
		reserved[dest] = struct{}{}
		logger.Debug("planned move", logging.String("source", move.Source), logging.String("destination", dest))
		return move, true, nil
	}

	if err := e.move(move.Source, dest); err != nil {
		return Move{}, false, wrap(ErrFilesystem, "move file", move.Source, err)
	}
	logger.Info(
		"moved file",
		logging.String("source", move.Source),
		logging.String("destination", dest),
		logging.String("category", category),
		logging.Bool("renamed", renamed),
	)

	if e.recorder != nil {
		if err := e.recorder.RecordMove(ctx, move); err != nil {
			logger.Warn("failed to record move", logging.String("destination", dest), logging.Error(err))
		}
	}
	return move, true, nil
}
