package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"foldersort/internal/config"
	"foldersort/internal/dirlock"
	"foldersort/internal/journal"
	"foldersort/internal/logging"
	"foldersort/internal/organizer"
)

type organizeOptions struct {
	dryRun  bool
	json    bool
	journal bool
}

type organizeOutput struct {
	RunID  string            `json:"run_id"`
	Report *organizer.Report `json:"report"`
	Error  string            `json:"error,omitempty"`
}

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var opts organizeOptions
	var noJournal bool

	cmd := &cobra.Command{
		Use:   "organize DIRECTORY",
		Short: "Move the directory's files into category/extension folders",
		Long: "Moves every top-level file whose extension matches a rule into\n" +
			"DIRECTORY/<category>/<extension>/. Name collisions are resolved as\n" +
			"\"name (1).ext\", \"name (2).ext\" and so on. Subdirectories and\n" +
			"unmatched files are left alone.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			opts.journal = cfg.Organize.Journal && !noJournal
			return runOrganize(cmd, cfg, logger, args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "Show the planned moves without touching any file")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output the run report as JSON")
	cmd.Flags().BoolVar(&noJournal, "no-journal", false, "Do not record this run in the journal")
	return cmd
}

func runOrganize(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, dir string, opts organizeOptions) error {
	table, err := cfg.RuleTable()
	if err != nil {
		return err
	}

	target := dir
	if strings.TrimSpace(dir) != "" {
		if abs, err := filepath.Abs(dir); err == nil {
			target = abs
		}
	}

	if !opts.dryRun && strings.TrimSpace(target) != "" {
		timeout := time.Duration(cfg.Organize.LockTimeoutSeconds) * time.Second
		lock, err := dirlock.Acquire(cmd.Context(), cfg.LockDir(), target, timeout)
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("failed to release directory lock", logging.Error(err))
			}
		}()
	}

	engineOpts := []organizer.Option{
		organizer.WithLogger(logger),
		organizer.WithDryRun(opts.dryRun),
	}

	runID := uuid.NewString()
	var run *journal.RunRecorder
	if opts.journal && strings.TrimSpace(target) != "" {
		store, err := journal.Open(cfg)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer store.Close()
		run, err = store.BeginRun(cmd.Context(), target, opts.dryRun)
		if err != nil {
			return err
		}
		runID = run.ID()
		engineOpts = append(engineOpts, organizer.WithRecorder(run))
	}

	runCtx := logging.WithRunID(cmd.Context(), runID)
	report, runErr := organizer.New(table, engineOpts...).Run(runCtx, target)

	if run != nil {
		if err := run.Finish(context.WithoutCancel(runCtx), report.Moved(), runErr); err != nil {
			logger.Warn("failed to finish journal run", logging.String(logging.FieldRunID, runID), logging.Error(err))
		}
	}

	if opts.json {
		if err := writeJSON(cmd, organizeOutput{RunID: runID, Report: report, Error: errorString(runErr)}); err != nil {
			return err
		}
		return runErr
	}

	out := cmd.OutOrStdout()
	if runErr != nil {
		if report.Moved() > 0 {
			fmt.Fprintf(out, "Organized %d file(s) before the run stopped\n", report.Moved())
		}
		if errors.Is(runErr, organizer.ErrInvalidArgument) {
			return fmt.Errorf("%w (usage: foldersort organize DIRECTORY)", runErr)
		}
		return runErr
	}
	printOrganizeSummary(out, report)
	return nil
}

func printOrganizeSummary(out io.Writer, report *organizer.Report) {
	if report.Moved() == 0 {
		fmt.Fprintln(out, "No files to organize were found.")
		return
	}
	if report.DryRun {
		fmt.Fprintln(out, planTable(report).render())
		fmt.Fprintf(out, "Would organize %d file(s)\n", report.Moved())
		return
	}
	fmt.Fprintf(out, "Organized %d file(s)\n", report.Moved())
}

func planTable(report *organizer.Report) tableView {
	rows := make([][]string, 0, len(report.Moves))
	for _, move := range report.Moves {
		dest := move.Destination
		if rel, err := filepath.Rel(report.Directory, move.Destination); err == nil {
			dest = rel
		}
		rows = append(rows, []string{
			filepath.Base(move.Source),
			move.Category,
			dest,
			yesNo(move.Renamed),
		})
	}
	return tableView{
		headers: []string{"File", "Category", "Destination", "Renamed"},
		rows:    rows,
	}
}
