package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"foldersort/internal/journal"
)

type runDetail struct {
	Run   *journal.Run         `json:"run"`
	Moves []journal.MoveRecord `json:"moves"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history [RUN_ID]",
		Short: "List past organize runs, or the moves of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(store *journal.Store) error {
				if len(args) == 1 {
					return showRun(cmd, store, args[0], jsonOutput)
				}
				return listRuns(cmd, store, limit, jsonOutput)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of runs to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func listRuns(cmd *cobra.Command, store *journal.Store, limit int, jsonOutput bool) error {
	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		if runs == nil {
			runs = []journal.Run{}
		}
		return writeJSON(cmd, runs)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			run.StartedAt.Local().Format(time.DateTime),
			run.Directory,
			strconv.Itoa(run.Moved),
			yesNo(run.DryRun),
			runStatus(run),
		})
	}
	fmt.Fprintln(out, tableView{
		headers: []string{"Run", "Started", "Directory", "Moved", "Dry run", "Status"},
		rows:    rows,
		aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	}.render())
	return nil
}

func showRun(cmd *cobra.Command, store *journal.Store, id string, jsonOutput bool) error {
	run, err := store.GetRun(cmd.Context(), id)
	if err != nil {
		return err
	}
	moves, err := store.Moves(cmd.Context(), run.ID)
	if err != nil {
		return err
	}
	if jsonOutput {
		if moves == nil {
			moves = []journal.MoveRecord{}
		}
		return writeJSON(cmd, runDetail{Run: run, Moves: moves})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:       %s\n", run.ID)
	fmt.Fprintf(out, "Directory: %s\n", run.Directory)
	fmt.Fprintf(out, "Started:   %s\n", run.StartedAt.Local().Format(time.DateTime))
	if run.FinishedAt != nil {
		fmt.Fprintf(out, "Finished:  %s\n", run.FinishedAt.Local().Format(time.DateTime))
	}
	fmt.Fprintf(out, "Dry run:   %s\n", yesNo(run.DryRun))
	fmt.Fprintf(out, "Moved:     %d\n", run.Moved)
	fmt.Fprintf(out, "Status:    %s\n", runStatus(*run))
	if run.Error != "" {
		fmt.Fprintf(out, "Error:     %s\n", run.Error)
	}
	if len(moves) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(moves))
	for _, move := range moves {
		dest := move.Destination
		if rel, err := filepath.Rel(run.Directory, move.Destination); err == nil {
			dest = rel
		}
		rows = append(rows, []string{
			strconv.Itoa(move.Seq),
			filepath.Base(move.Source),
			move.Category,
			dest,
		})
	}
	fmt.Fprintln(out, tableView{
		headers: []string{"#", "File", "Category", "Destination"},
		rows:    rows,
		aligns:  []columnAlignment{alignRight},
		footer:  []string{"", "", "Total", strconv.Itoa(len(moves))},
	}.render())
	return nil
}

func runStatus(run journal.Run) string {
	switch {
	case run.Error != "":
		return "failed"
	case run.FinishedAt == nil:
		return "incomplete"
	default:
		return "ok"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
