package journal_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"foldersort/internal/journal"
	"foldersort/internal/organizer"
	"foldersort/internal/testsupport"
)

func TestOpenCreatesSchemaAndReopens(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	if store.Path() != cfg.JournalPath() {
		t.Fatalf("unexpected journal path %q", store.Path())
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	runs, err := reopened.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected empty journal, got %d runs", len(runs))
	}
}

func TestRunLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	rec, err := store.BeginRun(ctx, "/data/downloads", false)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if rec.ID() == "" {
		t.Fatal("expected run id")
	}

	var _ organizer.Recorder = rec
	moves := []organizer.Move{
		{Source: "/data/downloads/a.txt", Destination: "/data/downloads/Documents/txt/a.txt", Category: "Documents"},
		{Source: "/data/downloads/b.txt", Destination: "/data/downloads/Documents/txt/b (1).txt", Category: "Documents", Renamed: true},
	}
	for _, move := range moves {
		if err := rec.RecordMove(ctx, move); err != nil {
			t.Fatalf("RecordMove: %v", err)
		}
	}
	if err := rec.Finish(ctx, len(moves), nil); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	run, err := store.GetRun(ctx, rec.ID()[:8])
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Directory != "/data/downloads" || run.Moved != 2 || run.DryRun || run.Error != "" {
		t.Fatalf("unexpected run: %#v", run)
	}
	if run.FinishedAt == nil || run.FinishedAt.Before(run.StartedAt) {
		t.Fatalf("unexpected timestamps: %#v", run)
	}

	recorded, err := store.Moves(ctx, run.ID)
	if err != nil {
		t.Fatalf("Moves: %v", err)
	}
	if len(recorded) != 2 {
		t.Fatalf("expected 2 moves, got %d", len(recorded))
	}
	if recorded[0].Seq != 1 || recorded[1].Seq != 2 || !recorded[1].Renamed {
		t.Fatalf("unexpected move records: %#v", recorded)
	}
	if !strings.HasSuffix(recorded[1].Destination, "b (1).txt") {
		t.Fatalf("unexpected destination %q", recorded[1].Destination)
	}
}

func TestFinishRecordsError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	rec, err := store.BeginRun(ctx, "/tmp/x", true)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if err := rec.Finish(ctx, 0, errors.New("filesystem error: read directory /tmp/x")); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	run, err := store.GetRun(ctx, rec.ID())
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if !run.DryRun || !strings.Contains(run.Error, "read directory") {
		t.Fatalf("unexpected run: %#v", run)
	}
}

func TestListRunsNewestFirstWithLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	var ids []string
	for _, dir := range []string{"/one", "/two", "/three"} {
		rec, err := store.BeginRun(ctx, dir, false)
		if err != nil {
			t.Fatalf("BeginRun: %v", err)
		}
		ids = append(ids, rec.ID())
		time.Sleep(2 * time.Millisecond)
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != ids[2] || runs[1].ID != ids[1] {
		t.Fatalf("unexpected order: %s, %s", runs[0].Directory, runs[1].Directory)
	}
	if runs[0].FinishedAt != nil {
		t.Fatal("unfinished run should have no finish time")
	}
}

func TestGetRunNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	for _, id := range []string{"", "does-not-exist"} {
		if _, err := store.GetRun(context.Background(), id); !errors.Is(err, journal.ErrRunNotFound) {
			t.Fatalf("GetRun(%q) err = %v, want ErrRunNotFound", id, err)
		}
	}
}
