package history_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"callscribe/internal/history"
	"callscribe/internal/services"
	"callscribe/internal/testsupport"
)

func TestBeginAndFinishSuccess(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	run, err := store.Begin(ctx, "summarize", "/in.csv", "/out.csv")
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if run.ID == "" || run.Status != history.StatusRunning {
		t.Fatalf("unexpected run after Begin: %#v", run)
	}

	counts := history.Counts{Rows: 3, Summarized: 2, SummarySkipped: 1}
	if err := store.Finish(ctx, run, counts, nil); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	got, err := store.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != history.StatusSucceeded {
		t.Fatalf("expected succeeded, got %s", got.Status)
	}
	if got.Counts != counts {
		t.Fatalf("counts mismatch: got %#v want %#v", got.Counts, counts)
	}
	if got.FinishedAt.IsZero() || got.Duration() < 0 {
		t.Fatalf("expected finished timestamp, got %#v", got)
	}
	if got.Error != "" || got.ErrorKind != "" {
		t.Fatalf("expected no error fields, got %q/%q", got.Error, got.ErrorKind)
	}
}

func TestFinishRecordsErrorKind(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	run, err := store.Begin(ctx, "classify", "/in.csv", "/out.csv")
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	runErr := services.Wrap(services.ErrSchema, "records", "locate column", "summary column 6 missing", nil)
	if err := store.Finish(ctx, run, history.Counts{}, runErr); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	got, err := store.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != history.StatusFailed || got.ErrorKind != "schema" {
		t.Fatalf("unexpected failure record: %#v", got)
	}
	if got.Error != runErr.Error() {
		t.Fatalf("error message mismatch: %q", got.Error)
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		run, err := store.Begin(ctx, "run", fmt.Sprintf("/in-%d.csv", i), "/out.csv")
		if err != nil {
			t.Fatalf("Begin failed: %v", err)
		}
		ids = append(ids, run.ID)
	}

	runs, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != ids[2] || runs[1].ID != ids[1] {
		t.Fatalf("unexpected order: %s, %s", runs[0].ID, runs[1].ID)
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected all 3 runs, got %d", len(all))
	}
}

func TestGetUnknownRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("update version: %v", err)
	}
	db.Close()

	if _, err := history.OpenPath(path); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	run, err := store.Begin(context.Background(), "summarize", "a", "b")
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	store.Close()

	reopened, err := history.OpenPath(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.Get(context.Background(), run.ID); err != nil {
		t.Fatalf("expected run to persist: %v", err)
	}
}
