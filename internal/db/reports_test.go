package db

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"linkscout/internal/analysis"
)

// setupTestDB opens an in-memory export database.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func sampleReport() *analysis.Report {
	results := []analysis.Result{
		{SourceURL: "P1", RelatedURL: "P2", IsActiveLink: true, Rank: 0, Similarity: 1},
		{SourceURL: "P1", RelatedURL: "P3", IsActiveLink: false, Rank: 1, Similarity: 0},
		{SourceURL: "P2", RelatedURL: "P1", IsActiveLink: false, Rank: 0, Similarity: 1},
	}
	return &analysis.Report{
		Results:           results,
		Stats:             analysis.ComputeStats(results),
		TopN:              2,
		ValidEmbeddings:   3,
		SkippedEmbeddings: 1,
		LinkEdges:         1,
	}
}

func TestSaveReport_RoundTrip(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	report := sampleReport()

	if err := d.SaveReport(ctx, "run-1", report); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	run, err := d.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run == nil {
		t.Fatal("expected run to exist")
	}
	if run.Stats != report.Stats {
		t.Errorf("stats: got %+v, want %+v", run.Stats, report.Stats)
	}
	if run.TopN != 2 || run.ValidEmbeddings != 3 || run.SkippedEmbeddings != 1 || run.LinkEdges != 1 {
		t.Errorf("unexpected run row %+v", run)
	}
	if run.CreatedAt == 0 {
		t.Errorf("created_at should be set")
	}

	results, err := d.LoadResults(ctx, "run-1")
	if err != nil {
		t.Fatalf("LoadResults: %v", err)
	}
	if !reflect.DeepEqual(results, report.Results) {
		t.Errorf("results differ:\ngot  %+v\nwant %+v", results, report.Results)
	}
}

func TestSaveReport_DuplicateRunIDFails(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	if err := d.SaveReport(ctx, "dup", sampleReport()); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := d.SaveReport(ctx, "dup", sampleReport()); err == nil {
		t.Fatal("expected error for duplicate run id")
	}
	// the failed transaction must not leave extra rows behind
	results, err := d.LoadResults(ctx, "dup")
	if err != nil {
		t.Fatalf("LoadResults: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestGetRun_Missing(t *testing.T) {
	d := setupTestDB(t)
	run, err := d.GetRun(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run != nil {
		t.Errorf("expected nil run, got %+v", run)
	}
}

func TestOpenDB_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.db")
	d, err := OpenDB(path)
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	if err := d.SaveReport(context.Background(), "r", sampleReport()); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	d.Close()

	// reopening keeps earlier exports and does not fail on existing tables
	d, err = OpenDB(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer d.Close()
	run, err := d.GetRun(context.Background(), "r")
	if err != nil || run == nil {
		t.Fatalf("expected saved run after reopen, got %v, %v", run, err)
	}
}
