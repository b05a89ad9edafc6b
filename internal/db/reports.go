package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"linkscout/internal/analysis"
)

// Run is the summary row of one exported report
type Run struct {
	ID                string         `json:"id"`
	CreatedAt         int64          `json:"created_at"` // Unix millis
	TopN              int            `json:"top_n"`
	Stats             analysis.Stats `json:"stats"`
	ValidEmbeddings   int            `json:"valid_embeddings"`
	SkippedEmbeddings int            `json:"skipped_embeddings"`
	LinkEdges         int            `json:"link_edges"`
}

// SaveReport writes a report and all of its results under runID in a single
// transaction
func (d *DB) SaveReport(ctx context.Context, runID string, report *analysis.Report) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, top_n, total_pairs, active_links, percentage,
		                  valid_embeddings, skipped_embeddings, link_edges)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, time.Now().UnixMilli(), report.TopN,
		report.Stats.TotalPairs, report.Stats.ActiveLinks, report.Stats.Percentage,
		report.ValidEmbeddings, report.SkippedEmbeddings, report.LinkEdges)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", runID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO results (run_id, position, source_url, related_url, rank, similarity, is_active_link)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing result insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range report.Results {
		if _, err := stmt.ExecContext(ctx, runID, i, r.SourceURL, r.RelatedURL, r.Rank, r.Similarity, r.IsActiveLink); err != nil {
			return fmt.Errorf("inserting result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run %s: %w", runID, err)
	}
	return nil
}

// GetRun returns the summary of one exported run, or nil if it does not exist
func (d *DB) GetRun(ctx context.Context, runID string) (*Run, error) {
	var r Run
	err := d.conn.QueryRowContext(ctx, `
		SELECT id, created_at, top_n, total_pairs, active_links, percentage,
		       valid_embeddings, skipped_embeddings, link_edges
		FROM runs WHERE id = ?
	`, runID).Scan(
		&r.ID, &r.CreatedAt, &r.TopN, &r.Stats.TotalPairs, &r.Stats.ActiveLinks, &r.Stats.Percentage,
		&r.ValidEmbeddings, &r.SkippedEmbeddings, &r.LinkEdges,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// LoadResults returns the results of a run in their original order
func (d *DB) LoadResults(ctx context.Context, runID string) ([]analysis.Result, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT source_url, related_url, rank, similarity, is_active_link
		FROM results WHERE run_id = ? ORDER BY position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []analysis.Result
	for rows.Next() {
		var r analysis.Result
		if err := rows.Scan(&r.SourceURL, &r.RelatedURL, &r.Rank, &r.Similarity, &r.IsActiveLink); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
