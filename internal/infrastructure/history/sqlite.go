// Package history persists per-item run outcomes in an embedded sqlite
// ledger for audit. The ledger is advisory: pipeline behavior never depends
// on it, and failures here must not fail a run.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"PodcastSummarizer/internal/domain"
	"PodcastSummarizer/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	batch_id     TEXT NOT NULL,
	reference    TEXT NOT NULL,
	content_id   TEXT NOT NULL,
	content_type TEXT NOT NULL,
	success      INTEGER NOT NULL,
	degraded     INTEGER NOT NULL,
	error        TEXT NOT NULL DEFAULT '',
	summary_path TEXT NOT NULL DEFAULT '',
	finished_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_batch ON runs(batch_id);
`

// SQLiteRecorder implements ports.RunRecorder over a local sqlite file.
type SQLiteRecorder struct {
	db *sql.DB
}

var _ ports.RunRecorder = (*SQLiteRecorder)(nil)

// Open creates or opens the ledger at path.
func Open(path string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &SQLiteRecorder{db: db}, nil
}

// Close releases the database handle.
func (r *SQLiteRecorder) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// RecordBatch appends one row per item result under the given batch id.
func (r *SQLiteRecorder) RecordBatch(ctx context.Context, batchID string, results []domain.ItemResult) error {
	if len(results) == 0 {
		return nil
	}

	insert := sq.Insert("runs").Columns(
		"batch_id", "reference", "content_id", "content_type",
		"success", "degraded", "error", "summary_path", "finished_at",
	)
	for _, res := range results {
		errText := ""
		if res.Err != nil {
			errText = res.Err.Error()
		}
		finished := res.FinishedAt
		if finished.IsZero() {
			finished = time.Now()
		}
		insert = insert.Values(
			batchID, res.Reference, string(res.ID), string(res.Type),
			res.Success, res.Summary.Degraded, errText, res.Artifacts.Summary, finished,
		)
	}

	if _, err := insert.RunWith(r.db).ExecContext(ctx); err != nil {
		return fmt.Errorf("record batch %s: %w", batchID, err)
	}
	return nil
}

// Run is one persisted ledger row.
type Run struct {
	BatchID     string
	Reference   string
	ContentID   string
	ContentType string
	Success     bool
	Degraded    bool
	Error       string
	SummaryPath string
	FinishedAt  time.Time
}

// Recent returns the newest rows, most recent first.
func (r *SQLiteRecorder) Recent(ctx context.Context, limit uint64) ([]Run, error) {
	rows, err := sq.Select(
		"batch_id", "reference", "content_id", "content_type",
		"success", "degraded", "error", "summary_path", "finished_at",
	).
		From("runs").
		OrderBy("finished_at DESC").
		Limit(limit).
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.BatchID, &run.Reference, &run.ContentID, &run.ContentType,
			&run.Success, &run.Degraded, &run.Error, &run.SummaryPath, &run.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
