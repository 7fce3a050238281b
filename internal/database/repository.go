package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/khrees2412/jobapplier/pkg/models"
)

// Run operations

// StartRun records the start of an action and returns the new run ID
func (j *Journal) StartRun(ctx context.Context, action string) (string, error) {
	id := uuid.NewString()
	query := `INSERT INTO runs (id, action, started_at) VALUES (?, ?, ?)`
	if _, err := j.db.ExecContext(ctx, query, id, action, time.Now().UTC()); err != nil {
		return "", err
	}
	return id, nil
}

// FinishRun stamps the run and stores its ok/failed counts
func (j *Journal) FinishRun(ctx context.Context, runID string) error {
	query := `UPDATE runs SET finished_at=?,
			  succeeded=(SELECT COUNT(*) FROM entries WHERE run_id=? AND status='ok'),
			  failed=(SELECT COUNT(*) FROM entries WHERE run_id=? AND status='failed')
			  WHERE id=?`
	_, err := j.db.ExecContext(ctx, query, time.Now().UTC(), runID, runID, runID)
	return err
}

func (j *Journal) GetRun(ctx context.Context, runID string) (*models.JournalRun, error) {
	query := `SELECT id, action, started_at, finished_at, succeeded, failed FROM runs WHERE id=?`
	run := &models.JournalRun{}
	var finished sql.NullTime
	err := j.db.QueryRowContext(ctx, query, runID).Scan(&run.ID, &run.Action, &run.StartedAt,
		&finished, &run.Succeeded, &run.Failed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if finished.Valid {
		run.FinishedAt = &finished.Time
	}
	return run, nil
}

// ListRuns returns the most recent runs first
func (j *Journal) ListRuns(ctx context.Context, limit int) ([]*models.JournalRun, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, action, started_at, finished_at, succeeded, failed
			  FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`
	rows, err := j.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*models.JournalRun{}
	for rows.Next() {
		run := &models.JournalRun{}
		var finished sql.NullTime
		err := rows.Scan(&run.ID, &run.Action, &run.StartedAt, &finished, &run.Succeeded, &run.Failed)
		if err != nil {
			return nil, err
		}
		if finished.Valid {
			run.FinishedAt = &finished.Time
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Entry operations

func (j *Journal) RecordEntry(ctx context.Context, entry *models.JournalEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO entries (run_id, page_id, job_title, company, status, detail, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := j.db.ExecContext(ctx, query, entry.RunID, entry.PageID, entry.JobTitle,
		entry.Company, entry.Status, entry.Detail, entry.CreatedAt)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	entry.ID = int(id)
	return nil
}

func (j *Journal) ListEntries(ctx context.Context, runID string) ([]*models.JournalEntry, error) {
	query := `SELECT id, run_id, page_id, job_title, company, status, detail, created_at
			  FROM entries WHERE run_id=? ORDER BY id`
	rows, err := j.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*models.JournalEntry{}
	for rows.Next() {
		e := &models.JournalEntry{}
		err := rows.Scan(&e.ID, &e.RunID, &e.PageID, &e.JobTitle, &e.Company, &e.Status,
			&e.Detail, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// HandledPages returns the page IDs that got a successful entry for action in any run
func (j *Journal) HandledPages(ctx context.Context, action string) (map[string]bool, error) {
	query := `SELECT DISTINCT e.page_id FROM entries e
			  JOIN runs r ON e.run_id = r.id
			  WHERE r.action=? AND e.status='ok'`
	rows, err := j.db.QueryContext(ctx, query, action)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	handled := map[string]bool{}
	for rows.Next() {
		var pageID string
		if err := rows.Scan(&pageID); err != nil {
			return nil, err
		}
		handled[pageID] = true
	}
	return handled, rows.Err()
}
