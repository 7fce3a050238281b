package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/khrees2412/jobapplier/internal/notion"
	"github.com/khrees2412/jobapplier/pkg/models"
)

// LetterBuilder renders the cover letter of one application
type LetterBuilder interface {
	Build(lang models.Language, company, title string) (string, error)
}

// BlockAppender uploads text as a child block of a page
type BlockAppender interface {
	AppendBlock(ctx context.Context, blockID, text string, bt notion.BlockType) error
}

// Journal records what each run did. It is optional everywhere it is accepted.
type Journal interface {
	StartRun(ctx context.Context, action string) (string, error)
	FinishRun(ctx context.Context, runID string) error
	RecordEntry(ctx context.Context, entry *models.JournalEntry) error
	HandledPages(ctx context.Context, action string) (map[string]bool, error)
}

// DispatchOptions tunes one cover letter run
type DispatchOptions struct {
	BlockType notion.BlockType
	// SkipSent skips pages that already got a letter in an earlier journaled run
	SkipSent bool
}

// DispatchReport is the outcome of a cover letter run
type DispatchReport struct {
	RunID   string
	Results []Result[string]
	Skipped []models.ApplicationRecord
}

// Failed counts the records whose letter could not be built or uploaded
func (r *DispatchReport) Failed() int {
	return Failed(r.Results)
}

// Dispatcher builds and uploads cover letters for pending applications
type Dispatcher struct {
	builder  LetterBuilder
	appender BlockAppender
	journal  Journal
	logger   *slog.Logger
}

func NewDispatcher(builder LetterBuilder, appender BlockAppender, journal Journal, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{builder: builder, appender: appender, journal: journal, logger: logger}
}

// Run uploads one letter per pending record with a language
func (d *Dispatcher) Run(ctx context.Context, recs []models.ApplicationRecord, opts DispatchOptions) (*DispatchReport, error) {
	if opts.BlockType == "" {
		opts.BlockType = notion.BlockParagraph
	}

	report := &DispatchReport{}
	rec := NewRecorder(d.journal, d.logger)
	report.RunID = rec.Start(ctx, models.ActionFillLetters)
	defer rec.Finish(ctx)

	handled := map[string]bool{}
	if opts.SkipSent && d.journal != nil {
		var err error
		handled, err = d.journal.HandledPages(ctx, models.ActionFillLetters)
		if err != nil {
			return nil, fmt.Errorf("failed to read journal: %w", err)
		}
	}

	pred := func(r models.ApplicationRecord) bool {
		if !PendingLetter(r) {
			return false
		}
		if handled[r.ID] {
			report.Skipped = append(report.Skipped, r)
			rec.Entry(ctx, r, models.EntrySkipped, "letter already sent")
			return false
		}
		return true
	}

	report.Results = Process(ctx, recs, pred, func(ctx context.Context, r models.ApplicationRecord) (string, error) {
		letter, err := d.builder.Build(r.Language, r.Company, r.JobTitle)
		if err != nil {
			return "", err
		}
		if err := d.appender.AppendBlock(ctx, r.ID, letter, opts.BlockType); err != nil {
			return "", err
		}
		return letter, nil
	})

	for _, res := range report.Results {
		if res.Err != nil {
			d.logger.Error("cover letter failed", "page_id", res.Record.ID, "company", res.Record.Company, "error", res.Err)
			rec.Entry(ctx, res.Record, models.EntryFailed, res.Err.Error())
			continue
		}
		d.logger.Info("cover letter uploaded", "page_id", res.Record.ID, "company", res.Record.Company)
		rec.Entry(ctx, res.Record, models.EntryOK, string(opts.BlockType))
	}

	return report, nil
}

// Recorder writes journal entries when a journal is configured. Journal write
// failures are logged and never fail the run.
type Recorder struct {
	journal Journal
	logger  *slog.Logger
	runID   string
}

func NewRecorder(j Journal, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Recorder{journal: j, logger: logger}
}

// Start opens a journal run and returns its ID. When the run cannot be opened
// the recorder stays inert and the empty ID is returned.
func (r *Recorder) Start(ctx context.Context, action string) string {
	if r.journal == nil {
		return ""
	}
	id, err := r.journal.StartRun(ctx, action)
	if err != nil {
		r.logger.Warn("journal run not started", "action", action, "error", err)
		return ""
	}
	r.runID = id
	return id
}

func (r *Recorder) Entry(ctx context.Context, rec models.ApplicationRecord, status, detail string) {
	if r.journal == nil || r.runID == "" {
		return
	}
	err := r.journal.RecordEntry(context.WithoutCancel(ctx), &models.JournalEntry{
		RunID:    r.runID,
		PageID:   rec.ID,
		JobTitle: rec.JobTitle,
		Company:  rec.Company,
		Status:   status,
		Detail:   detail,
	})
	if err != nil {
		r.logger.Warn("journal entry not written", "page_id", rec.ID, "error", err)
	}
}

func (r *Recorder) Finish(ctx context.Context) {
	if r.journal == nil || r.runID == "" {
		return
	}
	if err := r.journal.FinishRun(context.WithoutCancel(ctx), r.runID); err != nil {
		r.logger.Warn("journal run not closed", "run_id", r.runID, "error", err)
	}
}
