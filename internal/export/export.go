// Package export writes the cover letters of pending applications to disk,
// as plain text or as PDF rendered by headless Chrome.
package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/khrees2412/jobapplier/internal/pipeline"
	"github.com/khrees2412/jobapplier/internal/textnorm"
	"github.com/khrees2412/jobapplier/pkg/models"
)

// Format is the output file format
type Format string

const (
	FormatText Format = "txt"
	FormatPDF  Format = "pdf"
)

// ParseFormat validates a format name, defaulting to text
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q: must be txt or pdf", s)
	}
}

// Renderer turns an HTML document into PDF bytes
type Renderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// Options configures an Exporter
type Options struct {
	Dir      string
	Format   Format
	Renderer Renderer // required for FormatPDF
	Journal  pipeline.Journal
	Logger   *slog.Logger
}

// Exporter writes one letter file per pending application
type Exporter struct {
	builder pipeline.LetterBuilder
	opts    Options
}

func New(builder pipeline.LetterBuilder, opts Options) *Exporter {
	if opts.Format == "" {
		opts.Format = FormatText
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Exporter{builder: builder, opts: opts}
}

// FileName is the export file name of a record, e.g. "lm_acme_engineer.txt"
func FileName(rec models.ApplicationRecord, format Format) string {
	sep := "_"
	if rec.Language == models.LanguageFR {
		sep = "-"
	}
	return textnorm.Slug("lm", rec.Company+" "+rec.JobTitle, sep) + "." + string(format)
}

// Export writes the letters of the pending records. Each result holds the
// written path or the error of that record.
func (e *Exporter) Export(ctx context.Context, recs []models.ApplicationRecord) ([]pipeline.Result[string], error) {
	if e.opts.Format == FormatPDF && e.opts.Renderer == nil {
		return nil, fmt.Errorf("pdf export needs a renderer")
	}
	if err := os.MkdirAll(e.opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create letters directory: %w", err)
	}

	rec := pipeline.NewRecorder(e.opts.Journal, e.opts.Logger)
	rec.Start(ctx, models.ActionExportLetters)
	defer rec.Finish(ctx)

	results := pipeline.Process(ctx, recs, pipeline.PendingLetter, e.exportOne)
	for _, res := range results {
		if res.Err != nil {
			e.opts.Logger.Error("letter export failed", "page_id", res.Record.ID, "error", res.Err)
			rec.Entry(ctx, res.Record, models.EntryFailed, res.Err.Error())
			continue
		}
		rec.Entry(ctx, res.Record, models.EntryOK, res.Value)
	}
	return results, nil
}

func (e *Exporter) exportOne(ctx context.Context, r models.ApplicationRecord) (string, error) {
	letter, err := e.builder.Build(r.Language, r.Company, r.JobTitle)
	if err != nil {
		return "", err
	}

	data := []byte(letter)
	if e.opts.Format == FormatPDF {
		doc, err := LetterHTML(r, letter)
		if err != nil {
			return "", err
		}
		if data, err = e.opts.Renderer.RenderPDF(ctx, doc); err != nil {
			return "", fmt.Errorf("render pdf: %w", err)
		}
	}

	path := filepath.Join(e.opts.Dir, FileName(r, e.opts.Format))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write letter: %w", err)
	}
	return path, nil
}
