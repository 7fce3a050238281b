// Package resume copies the raw résumé PDFs to job-specific file names.
package resume

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/khrees2412/jobapplier/internal/textnorm"
	"github.com/khrees2412/jobapplier/pkg/models"
	"golang.org/x/sync/errgroup"
)

// ErrMissingTitle is returned when an eligible record has no job title
var ErrMissingTitle = errors.New("record has no job title")

const copyWorkers = 4

// Renamer pairs pending records with the PDFs of RawDir
type Renamer struct {
	RawDir    string
	TargetDir string
	logger    *slog.Logger
}

func NewRenamer(rawDir, targetDir string, logger *slog.Logger) *Renamer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Renamer{RawDir: rawDir, TargetDir: targetDir, logger: logger}
}

// Eligible returns the records without a stage, highest position first.
// Records without a position come last, keeping their fetch order.
func Eligible(recs []models.ApplicationRecord) []models.ApplicationRecord {
	out := []models.ApplicationRecord{}
	for _, r := range recs {
		if !r.HasStage() {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Position, out[j].Position
		switch {
		case pi == nil:
			return false
		case pj == nil:
			return true
		default:
			return *pi > *pj
		}
	})
	return out
}

// FileName is the target résumé name of a record
func FileName(rec models.ApplicationRecord) (string, error) {
	if rec.JobTitle == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingTitle, rec.ID)
	}
	var sep string
	switch rec.Language {
	case models.LanguageFR:
		sep = "-"
	case models.LanguageEN:
		sep = "_"
	default:
		return "", &models.UnsupportedLanguageError{Value: string(rec.Language)}
	}
	return textnorm.Slug("cv", rec.JobTitle, sep) + ".pdf", nil
}

// RawFiles lists the PDFs of dir in lexicographic order
func RawFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Plan pairs eligible records with raw files positionally, stopping at the
// shorter of the two lists. Nothing is copied.
func (r *Renamer) Plan(recs []models.ApplicationRecord) ([]models.ResumeCopy, error) {
	eligible := Eligible(recs)
	names := make([]string, len(eligible))
	for i, rec := range eligible {
		name, err := FileName(rec)
		if err != nil {
			return nil, err
		}
		names[i] = name
	}

	raw, err := RawFiles(r.RawDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list résumés: %w", err)
	}

	n := min(len(eligible), len(raw))
	if len(eligible) != len(raw) {
		r.logger.Warn("résumé count mismatch", "records", len(eligible), "files", len(raw), "paired", n)
	}

	copies := make([]models.ResumeCopy, 0, n)
	for i := 0; i < n; i++ {
		copies = append(copies, models.ResumeCopy{
			RecordID: eligible[i].ID,
			Source:   raw[i],
			Target:   filepath.Join(r.TargetDir, names[i]),
		})
	}
	return copies, nil
}

// Rename copies each paired résumé to its new name. Originals are left in place.
func (r *Renamer) Rename(ctx context.Context, recs []models.ApplicationRecord) ([]models.ResumeCopy, error) {
	copies, err := r.Plan(recs)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(r.TargetDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create résumé directory: %w", err)
	}

	// Copies sharing a target run in order on one worker so the last one wins.
	var targets []string
	byTarget := map[string][]models.ResumeCopy{}
	for _, c := range copies {
		if _, ok := byTarget[c.Target]; !ok {
			targets = append(targets, c.Target)
		}
		byTarget[c.Target] = append(byTarget[c.Target], c)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(copyWorkers)
	for _, target := range targets {
		group := byTarget[target]
		g.Go(func() error {
			for _, c := range group {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := copyFile(c.Source, c.Target); err != nil {
					return fmt.Errorf("copy %s: %w", filepath.Base(c.Source), err)
				}
				r.logger.Debug("résumé copied", "source", c.Source, "target", c.Target)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return copies, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
