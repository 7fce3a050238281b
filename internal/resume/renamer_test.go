package resume

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/khrees2412/jobapplier/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func writeRaw(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("pdf:"+n), 0o644))
	}
}

func TestEligibleOrder(t *testing.T) {
	recs := []models.ApplicationRecord{
		{ID: "a", Position: intPtr(1)},
		{ID: "b"},
		{ID: "c", Position: intPtr(5), Stage: "Applied"},
		{ID: "d", Position: intPtr(3)},
		{ID: "e"},
	}

	got := Eligible(recs)
	ids := []string{}
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"d", "a", "b", "e"}, ids)
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name     string
		rec      models.ApplicationRecord
		expected string
	}{
		{"french uses dashes", models.ApplicationRecord{JobTitle: "Ingénieur Logiciel (H/F)", Language: models.LanguageFR}, "cv-ingenieur-logiciel-h-f.pdf"},
		{"english uses underscores", models.ApplicationRecord{JobTitle: "Data Engineer", Language: models.LanguageEN}, "cv_data_engineer.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FileName(tt.rec)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := FileName(models.ApplicationRecord{JobTitle: "Dev", Language: "DE"})
	var langErr *models.UnsupportedLanguageError
	assert.ErrorAs(t, err, &langErr)

	_, err = FileName(models.ApplicationRecord{ID: "x", Language: models.LanguageEN})
	assert.ErrorIs(t, err, ErrMissingTitle)
}

func TestRenameStopsAtShorterList(t *testing.T) {
	raw, target := t.TempDir(), filepath.Join(t.TempDir(), "out")
	writeRaw(t, raw, "b.pdf", "a.pdf", "notes.txt")

	recs := []models.ApplicationRecord{
		{ID: "1", JobTitle: "Data Engineer", Language: models.LanguageEN, Position: intPtr(3)},
		{ID: "2", JobTitle: "Développeur", Language: models.LanguageFR, Position: intPtr(2)},
		{ID: "3", JobTitle: "Analyst", Language: models.LanguageEN, Position: intPtr(1)},
	}

	copies, err := NewRenamer(raw, target, nil).Rename(context.Background(), recs)
	require.NoError(t, err)
	require.Len(t, copies, 2)

	data, err := os.ReadFile(filepath.Join(target, "cv_data_engineer.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "pdf:a.pdf", string(data))

	data, err = os.ReadFile(filepath.Join(target, "cv-developpeur.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "pdf:b.pdf", string(data))

	_, err = os.Stat(filepath.Join(target, "cv_analyst.pdf"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// originals are kept
	_, err = os.Stat(filepath.Join(raw, "a.pdf"))
	assert.NoError(t, err)
}

func TestRenameFailsBeforeCopying(t *testing.T) {
	raw, target := t.TempDir(), filepath.Join(t.TempDir(), "out")
	writeRaw(t, raw, "a.pdf", "b.pdf")

	recs := []models.ApplicationRecord{
		{ID: "1", JobTitle: "Data Engineer", Language: models.LanguageEN},
		{ID: "2", JobTitle: "Entwickler", Language: "DE"},
	}

	_, err := NewRenamer(raw, target, nil).Rename(context.Background(), recs)
	require.Error(t, err)

	_, statErr := os.Stat(target)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestRenameIgnoresStagedRecords(t *testing.T) {
	raw, target := t.TempDir(), t.TempDir()
	writeRaw(t, raw, "a.pdf")

	recs := []models.ApplicationRecord{
		{ID: "1", JobTitle: "Unsupported", Language: "DE", Stage: "Rejected"},
		{ID: "2", JobTitle: "Writer", Language: models.LanguageEN},
	}

	copies, err := NewRenamer(raw, target, nil).Rename(context.Background(), recs)
	require.NoError(t, err)
	require.Len(t, copies, 1)
	assert.Equal(t, "2", copies[0].RecordID)
	assert.Equal(t, filepath.Join(target, "cv_writer.pdf"), copies[0].Target)
}
