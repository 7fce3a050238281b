package export

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

type stubBuilder struct{}

func (stubBuilder) Build(lang models.Language, company, title string) (string, error) {
	if company == "Broken" {
		return "", errors.New("template missing")
	}
	return "Dear " + company + ",\n\nI want to be your " + title + ".\n\n<b>Bye</b>", nil
}

type stubRenderer struct {
	docs []string
}

func (s *stubRenderer) RenderPDF(_ context.Context, html string) ([]byte, error) {
	s.docs = append(s.docs, html)
	return []byte("%PDF-1.4"), nil
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	f, err = ParseFormat("pdf")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("docx")
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	en := models.ApplicationRecord{Company: "Acme Corp", JobTitle: "Engineer", Language: models.LanguageEN}
	fr := models.ApplicationRecord{Company: "Société Générale", JobTitle: "Développeur", Language: models.LanguageFR}

	assert.Equal(t, "lm_acme_corp_engineer.txt", FileName(en, FormatText))
	assert.Equal(t, "lm-societe-generale-developpeur.pdf", FileName(fr, FormatPDF))
}

func TestExportText(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "letters")
	recs := []models.ApplicationRecord{
		{ID: "1", Company: "Acme", JobTitle: "Engineer", Language: models.LanguageEN},
		{ID: "2", Company: "Staged", JobTitle: "Dev", Language: models.LanguageEN, Stage: "Applied"},
		{ID: "3", Company: "Broken", JobTitle: "Dev", Language: models.LanguageEN},
	}

	results, err := New(stubBuilder{}, Options{Dir: dir}).Export(context.Background(), recs)
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.NoError(t, results[0].Err)
	data, err := os.ReadFile(results[0].Value)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Dear Acme")

	assert.Error(t, results[1].Err)
}

func TestExportPDFNeedsRenderer(t *testing.T) {
	_, err := New(stubBuilder{}, Options{Dir: t.TempDir(), Format: FormatPDF}).Export(context.Background(), nil)
	assert.Error(t, err)
}

func TestExportPDF(t *testing.T) {
	renderer := &stubRenderer{}
	recs := []models.ApplicationRecord{{ID: "1", Company: "Acme", JobTitle: "Engineer", Language: models.LanguageEN}}

	results, err := New(stubBuilder{}, Options{Dir: t.TempDir(), Format: FormatPDF, Renderer: renderer}).Export(context.Background(), recs)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, ".pdf", filepath.Ext(results[0].Value))

	require.Len(t, renderer.docs, 1)
	assert.Contains(t, renderer.docs[0], "<p>Dear Acme,</p>")
	assert.Contains(t, renderer.docs[0], "&lt;b&gt;Bye&lt;/b&gt;")
}

func TestLetterHTML(t *testing.T) {
	doc, err := LetterHTML(models.ApplicationRecord{Language: models.LanguageFR, JobTitle: "Dev", Company: "Atos"}, "Bonjour,\r\n\r\nMerci.\n\n\n")
	require.NoError(t, err)
	assert.Contains(t, doc, `<html lang="fr">`)
	assert.Contains(t, doc, "<title>Dev Atos</title>")
	assert.Contains(t, doc, "<p>Bonjour,</p>")
	assert.Contains(t, doc, "<p>Merci.</p>")
}
