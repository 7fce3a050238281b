package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/khrees2412/jobapplier/internal/notion"
	"github.com/khrees2412/jobapplier/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBuilder struct{}

func (fakeBuilder) Build(lang models.Language, company, title string) (string, error) {
	if lang != models.LanguageEN && lang != models.LanguageFR {
		return "", &models.UnsupportedLanguageError{Value: string(lang)}
	}
	return fmt.Sprintf("%s letter for %s at %s", lang, title, company), nil
}

type appendCall struct {
	blockID string
	text    string
	bt      notion.BlockType
}

type fakeAppender struct {
	calls  []appendCall
	failOn string
}

func (f *fakeAppender) AppendBlock(_ context.Context, blockID, text string, bt notion.BlockType) error {
	if blockID == f.failOn {
		return errors.New("boom")
	}
	f.calls = append(f.calls, appendCall{blockID: blockID, text: text, bt: bt})
	return nil
}

type fakeJournal struct {
	runs    []string
	entries []models.JournalEntry
	handled map[string]bool
	closed  int
}

func (f *fakeJournal) StartRun(_ context.Context, action string) (string, error) {
	f.runs = append(f.runs, action)
	return fmt.Sprintf("run-%d", len(f.runs)), nil
}

func (f *fakeJournal) FinishRun(context.Context, string) error {
	f.closed++
	return nil
}

func (f *fakeJournal) RecordEntry(_ context.Context, e *models.JournalEntry) error {
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeJournal) HandledPages(context.Context, string) (map[string]bool, error) {
	return f.handled, nil
}

// brokenJournal cannot open runs, as with a locked or unwritable journal file
type brokenJournal struct {
	fakeJournal
}

func (b *brokenJournal) StartRun(context.Context, string) (string, error) {
	return "", errors.New("disk I/O error")
}

func intPtr(n int) *int { return &n }

func TestProcessIsolatesFailures(t *testing.T) {
	recs := []models.ApplicationRecord{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	results := Process(context.Background(), recs, All, func(_ context.Context, r models.ApplicationRecord) (string, error) {
		if r.ID == "b" {
			return "", errors.New("bad record")
		}
		return r.ID + "!", nil
	})

	require.Len(t, results, 3)
	assert.Equal(t, "a!", results[0].Value)
	assert.Error(t, results[1].Err)
	assert.Equal(t, "c!", results[2].Value)
	assert.Equal(t, 1, Failed(results))
}

func TestProcessStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	recs := []models.ApplicationRecord{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	ran := 0
	results := Process(ctx, recs, All, func(_ context.Context, r models.ApplicationRecord) (int, error) {
		ran++
		cancel()
		return ran, nil
	})

	assert.Equal(t, 1, ran)
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, context.Canceled)
	assert.ErrorIs(t, results[2].Err, context.Canceled)
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name     string
		rec      models.ApplicationRecord
		pending  bool
		letter   bool
		matchesA bool
	}{
		{"pending with language", models.ApplicationRecord{Language: models.LanguageEN, Company: "Atos"}, true, true, true},
		{"pending without language", models.ApplicationRecord{Company: "Décathlon"}, true, false, true},
		{"already staged", models.ApplicationRecord{Stage: "Applied", Language: models.LanguageFR}, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.pending, Pending(tt.rec))
			assert.Equal(t, tt.letter, PendingLetter(tt.rec))
			assert.Equal(t, tt.matchesA, CompanyContains("A")(tt.rec))
		})
	}
}

func TestCompanyReport(t *testing.T) {
	applied := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	recs := []models.ApplicationRecord{
		{ID: "1", Company: "Société Générale", JobTitle: "Dev", DateApplied: &applied, Origin: "LinkedIn", Stage: "Applied"},
		{ID: "2", Company: "Orange", JobTitle: "Ops"},
		{ID: "3", Company: "", JobTitle: "Ghost"},
		{ID: "4", Company: "societe du Grand Paris", JobTitle: "PM"},
	}

	rows := CompanyReport(context.Background(), recs, "SOCIETE")
	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0].ID)
	assert.Equal(t, &applied, rows[0].DateApplied)
	assert.Equal(t, "LinkedIn", rows[0].Origin)
	assert.Equal(t, "4", rows[1].ID)

	assert.Empty(t, CompanyReport(context.Background(), recs, "nothing"))
	assert.Empty(t, CompanyReport(context.Background(), recs, "   "))

	rows = CompanyReport(context.Background(), []models.ApplicationRecord{{ID: "5", Company: "ÀCME Corp"}}, "acme")
	require.Len(t, rows, 1)
	assert.Equal(t, "ÀCME Corp", rows[0].Company)
}

func TestDispatcherRun(t *testing.T) {
	recs := []models.ApplicationRecord{
		{ID: "p1", Company: "Acme", JobTitle: "Engineer", Language: models.LanguageEN},
		{ID: "p2", Company: "Atos", JobTitle: "Dev", Language: models.LanguageFR, Stage: "Applied"},
		{ID: "p3", Company: "Orange", JobTitle: "Ops"},
		{ID: "p4", Company: "Bosch", JobTitle: "QA", Language: models.Language("DE")},
		{ID: "p5", Company: "Thales", JobTitle: "SRE", Language: models.LanguageFR},
	}
	appender := &fakeAppender{}
	journal := &fakeJournal{}
	d := NewDispatcher(fakeBuilder{}, appender, journal, nil)

	report, err := d.Run(context.Background(), recs, DispatchOptions{BlockType: notion.BlockCode})
	require.NoError(t, err)

	require.Len(t, report.Results, 3)
	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, "run-1", report.RunID)

	require.Len(t, appender.calls, 2)
	assert.Equal(t, "p1", appender.calls[0].blockID)
	assert.Equal(t, notion.BlockCode, appender.calls[0].bt)
	assert.Equal(t, "EN letter for Engineer at Acme", appender.calls[0].text)
	assert.Equal(t, "p5", appender.calls[1].blockID)

	var langErr *models.UnsupportedLanguageError
	assert.ErrorAs(t, report.Results[1].Err, &langErr)

	assert.Equal(t, []string{models.ActionFillLetters}, journal.runs)
	assert.Equal(t, 1, journal.closed)
	require.Len(t, journal.entries, 3)
	assert.Equal(t, models.EntryOK, journal.entries[0].Status)
	assert.Equal(t, models.EntryFailed, journal.entries[1].Status)
	assert.Equal(t, "p4", journal.entries[1].PageID)
}

func TestDispatcherUploadFailureContinues(t *testing.T) {
	recs := []models.ApplicationRecord{
		{ID: "p1", Company: "Acme", JobTitle: "Engineer", Language: models.LanguageEN},
		{ID: "p2", Company: "Beta", JobTitle: "Writer", Language: models.LanguageEN},
	}
	appender := &fakeAppender{failOn: "p1"}
	d := NewDispatcher(fakeBuilder{}, appender, nil, nil)

	report, err := d.Run(context.Background(), recs, DispatchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed())
	require.Len(t, appender.calls, 1)
	assert.Equal(t, "p2", appender.calls[0].blockID)
	assert.Equal(t, notion.BlockParagraph, appender.calls[0].bt)
	assert.Empty(t, report.RunID)
}

func TestDispatcherSkipSent(t *testing.T) {
	recs := []models.ApplicationRecord{
		{ID: "p1", Company: "Acme", JobTitle: "Engineer", Language: models.LanguageEN},
		{ID: "p2", Company: "Beta", JobTitle: "Writer", Language: models.LanguageEN},
	}
	appender := &fakeAppender{}
	journal := &fakeJournal{handled: map[string]bool{"p1": true}}
	d := NewDispatcher(fakeBuilder{}, appender, journal, nil)

	report, err := d.Run(context.Background(), recs, DispatchOptions{SkipSent: true})
	require.NoError(t, err)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "p1", report.Skipped[0].ID)
	require.Len(t, appender.calls, 1)
	assert.Equal(t, "p2", appender.calls[0].blockID)
	assert.Equal(t, models.EntrySkipped, journal.entries[0].Status)
}

func TestDispatcherIgnoresJournalFailure(t *testing.T) {
	recs := []models.ApplicationRecord{
		{ID: "p1", Company: "Acme", JobTitle: "Engineer", Language: models.LanguageEN},
	}
	appender := &fakeAppender{}
	journal := &brokenJournal{}
	d := NewDispatcher(fakeBuilder{}, appender, journal, nil)

	report, err := d.Run(context.Background(), recs, DispatchOptions{})
	require.NoError(t, err)
	require.Len(t, appender.calls, 1)
	assert.Equal(t, "p1", appender.calls[0].blockID)
	assert.Zero(t, report.Failed())
	assert.Empty(t, report.RunID)
	assert.Empty(t, journal.entries)
	assert.Zero(t, journal.closed)
}

type fakeUpdater struct {
	values map[string]int
	failOn string
}

func (f *fakeUpdater) UpdateNumber(_ context.Context, pageID, property string, value int) error {
	if pageID == f.failOn {
		return errors.New("rate limited")
	}
	f.values[pageID+"/"+property] = value
	return nil
}

func TestPlanPositions(t *testing.T) {
	recs := []models.ApplicationRecord{{ID: "a"}, {ID: "b", Position: intPtr(9)}, {ID: "c"}}

	plans := PlanPositions(recs)
	require.Len(t, plans, 3)
	assert.Equal(t, 3, plans[0].Position)
	assert.Equal(t, 2, plans[1].Position)
	assert.Equal(t, 1, plans[2].Position)
}

func TestAssignPositionsDryRun(t *testing.T) {
	updater := &fakeUpdater{values: map[string]int{}}
	journal := &fakeJournal{}
	a := NewPositionAssigner(updater, journal, "", nil)

	results := a.Assign(context.Background(), []models.ApplicationRecord{{ID: "a"}, {ID: "b"}}, true)
	require.Len(t, results, 2)
	assert.Equal(t, 2, results[0].Value.Position)
	assert.False(t, results[0].Value.Applied)
	assert.Empty(t, updater.values)
	assert.Empty(t, journal.runs)
}

func TestAssignPositionsApply(t *testing.T) {
	updater := &fakeUpdater{values: map[string]int{}, failOn: "b"}
	journal := &fakeJournal{}
	a := NewPositionAssigner(updater, journal, "Rank", nil)

	results := a.Assign(context.Background(), []models.ApplicationRecord{{ID: "a"}, {ID: "b"}, {ID: "c"}}, false)
	assert.Equal(t, map[string]int{"a/Rank": 3, "c/Rank": 1}, updater.values)
	assert.True(t, results[0].Value.Applied)
	assert.False(t, results[1].Value.Applied)
	assert.Error(t, results[1].Err)
	assert.Equal(t, 1, Failed(results))
	assert.Equal(t, []string{models.ActionAssignPositions}, journal.runs)
	require.Len(t, journal.entries, 3)
}

func TestAssignPositionsIgnoresJournalFailure(t *testing.T) {
	updater := &fakeUpdater{values: map[string]int{}}
	a := NewPositionAssigner(updater, &brokenJournal{}, "", nil)

	results := a.Assign(context.Background(), []models.ApplicationRecord{{ID: "a"}, {ID: "b"}}, false)
	assert.Zero(t, Failed(results))
	assert.Equal(t, map[string]int{"a/Position": 2, "b/Position": 1}, updater.values)
}
