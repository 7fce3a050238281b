package models

import (
	"fmt"
	"strings"
	"time"
)

// Language is the letter/résumé language of an application entry
type Language string

const (
	LanguageEN Language = "EN"
	LanguageFR Language = "FR"
)

// SupportedLanguages lists the language codes the tool can handle
var SupportedLanguages = []Language{LanguageEN, LanguageFR}

// UnsupportedLanguageError is returned when a language code is not in SupportedLanguages
type UnsupportedLanguageError struct {
	Value string
}

func (e *UnsupportedLanguageError) Error() string {
	codes := make([]string, len(SupportedLanguages))
	for i, l := range SupportedLanguages {
		codes[i] = string(l)
	}
	return fmt.Sprintf("unsupported language %q: please select one of [%s]", e.Value, strings.Join(codes, ", "))
}

// ParseLanguage maps a label to a supported Language
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.TrimSpace(s)) {
	case LanguageEN:
		return LanguageEN, nil
	case LanguageFR:
		return LanguageFR, nil
	default:
		return "", &UnsupportedLanguageError{Value: s}
	}
}

// ApplicationRecord is the flat view of one job application entry.
// Empty strings and nil pointers mean the field is unset in the database.
type ApplicationRecord struct {
	ID                string     `json:"id"`
	JobTitle          string     `json:"job_title"`
	Company           string     `json:"company"`
	JobDescription    string     `json:"job_description"`
	Language          Language   `json:"language"`
	DateApplied       *time.Time `json:"date_applied"` // nullable
	Origin            string     `json:"origin"`
	Stage             string     `json:"stage"`
	CoverLetterStatus string     `json:"cover_letter"`
	Position          *int       `json:"position"` // nullable
}

// HasStage reports whether the entry already moved past the pending state
func (r ApplicationRecord) HasStage() bool {
	return r.Stage != ""
}

// ReportRow is the subset of fields shown by the company report
type ReportRow struct {
	ID          string     `json:"id"`
	JobTitle    string     `json:"job_title"`
	Company     string     `json:"company"`
	DateApplied *time.Time `json:"date_applied"`
	Origin      string     `json:"origin"`
	Stage       string     `json:"stage"`
}

// PositionPlan is the planned (or applied) position of one entry
type PositionPlan struct {
	ID       string `json:"id"`
	JobTitle string `json:"job_title"`
	Company  string `json:"company"`
	Position int    `json:"position"`
	Applied  bool   `json:"applied"`
}

// ResumeCopy describes one résumé file copied to its job-specific name
type ResumeCopy struct {
	RecordID string `json:"record_id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
}

// JournalRun is one recorded CLI run that wrote to the database or disk
type JournalRun struct {
	ID         string     `json:"id"`
	Action     string     `json:"action"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"` // nullable while running
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
}

// JournalEntry is the outcome of one per-record action within a run
type JournalEntry struct {
	ID        int       `json:"id"`
	RunID     string    `json:"run_id"`
	PageID    string    `json:"page_id"`
	JobTitle  string    `json:"job_title"`
	Company   string    `json:"company"`
	Status    string    `json:"status"` // ok, failed, skipped
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

// Journal entry statuses
const (
	EntryOK      = "ok"
	EntryFailed  = "failed"
	EntrySkipped = "skipped"
)

// Journaled actions
const (
	ActionFillLetters     = "fill_cover_letters"
	ActionExportLetters   = "export_letters"
	ActionRenameResumes   = "rename_cvs"
	ActionAssignPositions = "assign_positions"
)
