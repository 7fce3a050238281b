// Package records turns raw Notion database pages into flat application records.
package records

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/khrees2412/jobapplier/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// Fields names the database properties read from each page
type Fields struct {
	Company        string
	JobTitle       string
	JobDescription string
	DateApplied    string
	Origin         string
	Stage          string
	Language       string
	CoverLetter    string
	Position       string
}

// DefaultFields returns the property names of the job tracker database
func DefaultFields() Fields {
	return Fields{
		Company:        "Company",
		JobTitle:       "Job Title",
		JobDescription: "Job Description",
		DateApplied:    "Date Applied",
		Origin:         "Origin",
		Stage:          "Stage",
		Language:       "Language",
		CoverLetter:    "Cover letter",
		Position:       "Position",
	}
}

type textRun struct {
	PlainText string `json:"plain_text"`
	Text      *struct {
		Content string `json:"content"`
	} `json:"text"`
}

type property struct {
	Title    []textRun `json:"title"`
	RichText []textRun `json:"rich_text"`
	Select   *struct {
		Name string `json:"name"`
	} `json:"select"`
	Date *struct {
		Start string `json:"start"`
	} `json:"date"`
	Number *float64 `json:"number"`
}

type rawPage struct {
	ID         string              `json:"id"`
	Properties map[string]property `json:"properties"`
}

// Normalizer validates and flattens raw pages
type Normalizer struct {
	fields Fields
	schema *gojsonschema.Schema
	logger *slog.Logger
}

// NewNormalizer compiles the page schema for the given property names
func NewNormalizer(fields Fields, logger *slog.Logger) (*Normalizer, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(pageSchema(fields)))
	if err != nil {
		return nil, fmt.Errorf("compile page schema: %w", err)
	}
	return &Normalizer{fields: fields, schema: schema, logger: logger}, nil
}

// Normalize maps one raw page to an ApplicationRecord. Missing content of a
// present property is not an error; a missing property is a *SchemaError.
func (n *Normalizer) Normalize(raw json.RawMessage) (models.ApplicationRecord, error) {
	var head struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(raw, &head)

	result, err := n.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return models.ApplicationRecord{}, &SchemaError{RecordID: head.ID, Problems: []string{"invalid JSON"}, Cause: err}
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			problems = append(problems, fmt.Sprintf("%s: %s", re.Field(), re.Description()))
		}
		return models.ApplicationRecord{}, &SchemaError{RecordID: head.ID, Problems: problems}
	}

	var page rawPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return models.ApplicationRecord{}, &SchemaError{RecordID: head.ID, Problems: []string{"cannot decode properties"}, Cause: err}
	}

	props := page.Properties
	f := n.fields
	record := models.ApplicationRecord{
		ID:                page.ID,
		JobTitle:          firstRun(props[f.JobTitle].Title),
		Company:           firstRun(props[f.Company].RichText),
		JobDescription:    firstRun(props[f.JobDescription].RichText),
		Language:          models.Language(selectName(props[f.Language])),
		Origin:            selectName(props[f.Origin]),
		Stage:             selectName(props[f.Stage]),
		CoverLetterStatus: selectName(props[f.CoverLetter]),
	}

	if d := props[f.DateApplied].Date; d != nil {
		applied, err := parseDate(d.Start)
		if err != nil {
			return models.ApplicationRecord{}, &SchemaError{
				RecordID: page.ID,
				Problems: []string{fmt.Sprintf("%s: unparseable date %q", f.DateApplied, d.Start)},
				Cause:    err,
			}
		}
		record.DateApplied = &applied
	}

	if p, ok := props[f.Position]; ok && p.Number != nil {
		position := int(*p.Number)
		record.Position = &position
	}

	return record, nil
}

// NormalizeAll normalizes raws in order. Pages failing validation and repeated
// IDs are dropped with a warning.
func (n *Normalizer) NormalizeAll(raws []json.RawMessage) []models.ApplicationRecord {
	out := make([]models.ApplicationRecord, 0, len(raws))
	seen := make(map[string]bool, len(raws))

	for i, raw := range raws {
		record, err := n.Normalize(raw)
		if err != nil {
			n.logger.Warn("dropping database entry", "index", i, "error", err)
			continue
		}
		if seen[record.ID] {
			n.logger.Warn("dropping duplicate database entry", "index", i, "id", record.ID)
			continue
		}
		seen[record.ID] = true
		out = append(out, record)
	}
	return out
}

func firstRun(runs []textRun) string {
	if len(runs) == 0 {
		return ""
	}
	if runs[0].Text != nil {
		return runs[0].Text.Content
	}
	return runs[0].PlainText
}

func selectName(p property) string {
	if p.Select == nil {
		return ""
	}
	return p.Select.Name
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
