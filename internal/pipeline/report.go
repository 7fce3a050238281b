package pipeline

import (
	"context"

	"github.com/khrees2412/jobapplier/pkg/models"
)

// CompanyReport lists the records whose company contains sub
func CompanyReport(ctx context.Context, recs []models.ApplicationRecord, sub string) []models.ReportRow {
	results := Process(ctx, recs, CompanyContains(sub), func(_ context.Context, rec models.ApplicationRecord) (models.ReportRow, error) {
		return models.ReportRow{
			ID:          rec.ID,
			JobTitle:    rec.JobTitle,
			Company:     rec.Company,
			DateApplied: rec.DateApplied,
			Origin:      rec.Origin,
			Stage:       rec.Stage,
		}, nil
	})

	rows := make([]models.ReportRow, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			rows = append(rows, r.Value)
		}
	}
	return rows
}
