package pipeline

import (
	"context"
	"io"
	"log/slog"

	"github.com/khrees2412/jobapplier/pkg/models"
)

// NumberUpdater writes a number property on a page
type NumberUpdater interface {
	UpdateNumber(ctx context.Context, pageID, property string, value int) error
}

// PositionAssigner renumbers the Position property of every record
type PositionAssigner struct {
	updater  NumberUpdater
	journal  Journal
	property string
	logger   *slog.Logger
}

func NewPositionAssigner(updater NumberUpdater, journal Journal, property string, logger *slog.Logger) *PositionAssigner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if property == "" {
		property = "Position"
	}
	return &PositionAssigner{updater: updater, journal: journal, property: property, logger: logger}
}

// PlanPositions numbers records from len(recs) down to 1 in fetch order
func PlanPositions(recs []models.ApplicationRecord) []models.PositionPlan {
	plans := make([]models.PositionPlan, 0, len(recs))
	for i, rec := range recs {
		plans = append(plans, models.PositionPlan{
			ID:       rec.ID,
			JobTitle: rec.JobTitle,
			Company:  rec.Company,
			Position: len(recs) - i,
		})
	}
	return plans
}

// Assign computes the positions and, unless dryRun, writes them back.
// The plan of a failed write keeps Applied false and its Result carries the error.
func (a *PositionAssigner) Assign(ctx context.Context, recs []models.ApplicationRecord, dryRun bool) []Result[models.PositionPlan] {
	plans := PlanPositions(recs)
	byID := make(map[string]models.PositionPlan, len(plans))
	for _, p := range plans {
		byID[p.ID] = p
	}

	rec := NewRecorder(a.journal, a.logger)
	if !dryRun {
		rec.Start(ctx, models.ActionAssignPositions)
		defer rec.Finish(ctx)
	}

	results := Process(ctx, recs, All, func(ctx context.Context, r models.ApplicationRecord) (models.PositionPlan, error) {
		plan := byID[r.ID]
		if dryRun {
			return plan, nil
		}
		if err := a.updater.UpdateNumber(ctx, r.ID, a.property, plan.Position); err != nil {
			return plan, err
		}
		plan.Applied = true
		return plan, nil
	})

	if dryRun {
		return results
	}
	for _, res := range results {
		if res.Err != nil {
			a.logger.Error("position update failed", "page_id", res.Record.ID, "error", res.Err)
			rec.Entry(ctx, res.Record, models.EntryFailed, res.Err.Error())
			continue
		}
		rec.Entry(ctx, res.Record, models.EntryOK, a.property)
	}
	return results
}
