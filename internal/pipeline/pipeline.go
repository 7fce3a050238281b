// Package pipeline runs per-record chores over a fetched list of applications.
// A failure on one record never stops the others.
package pipeline

import (
	"context"

	"github.com/khrees2412/jobapplier/internal/textnorm"
	"github.com/khrees2412/jobapplier/pkg/models"
)

// Predicate selects the records an action applies to
type Predicate func(models.ApplicationRecord) bool

// Action is run once per selected record
type Action[T any] func(ctx context.Context, rec models.ApplicationRecord) (T, error)

// Result is the outcome of an action on one record
type Result[T any] struct {
	Record models.ApplicationRecord
	Value  T
	Err    error
}

// Process runs action on every record accepted by pred, in input order.
// Once ctx is done, the remaining records get the context error without running.
func Process[T any](ctx context.Context, recs []models.ApplicationRecord, pred Predicate, action Action[T]) []Result[T] {
	results := []Result[T]{}
	for _, rec := range recs {
		if pred != nil && !pred(rec) {
			continue
		}
		if err := ctx.Err(); err != nil {
			results = append(results, Result[T]{Record: rec, Err: err})
			continue
		}
		value, err := action(ctx, rec)
		results = append(results, Result[T]{Record: rec, Value: value, Err: err})
	}
	return results
}

// Failed counts the results carrying an error
func Failed[T any](results []Result[T]) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// Pending accepts records that have no stage yet
func Pending(rec models.ApplicationRecord) bool {
	return !rec.HasStage()
}

// PendingLetter accepts records with no stage and a language set
func PendingLetter(rec models.ApplicationRecord) bool {
	return !rec.HasStage() && rec.Language != ""
}

// CompanyContains matches records whose company contains sub, ignoring case
// and accents. Records without a company never match.
func CompanyContains(sub string) Predicate {
	return func(rec models.ApplicationRecord) bool {
		return textnorm.Contains(rec.Company, sub)
	}
}

// All accepts every record
func All(models.ApplicationRecord) bool { return true }
