// Package audit aggregates per-batch validation results into entity-level
// rows, summary counts, and the final violation report.
package audit

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/osa-dev/ucoa-audit/internal/model"
	"github.com/osa-dev/ucoa-audit/internal/validate"
)

// BatchSource supplies an entity's eligible batches and their transactions.
// The status filter (PROCESSED, DONTDELETE) is applied by the source.
type BatchSource interface {
	ListBatches(ctx context.Context, entityID int64) ([]model.Batch, error)
	ListTransactions(ctx context.Context, batchID int64) ([]model.Transaction, error)
}

// BatchRow is one evaluated batch enriched with its metadata, plus entity
// identity attached for reporting. An entity with zero eligible batches
// yields exactly one row with a nil Batch, keeping every known entity
// traceable in the master report.
type BatchRow struct {
	EntityID   int64
	EntityName string
	GovType    model.GovernmentType

	Batch        *model.Batch // nil for the placeholder row
	TypesPresent []string     // distinct type labels, upload-system order
	FiscalYears  []int        // distinct declared fiscal years, ascending

	Violations validate.ViolationRecord
}

// HasViolations reports whether the row should appear in the violation
// detail report. Placeholder rows never do.
func (r BatchRow) HasViolations() bool {
	return r.Batch != nil && r.Violations.Any()
}

// SummaryRow is the per-entity rollup. The category fields keep the
// distinct invalid raw values (unioned across batches, sorted) rather than
// pre-joined strings, so counting never re-splits.
type SummaryRow struct {
	EntityID   int64
	EntityName string

	AnyBlankOrNA          bool
	InvalidFund           []string
	InvalidFunction       []string
	InvalidExpenseAccount []string
	InvalidRevenueAccount []string
}

// HasViolations reports whether the entity belongs in the summary report.
func (r SummaryRow) HasViolations() bool {
	return r.AnyBlankOrNA ||
		len(r.InvalidFund) > 0 ||
		len(r.InvalidFunction) > 0 ||
		len(r.InvalidExpenseAccount) > 0 ||
		len(r.InvalidRevenueAccount) > 0
}

// Aggregator evaluates every eligible batch of an entity and rolls the
// results up. Entities are independent; the aggregator holds no mutable
// state across calls.
type Aggregator struct {
	source BatchSource
	eval   *validate.Evaluator
	log    *logrus.Logger
}

// NewAggregator creates an Aggregator.
func NewAggregator(source BatchSource, eval *validate.Evaluator, log *logrus.Logger) *Aggregator {
	return &Aggregator{source: source, eval: eval, log: log}
}

// Aggregate evaluates all of an entity's eligible batches and returns the
// per-batch rows plus the entity summary.
func (a *Aggregator) Aggregate(ctx context.Context, entity model.Entity) ([]BatchRow, SummaryRow, error) {
	summary := SummaryRow{EntityID: entity.ID, EntityName: entity.Name}

	batches, err := a.source.ListBatches(ctx, entity.ID)
	if err != nil {
		return nil, SummaryRow{}, fmt.Errorf("listing batches for %s: %w", entity.Name, err)
	}

	if len(batches) == 0 {
		placeholder := BatchRow{EntityID: entity.ID, EntityName: entity.Name, GovType: entity.GovType}
		return []BatchRow{placeholder}, summary, nil
	}

	fund := make(map[string]bool)
	function := make(map[string]bool)
	expense := make(map[string]bool)
	revenue := make(map[string]bool)

	rows := make([]BatchRow, 0, len(batches))
	for i := range batches {
		batch := batches[i]
		txs, err := a.source.ListTransactions(ctx, batch.ID)
		if err != nil {
			return nil, SummaryRow{}, fmt.Errorf("listing transactions for batch %d: %w", batch.ID, err)
		}

		rec := a.eval.Evaluate(batch.ID, entity.GovType, entity.FYStart, txs)
		row := BatchRow{
			EntityID:     entity.ID,
			EntityName:   entity.Name,
			GovType:      entity.GovType,
			Batch:        &batch,
			TypesPresent: typeLabels(txs),
			FiscalYears:  fiscalYears(txs),
			Violations:   rec,
		}
		rows = append(rows, row)

		summary.AnyBlankOrNA = summary.AnyBlankOrNA || rec.Codes.AnyBlankOrNA
		union(fund, rec.Codes.InvalidFund)
		union(function, rec.Codes.InvalidFunction)
		union(expense, rec.Codes.InvalidExpenseAccount)
		union(revenue, rec.Codes.InvalidRevenueAccount)

		if rec.Any() && a.log != nil {
			a.log.WithFields(logrus.Fields{
				"entity":        entity.Name,
				"batch":         batch.ID,
				"out_of_window": len(rec.OutOfWindow),
			}).Info("batch has violations")
		}
	}

	summary.InvalidFund = sortedKeys(fund)
	summary.InvalidFunction = sortedKeys(function)
	summary.InvalidExpenseAccount = sortedKeys(expense)
	summary.InvalidRevenueAccount = sortedKeys(revenue)
	return rows, summary, nil
}

// typeLabels returns the distinct transaction-type labels of a batch in
// ascending type-code order. Types 3 and 7 are tracked for visibility only;
// they never enter account-code validation.
func typeLabels(txs []model.Transaction) []string {
	types := make(map[model.TransactionType]bool)
	for _, tx := range txs {
		types[tx.Type] = true
	}

	codes := make([]int, 0, len(types))
	for t := range types {
		codes = append(codes, int(t))
	}
	sort.Ints(codes)

	var labels []string
	seen := make(map[string]bool)
	for _, c := range codes {
		label := model.TransactionType(c).Label()
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}
	return labels
}

func fiscalYears(txs []model.Transaction) []int {
	years := make(map[int]bool)
	for _, tx := range txs {
		years[tx.FiscalYear] = true
	}
	out := make([]int, 0, len(years))
	for y := range years {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

func union(dst map[string]bool, values []string) {
	for _, v := range values {
		dst[v] = true
	}
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
