package validate

import (
	"github.com/osa-dev/ucoa-audit/internal/model"
)

// Evaluator runs both compliance validators over batches. It is stateless
// beyond its read-only collaborators, so one Evaluator serves a whole run.
type Evaluator struct {
	codes  Lookup
	window WindowPolicy
	exempt map[model.GovernmentType]bool
}

// NewEvaluator creates an Evaluator. extraExempt lists government types
// exempted from account-code checks by configuration, on top of the types
// exempt by rule (school districts and charter schools).
func NewEvaluator(codes Lookup, window WindowPolicy, extraExempt []model.GovernmentType) *Evaluator {
	exempt := make(map[model.GovernmentType]bool, len(extraExempt))
	for _, g := range extraExempt {
		exempt[g] = true
	}
	return &Evaluator{codes: codes, window: window, exempt: exempt}
}

// Exempt reports whether a government type skips account-code validation.
// Date validation always applies.
func (e *Evaluator) Exempt(govType model.GovernmentType) bool {
	return govType.ExemptFromAccountChecks() || e.exempt[govType]
}

// Evaluate produces the ViolationRecord for one batch. Account-code
// validation covers Expense and Revenue transactions of non-exempt
// entities; date validation covers every transaction regardless of type.
// A batch with zero transactions yields a well-formed empty record.
func (e *Evaluator) Evaluate(batchID int64, govType model.GovernmentType, fyStart model.FiscalYearStart, txs []model.Transaction) ViolationRecord {
	rec := ViolationRecord{BatchID: batchID}

	if !e.Exempt(govType) {
		var coded []model.Transaction
		for _, tx := range txs {
			if tx.Type.RequiresAccountCode() {
				coded = append(coded, tx)
			}
		}
		rec.Codes = ValidateCodes(coded, e.codes)
	}

	rec.OutOfWindow = e.window.OutOfWindowDates(txs, fyStart)
	return rec
}
