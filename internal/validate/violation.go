// Package validate implements the compliance validation engine: account-code
// validation against the UCoA reference codesets, posting-date window
// validation, and the per-batch evaluator combining the two.
package validate

import (
	"sort"
	"time"
)

// CodeViolations holds the account-code findings for one batch. Each
// category list is deduplicated and lexically sorted; joining to a display
// string is left to the report renderer so counting never re-splits.
type CodeViolations struct {
	AnyBlankOrNA          bool
	IncorrectFormat       []string
	InvalidFund           []string
	InvalidFunction       []string
	InvalidExpenseAccount []string
	InvalidRevenueAccount []string
}

// Any reports whether any account-code category has a finding.
func (v CodeViolations) Any() bool {
	return v.AnyBlankOrNA ||
		len(v.IncorrectFormat) > 0 ||
		len(v.InvalidFund) > 0 ||
		len(v.InvalidFunction) > 0 ||
		len(v.InvalidExpenseAccount) > 0 ||
		len(v.InvalidRevenueAccount) > 0
}

// ViolationRecord is the structured result of evaluating one batch against
// both validators. Never mutated after creation.
type ViolationRecord struct {
	BatchID     int64
	Codes       CodeViolations
	OutOfWindow []time.Time // raw, one entry per out-of-window transaction
}

// Any reports whether the record holds any violation at all.
func (r ViolationRecord) Any() bool {
	return r.Codes.Any() || len(r.OutOfWindow) > 0
}

// stringSet collects distinct raw values for one violation category.
type stringSet map[string]bool

func (s stringSet) add(v string) { s[v] = true }

// sorted returns the members in ascending lexical order, nil when empty.
func (s stringSet) sorted() []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
