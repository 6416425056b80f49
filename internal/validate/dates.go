package validate

import (
	"time"

	"github.com/osa-dev/ucoa-audit/internal/model"
)

// WindowPolicy defines the valid posting window around a fiscal-year anchor.
type WindowPolicy struct {
	// MonthsBefore is how many months before the fiscal year begins a
	// posting may be dated, accommodating late-billed payables.
	MonthsBefore int `yaml:"months_before"`
	// SpanMonths is the total window length from the anchor. 18 months
	// covers the 12-month fiscal year plus 6 months of year-end
	// corrections allowed by policy.
	SpanMonths int `yaml:"span_months"`
}

// DefaultWindow returns the policy window: 3 months before through 6 months
// after the fiscal year.
func DefaultWindow() WindowPolicy {
	return WindowPolicy{MonthsBefore: 3, SpanMonths: 18}
}

// Window returns the closed [from, to] posting interval for a fiscal year.
// With the default policy and a January 1 start, FY2019 yields
// [2018-10-01, 2020-06-30].
func (w WindowPolicy) Window(fiscalYear int, start model.FiscalYearStart) (from, to time.Time) {
	anchor := start.Anchor(fiscalYear)
	from = anchor.AddDate(0, -w.MonthsBefore, 0)
	to = anchor.AddDate(0, w.SpanMonths, -1)
	return from, to
}

// InWindow reports whether a posting date is valid for the stated fiscal
// year, inclusive on both window ends.
func (w WindowPolicy) InWindow(date time.Time, fiscalYear int, start model.FiscalYearStart) bool {
	from, to := w.Window(fiscalYear, start)
	return !date.Before(from) && !date.After(to)
}

// OutOfWindowDates collects the posting date of every transaction outside
// its window, one entry per transaction with no deduplication. A batch may
// span multiple declared fiscal years, so the window is re-anchored per
// (posting date, fiscal year) pair.
func (w WindowPolicy) OutOfWindowDates(txs []model.Transaction, start model.FiscalYearStart) []time.Time {
	var out []time.Time
	for _, tx := range txs {
		if !w.InWindow(tx.PostingDate, tx.FiscalYear, start) {
			out = append(out, tx.PostingDate)
		}
	}
	return out
}
