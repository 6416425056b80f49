package audit

import (
	"sort"
)

// Category names for the per-entity listings, matching the report columns.
const (
	CategoryFund     = "invalid_fund"
	CategoryFunction = "invalid_funct"
	CategoryExpense  = "invalid_account_exp"
	CategoryRevenue  = "invalid_account_rev"
)

// Listing is the distinct offending values of one category for one entity,
// for operational follow-up.
type Listing struct {
	Category   string
	EntityName string
	Values     []string
}

// Report is the assembled audit output: violating batches, violating
// entities, and per-category listings.
type Report struct {
	Master   []BatchRow // every row, placeholders included
	Detail   []BatchRow // rows with at least one violation
	Summary  []SummaryRow
	Listings []Listing
}

// Assemble filters aggregated rows down to violations and builds the
// report tables. Detail rows are ordered by entity name then first fiscal
// year; summaries keep entity order as given.
func Assemble(rows []BatchRow, summaries []SummaryRow) Report {
	rep := Report{Master: rows}

	for _, row := range rows {
		if row.HasViolations() {
			rep.Detail = append(rep.Detail, row)
		}
	}
	sort.SliceStable(rep.Detail, func(i, j int) bool {
		a, b := rep.Detail[i], rep.Detail[j]
		if a.EntityName != b.EntityName {
			return a.EntityName < b.EntityName
		}
		return firstYear(a.FiscalYears) < firstYear(b.FiscalYears)
	})

	for _, s := range summaries {
		if !s.HasViolations() {
			continue
		}
		rep.Summary = append(rep.Summary, s)
		rep.Listings = append(rep.Listings, entityListings(s)...)
	}
	return rep
}

func entityListings(s SummaryRow) []Listing {
	var out []Listing
	categories := []struct {
		name   string
		values []string
	}{
		{CategoryFund, s.InvalidFund},
		{CategoryFunction, s.InvalidFunction},
		{CategoryExpense, s.InvalidExpenseAccount},
		{CategoryRevenue, s.InvalidRevenueAccount},
	}
	for _, c := range categories {
		if len(c.values) > 0 {
			out = append(out, Listing{Category: c.name, EntityName: s.EntityName, Values: c.values})
		}
	}
	return out
}

func firstYear(years []int) int {
	if len(years) == 0 {
		return 0
	}
	return years[0]
}
