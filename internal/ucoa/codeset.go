// Package ucoa holds the Uniform Chart of Accounts reference data: the
// immutable codesets each account-code segment is validated against, the
// code format itself, and ingestion of the published UCoA workbook.
package ucoa

import (
	"fmt"
)

// Codeset is the immutable reference lookup for all four code categories.
// It is built once per run and shared read-only across entity evaluations.
type Codeset struct {
	funds     map[string]bool
	functions map[string]bool
	expense   map[string]bool
	revenue   map[string]bool
}

// FundRange is a contiguous numeric range of fund codes, inclusive on both
// ends, zero-padded to the 3-character fund width.
type FundRange struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

// Supplement holds corrections applied on top of the published workbook.
// The published table is known to omit ranges of valid fund codes and to
// mislabel header rows, so supplements are applied unconditionally at
// construction; they never error.
type Supplement struct {
	FundRanges      []FundRange `yaml:"fund_ranges,omitempty"`
	Funds           []string    `yaml:"funds,omitempty"`
	Functions       []string    `yaml:"functions,omitempty"`
	ExpenseAccounts []string    `yaml:"expense_accounts,omitempty"`
	RevenueAccounts []string    `yaml:"revenue_accounts,omitempty"`
}

// New builds a Codeset from raw category code lists plus supplements.
// An empty category after supplements is a fatal precondition: it would
// make every code in that category invalid, which is never the intent.
func New(funds, functions, expense, revenue []string, sup Supplement) (*Codeset, error) {
	cs := &Codeset{
		funds:     toSet(funds),
		functions: toSet(functions),
		expense:   toSet(expense),
		revenue:   toSet(revenue),
	}

	for _, r := range sup.FundRanges {
		for n := r.From; n <= r.To; n++ {
			cs.funds[fmt.Sprintf("%03d", n)] = true
		}
	}
	for _, c := range sup.Funds {
		cs.funds[c] = true
	}
	for _, c := range sup.Functions {
		cs.functions[c] = true
	}
	for _, c := range sup.ExpenseAccounts {
		cs.expense[c] = true
	}
	for _, c := range sup.RevenueAccounts {
		cs.revenue[c] = true
	}

	for name, set := range map[string]map[string]bool{
		"fund":            cs.funds,
		"function":        cs.functions,
		"expense account": cs.expense,
		"revenue account": cs.revenue,
	} {
		if len(set) == 0 {
			return nil, fmt.Errorf("empty %s codeset", name)
		}
	}
	return cs, nil
}

// ValidFund reports whether code is a known fund code.
func (c *Codeset) ValidFund(code string) bool { return c.funds[code] }

// ValidFunction reports whether code is a known function code.
func (c *Codeset) ValidFunction(code string) bool { return c.functions[code] }

// ValidExpenseAccount reports whether code is a known expense account code.
func (c *Codeset) ValidExpenseAccount(code string) bool { return c.expense[code] }

// ValidRevenueAccount reports whether code is a known revenue account code.
func (c *Codeset) ValidRevenueAccount(code string) bool { return c.revenue[code] }

// Sizes returns the per-category entry counts, for run logging.
func (c *Codeset) Sizes() (funds, functions, expense, revenue int) {
	return len(c.funds), len(c.functions), len(c.expense), len(c.revenue)
}

func toSet(codes []string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set
}
