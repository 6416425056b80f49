package validate

import (
	"strings"

	"github.com/osa-dev/ucoa-audit/internal/model"
	"github.com/osa-dev/ucoa-audit/internal/ucoa"
)

// Lookup is the subset of the reference codeset the account validator needs.
type Lookup interface {
	ValidFund(code string) bool
	ValidFunction(code string) bool
	ValidExpenseAccount(code string) bool
	ValidRevenueAccount(code string) bool
}

// ValidateCodes runs account-code validation over the transactions of one
// batch. Callers pass only Expense and Revenue transactions; payroll and
// balance-sheet uploads are not required to carry UCoA codes.
//
// Stages are ordered so each raw value lands in at most one structural
// category: a blank code is flagged as blank/NA and checked no further, a
// malformed code lands in IncorrectFormat only. Well-formed codes are then
// checked against all three lookup categories independently, so one code
// can be simultaneously an invalid fund and an invalid function.
func ValidateCodes(txs []model.Transaction, codes Lookup) CodeViolations {
	var v CodeViolations

	badFormat := make(stringSet)
	badFund := make(stringSet)
	badFunction := make(stringSet)
	badExpense := make(stringSet)
	badRevenue := make(stringSet)

	for _, tx := range txs {
		code := tx.AccountCode
		if strings.TrimSpace(code) == "" {
			v.AnyBlankOrNA = true
			continue
		}

		fund, function, account, err := ucoa.SplitCode(code)
		if err != nil {
			badFormat.add(code)
			continue
		}

		if !codes.ValidFund(fund) {
			badFund.add(fund)
		}
		if !codes.ValidFunction(function) {
			badFunction.add(function)
		}
		switch tx.Type {
		case model.TypeExpense:
			if !codes.ValidExpenseAccount(account) {
				badExpense.add(account)
			}
		case model.TypeRevenue:
			if !codes.ValidRevenueAccount(account) {
				badRevenue.add(account)
			}
		}
	}

	v.IncorrectFormat = badFormat.sorted()
	v.InvalidFund = badFund.sorted()
	v.InvalidFunction = badFunction.sorted()
	v.InvalidExpenseAccount = badExpense.sorted()
	v.InvalidRevenueAccount = badRevenue.sorted()
	return v
}
