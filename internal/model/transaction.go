package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the upload system's numeric transaction type.
type TransactionType int

const (
	TypeExpense      TransactionType = 1
	TypeRevenue      TransactionType = 2
	TypePayroll      TransactionType = 3
	TypeBalanceSheet TransactionType = 7
)

// Label returns the short display label used in batch summaries.
func (t TransactionType) Label() string {
	switch t {
	case TypeExpense:
		return "EXP"
	case TypeRevenue:
		return "REV"
	case TypePayroll:
		return "PAYROLL"
	case TypeBalanceSheet:
		return "BS"
	default:
		return "OTHER"
	}
}

// RequiresAccountCode reports whether transactions of this type carry a
// UCoA account code. Payroll and balance-sheet uploads do not, which is
// why they are excluded from account-code validation.
func (t TransactionType) RequiresAccountCode() bool {
	return t == TypeExpense || t == TypeRevenue
}

// Transaction is one financial line inside a batch. Read-only to the engine.
type Transaction struct {
	BatchID     int64
	Type        TransactionType
	AccountCode string // empty when the uploader omitted it
	PostingDate time.Time
	FiscalYear  int
	Amount      decimal.Decimal
	Description string
}
