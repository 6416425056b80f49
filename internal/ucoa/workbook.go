package ucoa

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// WorkbookSheets names the worksheet holding each code category.
type WorkbookSheets struct {
	Fund            string `yaml:"fund"`
	Function        string `yaml:"function"`
	ExpenseAccounts string `yaml:"expense_accounts"`
	RevenueAccounts string `yaml:"revenue_accounts"`
}

// DefaultSheets matches the sheet names of the published UCoA workbook.
func DefaultSheets() WorkbookSheets {
	return WorkbookSheets{
		Fund:            "Fund",
		Function:        "Function",
		ExpenseAccounts: "Account - Exp",
		RevenueAccounts: "Account - Rev",
	}
}

// LoadWorkbook reads the published UCoA workbook and builds the Codeset,
// applying sup on top. A missing file, missing sheet, or a category that
// ends up empty is an error; the audit must not run against a partial
// reference table.
func LoadWorkbook(path string, sheets WorkbookSheets, sup Supplement) (*Codeset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening UCoA workbook: %w", err)
	}
	defer f.Close()

	funds, err := readSheetCodes(f, sheets.Fund, FundWidth)
	if err != nil {
		return nil, err
	}
	functions, err := readSheetCodes(f, sheets.Function, FunctionWidth)
	if err != nil {
		return nil, err
	}
	expense, err := readSheetCodes(f, sheets.ExpenseAccounts, AccountWidth)
	if err != nil {
		return nil, err
	}
	revenue, err := readSheetCodes(f, sheets.RevenueAccounts, AccountWidth)
	if err != nil {
		return nil, err
	}

	cs, err := New(funds, functions, expense, revenue, sup)
	if err != nil {
		return nil, fmt.Errorf("building codeset from %s: %w", path, err)
	}
	return cs, nil
}

// readSheetCodes returns the first-column values of a sheet that look like
// codes of the given width. The published workbook intermixes header and
// section rows with code rows, so anything that is not exactly width
// digits is skipped rather than treated as an error.
func readSheetCodes(f *excelize.File, sheet string, width int) ([]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	var codes []string
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell := strings.TrimSpace(row[0])
		if isDigits(cell, width) {
			codes = append(codes, cell)
		}
	}
	return codes, nil
}

func isDigits(s string, width int) bool {
	if len(s) != width {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
