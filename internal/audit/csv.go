package audit

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// DetailHeader is the CSV header for batch detail reports (master and
// violation files share it).
const DetailHeader = "entity_id,entity_name,gov_type,batch_id,upload_date,upload_user,file_name,record_count,total_amount,begin_txn,end_txn,types_present,fiscal_years,any_blank_or_na,incorrect_format,invalid_fund,invalid_funct,invalid_account_exp,invalid_account_rev,out_of_window_dates"

// SummaryHeader is the CSV header for the entity summary report.
const SummaryHeader = "entity_id,entity_name,any_blank_or_na,number_invalid_fund,number_invalid_funct,number_invalid_account_exp,number_invalid_account_rev"

// ListingHeader is the CSV header for the per-category listings report.
const ListingHeader = "entity_name,category,values"

const (
	detailFields = 20
	dateFormat   = "2006-01-02"
	valueSep     = ", "

	colEntityID    = 0
	colEntityName  = 1
	colGovType     = 2
	colBatchID     = 3
	colUploadDate  = 4
	colUploadUser  = 5
	colFileName    = 6
	colRecordCount = 7
	colTotalAmount = 8
	colBeginTxn    = 9
	colEndTxn      = 10
	colTypes       = 11
	colFiscalYears = 12
	colBlank       = 13
	colFormat      = 14
	colFund        = 15
	colFunction    = 16
	colExpense     = 17
	colRevenue     = 18
	colOutOfWindow = 19
)

// WriteDetail writes batch rows (header included). Placeholder rows render
// with empty batch columns.
func WriteDetail(w io.Writer, rows []BatchRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(DetailHeader, ",")); err != nil {
		return fmt.Errorf("writing detail header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(MarshalBatchRow(row)); err != nil {
			return fmt.Errorf("writing detail row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// WriteSummary writes entity summary rows (header included).
func WriteSummary(w io.Writer, rows []SummaryRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(SummaryHeader, ",")); err != nil {
		return fmt.Errorf("writing summary header: %w", err)
	}
	for i, row := range rows {
		rec := []string{
			strconv.FormatInt(row.EntityID, 10),
			row.EntityName,
			flag(row.AnyBlankOrNA),
			strconv.Itoa(len(row.InvalidFund)),
			strconv.Itoa(len(row.InvalidFunction)),
			strconv.Itoa(len(row.InvalidExpenseAccount)),
			strconv.Itoa(len(row.InvalidRevenueAccount)),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing summary row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// WriteListings writes per-category listings (header included).
func WriteListings(w io.Writer, listings []Listing) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(ListingHeader, ",")); err != nil {
		return fmt.Errorf("writing listing header: %w", err)
	}
	for i, l := range listings {
		rec := []string{l.EntityName, l.Category, strings.Join(l.Values, valueSep)}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing listing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalBatchRow converts a BatchRow to a CSV row. Multi-valued violation
// fields are joined here, at the rendering boundary only.
func MarshalBatchRow(r BatchRow) []string {
	row := make([]string, detailFields)
	row[colEntityID] = strconv.FormatInt(r.EntityID, 10)
	row[colEntityName] = r.EntityName
	row[colGovType] = string(r.GovType)

	if b := r.Batch; b != nil {
		row[colBatchID] = strconv.FormatInt(b.ID, 10)
		row[colUploadDate] = b.UploadedAt.Format(dateFormat)
		row[colUploadUser] = b.UploadUser
		row[colFileName] = b.FileName
		row[colRecordCount] = strconv.Itoa(b.RecordCount)
		row[colTotalAmount] = b.TotalAmount.StringFixed(2)
		if !b.BeginTxn.IsZero() {
			row[colBeginTxn] = b.BeginTxn.Format(dateFormat)
		}
		if !b.EndTxn.IsZero() {
			row[colEndTxn] = b.EndTxn.Format(dateFormat)
		}
	}

	row[colTypes] = strings.Join(r.TypesPresent, valueSep)
	row[colFiscalYears] = joinYears(r.FiscalYears)
	row[colBlank] = flag(r.Violations.Codes.AnyBlankOrNA)
	row[colFormat] = strings.Join(r.Violations.Codes.IncorrectFormat, valueSep)
	row[colFund] = strings.Join(r.Violations.Codes.InvalidFund, valueSep)
	row[colFunction] = strings.Join(r.Violations.Codes.InvalidFunction, valueSep)
	row[colExpense] = strings.Join(r.Violations.Codes.InvalidExpenseAccount, valueSep)
	row[colRevenue] = strings.Join(r.Violations.Codes.InvalidRevenueAccount, valueSep)
	row[colOutOfWindow] = joinDates(r.Violations.OutOfWindow)
	return row
}

func joinYears(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, valueSep)
}

func joinDates(dates []time.Time) string {
	parts := make([]string, len(dates))
	for i, d := range dates {
		parts[i] = d.Format(dateFormat)
	}
	return strings.Join(parts, valueSep)
}

func flag(b bool) string {
	if b {
		return "Y"
	}
	return ""
}
