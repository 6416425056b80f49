package commands

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/osa-dev/ucoa-audit/internal/config"
	"github.com/osa-dev/ucoa-audit/internal/model"
	"github.com/osa-dev/ucoa-audit/internal/runlog"
	"github.com/osa-dev/ucoa-audit/internal/store"
	"github.com/osa-dev/ucoa-audit/internal/ucoa"
)

func writeWorkbook(t *testing.T, path string) {
	t.Helper()

	f := excelize.NewFile()
	sheets := ucoa.DefaultSheets()
	fill := func(sheet string, codes ...string) {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, "A1", "Code"))
		for i, code := range codes {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, code))
		}
	}
	fill(sheets.Fund, "010")
	fill(sheets.Function, "100000")
	fill(sheets.ExpenseAccounts, "60110000")
	fill(sheets.RevenueAccounts, "30110000")
	require.NoError(t, f.SaveAs(path))
}

func seedDatabase(t *testing.T, path string) {
	t.Helper()
	ctx := context.Background()

	s, err := store.New(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveEntity(ctx, model.Entity{
		ID: 1, ExternalID: "E-100", Name: "Alta Town",
		GovType: model.GovTypeTown,
		FYStart: model.FiscalYearStart{Month: time.January, Day: 1},
	}))
	require.NoError(t, s.SaveEntity(ctx, model.Entity{
		ID: 2, ExternalID: "E-200", Name: "Sunrise District",
		GovType: model.GovTypeSchoolDistrict,
		FYStart: model.FiscalYearStart{Month: time.July, Day: 1},
	}))

	require.NoError(t, s.SaveBatch(ctx, model.Batch{
		ID: 10, EntityID: 1, Status: model.StatusProcessed,
		UploadedAt:  time.Date(2019, 8, 2, 10, 0, 0, 0, time.UTC),
		UploadUser:  "clerk@alta.gov",
		FileName:    "fy19.csv",
		RecordCount: 2,
		TotalAmount: decimal.RequireFromString("150.00"),
	}))
	require.NoError(t, s.SaveTransactions(ctx, []model.Transaction{
		{
			BatchID: 10, Type: model.TypeExpense,
			AccountCode: "999-100000-60110000", // unknown fund
			PostingDate: time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC),
			FiscalYear:  2019,
			Amount:      decimal.RequireFromString("100.00"),
		},
		{
			BatchID: 10, Type: model.TypeRevenue,
			AccountCode: "010-100000-30110000",
			PostingDate: time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC),
			FiscalYear:  2019,
			Amount:      decimal.RequireFromString("50.00"),
		},
	}))
}

func TestRunAudit_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "uploads.db")
	wbPath := filepath.Join(dir, "ucoa.xlsx")
	outDir := filepath.Join(dir, "reports")
	logDir := filepath.Join(dir, "logs")

	writeWorkbook(t, wbPath)
	seedDatabase(t, dbPath)

	cfg := config.Default()
	cfg.Paths.Database = dbPath
	cfg.Paths.Workbook = wbPath
	cfg.Paths.OutputDir = outDir
	cfg.Paths.LogDir = logDir
	cfgPath := filepath.Join(dir, "ucoa-audit.yaml")
	require.NoError(t, config.Save(cfgPath, cfg))

	require.NoError(t, runAudit(context.Background(), cfgPath, ""))

	// Master has one row per batch plus a placeholder for the batchless
	// school district.
	master := readCSV(t, filepath.Join(outDir, "master.csv"))
	assert.Len(t, master, 3)

	violations := readCSV(t, filepath.Join(outDir, "violations.csv"))
	require.Len(t, violations, 2)
	assert.Equal(t, "Alta Town", violations[1][1])

	summary := readCSV(t, filepath.Join(outDir, "summary.csv"))
	require.Len(t, summary, 2)
	assert.Equal(t, "1", summary[1][3], "one distinct invalid fund")

	listings := readCSV(t, filepath.Join(outDir, "listings.csv"))
	require.Len(t, listings, 2)
	assert.Equal(t, "999", listings[1][2])

	entries, err := runlog.Read(logDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Entities)
	assert.Equal(t, 1, entries[0].Batches)
	assert.Equal(t, 1, entries[0].Violations)
}

func TestRunAudit_MissingWorkbookIsFatal(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "uploads.db")
	seedDatabase(t, dbPath)

	cfg := config.Default()
	cfg.Paths.Database = dbPath
	cfg.Paths.Workbook = filepath.Join(dir, "missing.xlsx")
	cfg.Paths.OutputDir = filepath.Join(dir, "reports")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfgPath := filepath.Join(dir, "ucoa-audit.yaml")
	require.NoError(t, config.Save(cfgPath, cfg))

	err := runAudit(context.Background(), cfgPath, "")
	require.Error(t, err)

	// Halted before evaluating anything: no reports, no run log entry.
	_, statErr := os.Stat(filepath.Join(dir, "reports"))
	assert.True(t, os.IsNotExist(statErr))
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}
