package audit

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa-dev/ucoa-audit/internal/model"
	"github.com/osa-dev/ucoa-audit/internal/validate"
)

func TestMarshalBatchRow(t *testing.T) {
	batch := model.Batch{
		ID:          10,
		EntityID:    1,
		Status:      model.StatusProcessed,
		UploadedAt:  time.Date(2019, 8, 2, 14, 30, 0, 0, time.UTC),
		UploadUser:  "clerk@alta.gov",
		FileName:    "fy19-q4.csv",
		RecordCount: 120,
		TotalAmount: decimal.RequireFromString("10500.25"),
		BeginTxn:    time.Date(2019, 4, 1, 0, 0, 0, 0, time.UTC),
		EndTxn:      time.Date(2019, 6, 30, 0, 0, 0, 0, time.UTC),
	}
	row := BatchRow{
		EntityID:     1,
		EntityName:   "Alta Town",
		GovType:      model.GovTypeTown,
		Batch:        &batch,
		TypesPresent: []string{"EXP", "REV"},
		FiscalYears:  []int{2019},
		Violations: validate.ViolationRecord{
			BatchID: 10,
			Codes: validate.CodeViolations{
				AnyBlankOrNA: true,
				InvalidFund:  []string{"555", "999"},
			},
			OutOfWindow: []time.Time{time.Date(2010, 1, 2, 0, 0, 0, 0, time.UTC)},
		},
	}

	rec := MarshalBatchRow(row)
	require.Len(t, rec, detailFields)
	assert.Equal(t, "1", rec[colEntityID])
	assert.Equal(t, "Alta Town", rec[colEntityName])
	assert.Equal(t, "10", rec[colBatchID])
	assert.Equal(t, "2019-08-02", rec[colUploadDate])
	assert.Equal(t, "10500.25", rec[colTotalAmount])
	assert.Equal(t, "EXP, REV", rec[colTypes])
	assert.Equal(t, "2019", rec[colFiscalYears])
	assert.Equal(t, "Y", rec[colBlank])
	assert.Equal(t, "555, 999", rec[colFund])
	assert.Equal(t, "", rec[colFormat])
	assert.Equal(t, "2010-01-02", rec[colOutOfWindow])
}

func TestMarshalBatchRow_Placeholder(t *testing.T) {
	rec := MarshalBatchRow(BatchRow{EntityID: 1, EntityName: "Alta Town", GovType: model.GovTypeTown})
	assert.Equal(t, "Alta Town", rec[colEntityName])
	assert.Equal(t, "", rec[colBatchID])
	assert.Equal(t, "", rec[colUploadDate])
	assert.Equal(t, "", rec[colTotalAmount])
	assert.Equal(t, "", rec[colBlank])
}

func TestWriteDetail_HeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDetail(&buf, []BatchRow{{EntityID: 1, EntityName: "Alta Town"}})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, strings.Split(DetailHeader, ","), records[0])
}

func TestWriteSummary_CountsAreListLengths(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSummary(&buf, []SummaryRow{{
		EntityID:        2,
		EntityName:      "Beaver County",
		AnyBlankOrNA:    true,
		InvalidFund:     []string{"555", "999"},
		InvalidFunction: []string{"999999"},
	}})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"2", "Beaver County", "Y", "2", "1", "0", "0"}, records[1])
}

func TestWriteListings(t *testing.T) {
	var buf bytes.Buffer
	err := WriteListings(&buf, []Listing{
		{Category: CategoryFund, EntityName: "Beaver County", Values: []string{"555", "999"}},
	})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Beaver County", CategoryFund, "555, 999"}, records[1])
}
