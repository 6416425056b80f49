package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa-dev/ucoa-audit/internal/model"
	"github.com/osa-dev/ucoa-audit/internal/validate"
)

func violatingRow(entity string, year int, batchID int64) BatchRow {
	return BatchRow{
		EntityName:  entity,
		Batch:       &model.Batch{ID: batchID},
		FiscalYears: []int{year},
		Violations: validate.ViolationRecord{
			BatchID: batchID,
			Codes:   validate.CodeViolations{InvalidFund: []string{"999"}},
		},
	}
}

func cleanRow(entity string, batchID int64) BatchRow {
	return BatchRow{
		EntityName: entity,
		Batch:      &model.Batch{ID: batchID},
		Violations: validate.ViolationRecord{BatchID: batchID},
	}
}

func TestAssemble_FiltersToViolations(t *testing.T) {
	rows := []BatchRow{
		cleanRow("Alta Town", 1),
		violatingRow("Beaver County", 2019, 2),
		{EntityName: "Cedar City"}, // placeholder
	}

	rep := Assemble(rows, nil)
	assert.Len(t, rep.Master, 3)
	require.Len(t, rep.Detail, 1)
	assert.Equal(t, "Beaver County", rep.Detail[0].EntityName)
}

func TestAssemble_DetailSortedByNameThenYear(t *testing.T) {
	rows := []BatchRow{
		violatingRow("Zion Canyon SSD", 2018, 1),
		violatingRow("Alta Town", 2020, 2),
		violatingRow("Alta Town", 2018, 3),
	}

	rep := Assemble(rows, nil)
	require.Len(t, rep.Detail, 3)
	assert.Equal(t, int64(3), rep.Detail[0].Batch.ID)
	assert.Equal(t, int64(2), rep.Detail[1].Batch.ID)
	assert.Equal(t, int64(1), rep.Detail[2].Batch.ID)
}

func TestAssemble_SummaryFilterAndListings(t *testing.T) {
	summaries := []SummaryRow{
		{EntityID: 1, EntityName: "Alta Town"}, // clean, dropped
		{
			EntityID:              2,
			EntityName:            "Beaver County",
			AnyBlankOrNA:          true,
			InvalidFund:           []string{"555", "999"},
			InvalidRevenueAccount: []string{"39999999"},
		},
	}

	rep := Assemble(nil, summaries)
	require.Len(t, rep.Summary, 1)
	assert.Equal(t, "Beaver County", rep.Summary[0].EntityName)

	require.Len(t, rep.Listings, 2)
	assert.Equal(t, CategoryFund, rep.Listings[0].Category)
	assert.Equal(t, []string{"555", "999"}, rep.Listings[0].Values)
	assert.Equal(t, CategoryRevenue, rep.Listings[1].Category)
}

func TestAssemble_BlankOnlyEntityStillSummarized(t *testing.T) {
	summaries := []SummaryRow{{EntityID: 1, EntityName: "Alta Town", AnyBlankOrNA: true}}

	rep := Assemble(nil, summaries)
	require.Len(t, rep.Summary, 1)
	assert.Empty(t, rep.Listings, "blank/NA has no raw values to list")
}

func TestFirstYear(t *testing.T) {
	assert.Equal(t, 0, firstYear(nil))
	assert.Equal(t, 2018, firstYear([]int{2018, 2019}))
}
