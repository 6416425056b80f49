package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFiscalYearStart(t *testing.T) {
	fy, err := ParseFiscalYearStart("07-01")
	require.NoError(t, err)
	assert.Equal(t, time.July, fy.Month)
	assert.Equal(t, 1, fy.Day)
	assert.Equal(t, "07-01", fy.String())
}

func TestParseFiscalYearStart_Invalid(t *testing.T) {
	for _, s := range []string{"", "july", "13-01", "07-32", "0701"} {
		_, err := ParseFiscalYearStart(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestBatchStatus_Eligible(t *testing.T) {
	assert.True(t, StatusProcessed.Eligible())
	assert.True(t, StatusDontDelete.Eligible())
	assert.False(t, StatusDeleted.Eligible())
	assert.False(t, StatusPending.Eligible())
}

func TestTransactionType_Label(t *testing.T) {
	assert.Equal(t, "EXP", TypeExpense.Label())
	assert.Equal(t, "REV", TypeRevenue.Label())
	assert.Equal(t, "PAYROLL", TypePayroll.Label())
	assert.Equal(t, "BS", TypeBalanceSheet.Label())
	assert.Equal(t, "OTHER", TransactionType(9).Label())
}

func TestTransactionType_RequiresAccountCode(t *testing.T) {
	assert.True(t, TypeExpense.RequiresAccountCode())
	assert.True(t, TypeRevenue.RequiresAccountCode())
	assert.False(t, TypePayroll.RequiresAccountCode())
	assert.False(t, TypeBalanceSheet.RequiresAccountCode())
	assert.False(t, TransactionType(9).RequiresAccountCode())
}

func TestGovernmentType_Exemption(t *testing.T) {
	assert.True(t, GovTypeSchoolDistrict.ExemptFromAccountChecks())
	assert.False(t, GovTypeCity.ExemptFromAccountChecks())
	assert.False(t, GovTypeCounty.ExemptFromAccountChecks())
}
