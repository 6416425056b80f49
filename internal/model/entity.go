package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GovernmentType classifies an entity for compliance purposes.
type GovernmentType string

const (
	GovTypeCity           GovernmentType = "City"
	GovTypeCounty         GovernmentType = "County"
	GovTypeTown           GovernmentType = "Town"
	GovTypeSchoolDistrict GovernmentType = "School District or Charter School"
	GovTypeLocalDistrict  GovernmentType = "Local and Special Service District"
	GovTypeInterlocal     GovernmentType = "Interlocal"
)

// ExemptFromAccountChecks reports whether entities of this type skip
// account-code validation. School districts and charter schools report
// through a separate chart of accounts and are exempt; posting-date
// checks still apply to them.
func (g GovernmentType) ExemptFromAccountChecks() bool {
	return g == GovTypeSchoolDistrict
}

// Entity is a government body under compliance review. Immutable for a run.
type Entity struct {
	ID         int64  // internal id in the upload system
	ExternalID string // identifier shared with the CRM
	Name       string
	GovType    GovernmentType
	FYStart    FiscalYearStart
}

// FiscalYearStart is a recurring month/day, independent of year.
type FiscalYearStart struct {
	Month time.Month
	Day   int
}

// ParseFiscalYearStart parses "MM-DD", e.g. "07-01".
func ParseFiscalYearStart(s string) (FiscalYearStart, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return FiscalYearStart{}, fmt.Errorf("invalid fiscal year start %q: want MM-DD", s)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return FiscalYearStart{}, fmt.Errorf("invalid month in fiscal year start %q", s)
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil || day < 1 || day > 31 {
		return FiscalYearStart{}, fmt.Errorf("invalid day in fiscal year start %q", s)
	}
	return FiscalYearStart{Month: time.Month(month), Day: day}, nil
}

// String returns the "MM-DD" form.
func (f FiscalYearStart) String() string {
	return fmt.Sprintf("%02d-%02d", int(f.Month), f.Day)
}

// Anchor resolves the recurring start to the concrete calendar date on
// which the given fiscal year begins. Fiscal years are labeled by the
// calendar year in which they end, so a January start anchors in the
// fiscal year itself and any mid-year start anchors one year earlier:
// FY2018 with a July 1 start runs 2017-07-01 through 2018-06-30.
func (f FiscalYearStart) Anchor(fiscalYear int) time.Time {
	year := fiscalYear
	if f.Month != time.January {
		year = fiscalYear - 1
	}
	return time.Date(year, f.Month, f.Day, 0, 0, 0, 0, time.UTC)
}
