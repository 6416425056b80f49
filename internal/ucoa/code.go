package ucoa

import (
	"fmt"
	"regexp"
)

// Account codes are fund-function-account: 3 digits, 6 digits, 8 digits,
// dash-delimited, 19 characters total.
var codePattern = regexp.MustCompile(`^[0-9]{3}-[0-9]{6}-[0-9]{8}$`)

const (
	FundWidth     = 3
	FunctionWidth = 6
	AccountWidth  = 8
)

// WellFormed reports whether code matches the fund-function-account shape.
// It says nothing about whether the segments exist in any codeset.
func WellFormed(code string) bool {
	return codePattern.MatchString(code)
}

// SplitCode decomposes a well-formed code into its fund, function, and
// account segments. "010-100000-60110000" -> "010", "100000", "60110000".
func SplitCode(code string) (fund, function, account string, err error) {
	if !WellFormed(code) {
		return "", "", "", fmt.Errorf("malformed account code %q", code)
	}
	return code[:FundWidth], code[FundWidth+1 : FundWidth+1+FunctionWidth], code[len(code)-AccountWidth:], nil
}
