package reconcile

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

const (
	crmNumFields = 2
	colCRMID     = 0
	colCRMName   = 1
)

// Header is the CSV header for reconciliation results.
const Header = "side,external_id,name,candidates"

// ReadCRM reads a CRM export CSV of (external_id, name) rows with a header.
func ReadCRM(r io.Reader) ([]CRMEntity, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = crmNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CRM export: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var entities []CRMEntity
	for i, rec := range records[1:] {
		id := strings.TrimSpace(rec[colCRMID])
		if id == "" {
			return nil, fmt.Errorf("row %d: empty external id", i+2)
		}
		entities = append(entities, CRMEntity{ExternalID: id, Name: strings.TrimSpace(rec[colCRMName])})
	}
	return entities, nil
}

// WriteResult writes both sides of a reconciliation result as CSV.
func WriteResult(w io.Writer, res Result) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := writeSide(cw, "missing_in_crm", res.MissingInCRM); err != nil {
		return err
	}
	if err := writeSide(cw, "missing_in_store", res.MissingInStore); err != nil {
		return err
	}
	return cw.Error()
}

func writeSide(cw *csv.Writer, side string, mismatches []Mismatch) error {
	for _, m := range mismatches {
		parts := make([]string, len(m.Candidates))
		for i, c := range m.Candidates {
			parts[i] = fmt.Sprintf("%s (%s, d=%d)", c.Name, c.ExternalID, c.Distance)
		}
		if err := cw.Write([]string{side, m.ExternalID, m.Name, strings.Join(parts, "; ")}); err != nil {
			return fmt.Errorf("writing %s row for %s: %w", side, m.ExternalID, err)
		}
	}
	return nil
}
