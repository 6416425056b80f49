package reconcile

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa-dev/ucoa-audit/internal/model"
)

func TestReconcile_ExactMatchesDropOut(t *testing.T) {
	entities := []model.Entity{
		{ExternalID: "100", Name: "Alta Town"},
		{ExternalID: "200", Name: "Beaver County"},
	}
	crm := []CRMEntity{
		{ExternalID: "100", Name: "Alta Town"},
		{ExternalID: "200", Name: "Beaver Cnty"}, // id match wins, name ignored
	}

	res := Reconcile(entities, crm, DefaultOptions())
	assert.Empty(t, res.MissingInCRM)
	assert.Empty(t, res.MissingInStore)
}

func TestReconcile_BothDirections(t *testing.T) {
	entities := []model.Entity{{ExternalID: "100", Name: "Alta Town"}}
	crm := []CRMEntity{{ExternalID: "300", Name: "Cedar City"}}

	res := Reconcile(entities, crm, DefaultOptions())
	require.Len(t, res.MissingInCRM, 1)
	assert.Equal(t, "100", res.MissingInCRM[0].ExternalID)
	require.Len(t, res.MissingInStore, 1)
	assert.Equal(t, "300", res.MissingInStore[0].ExternalID)
}

func TestReconcile_FuzzyCandidates(t *testing.T) {
	entities := []model.Entity{{ExternalID: "100", Name: "Alta  Town"}}
	crm := []CRMEntity{
		{ExternalID: "A1", Name: "alta town"},  // distance 0 after normalization
		{ExternalID: "A2", Name: "Alta Towne"}, // distance 1
		{ExternalID: "A3", Name: "Cedar City"}, // far, excluded
	}

	res := Reconcile(entities, crm, Options{MaxDistance: 2})
	require.Len(t, res.MissingInCRM, 1)

	cands := res.MissingInCRM[0].Candidates
	require.Len(t, cands, 2)
	assert.Equal(t, "A1", cands[0].ExternalID)
	assert.Equal(t, 0, cands[0].Distance)
	assert.Equal(t, "A2", cands[1].ExternalID)
	assert.Equal(t, 1, cands[1].Distance)
}

func TestReadCRM(t *testing.T) {
	in := "external_id,name\n100,Alta Town\n200,Beaver County\n"
	entities, err := ReadCRM(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, entities, 2)
	assert.Equal(t, CRMEntity{ExternalID: "100", Name: "Alta Town"}, entities[0])
}

func TestReadCRM_EmptyID(t *testing.T) {
	in := "external_id,name\n,Alta Town\n"
	_, err := ReadCRM(strings.NewReader(in))
	assert.Error(t, err)
}

func TestWriteResult(t *testing.T) {
	res := Result{
		MissingInCRM: []Mismatch{{
			ExternalID: "100",
			Name:       "Alta Town",
			Candidates: []Candidate{{ExternalID: "A2", Name: "Alta Towne", Distance: 1}},
		}},
		MissingInStore: []Mismatch{{ExternalID: "300", Name: "Cedar City"}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, res))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"missing_in_crm", "100", "Alta Town", "Alta Towne (A2, d=1)"}, records[1])
	assert.Equal(t, []string{"missing_in_store", "300", "Cedar City", ""}, records[2])
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "alta town", normalize("  ALTA   Town "))
}
