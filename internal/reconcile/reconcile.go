// Package reconcile diffs entity identifiers between the upload system and
// the CRM. It is a flat set-difference with fuzzy name suggestions for the
// leftovers; it shares nothing with the compliance validation engine.
package reconcile

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/osa-dev/ucoa-audit/internal/model"
)

// CRMEntity is one row of the CRM export.
type CRMEntity struct {
	ExternalID string
	Name       string
}

// Candidate is a fuzzy name match from the other system.
type Candidate struct {
	ExternalID string
	Name       string
	Distance   int
}

// Mismatch is an entity present in one system but not the other.
type Mismatch struct {
	ExternalID string
	Name       string
	Candidates []Candidate // nearest names on the other side, closest first
}

// Result holds both directions of the diff.
type Result struct {
	MissingInCRM   []Mismatch // known to the upload system, absent from the CRM
	MissingInStore []Mismatch // known to the CRM, absent from the upload system
}

// Options tunes the fuzzy matching.
type Options struct {
	// MaxDistance is the largest Levenshtein distance between normalized
	// names still offered as a candidate.
	MaxDistance int `yaml:"max_distance"`
}

// DefaultOptions returns the reconcile defaults.
func DefaultOptions() Options {
	return Options{MaxDistance: 3}
}

// Reconcile diffs the two entity lists by external id, then suggests fuzzy
// name candidates for every leftover.
func Reconcile(entities []model.Entity, crm []CRMEntity, opts Options) Result {
	storeIDs := make(map[string]bool, len(entities))
	for _, e := range entities {
		storeIDs[e.ExternalID] = true
	}
	crmIDs := make(map[string]bool, len(crm))
	for _, c := range crm {
		crmIDs[c.ExternalID] = true
	}

	var res Result

	var leftStore []model.Entity
	for _, e := range entities {
		if !crmIDs[e.ExternalID] {
			leftStore = append(leftStore, e)
		}
	}
	var leftCRM []CRMEntity
	for _, c := range crm {
		if !storeIDs[c.ExternalID] {
			leftCRM = append(leftCRM, c)
		}
	}

	for _, e := range leftStore {
		m := Mismatch{ExternalID: e.ExternalID, Name: e.Name}
		for _, c := range leftCRM {
			if d := distance(e.Name, c.Name); d <= opts.MaxDistance {
				m.Candidates = append(m.Candidates, Candidate{ExternalID: c.ExternalID, Name: c.Name, Distance: d})
			}
		}
		sortCandidates(m.Candidates)
		res.MissingInCRM = append(res.MissingInCRM, m)
	}

	for _, c := range leftCRM {
		m := Mismatch{ExternalID: c.ExternalID, Name: c.Name}
		for _, e := range leftStore {
			if d := distance(c.Name, e.Name); d <= opts.MaxDistance {
				m.Candidates = append(m.Candidates, Candidate{ExternalID: e.ExternalID, Name: e.Name, Distance: d})
			}
		}
		sortCandidates(m.Candidates)
		res.MissingInStore = append(res.MissingInStore, m)
	}

	return res
}

func distance(a, b string) int {
	return levenshtein.ComputeDistance(normalize(a), normalize(b))
}

// normalize lowercases and collapses runs of whitespace so cosmetic
// differences between the two systems do not defeat the fuzzy match.
func normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func sortCandidates(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Distance != cands[j].Distance {
			return cands[i].Distance < cands[j].Distance
		}
		return cands[i].Name < cands[j].Name
	})
}
