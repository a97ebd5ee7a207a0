package triage

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// ErrDiseaseNotFound is returned by Classify when the disease is missing from
// the urgency table. The accompanying tier is still usable (TierMild).
var ErrDiseaseNotFound = errors.New("disease not found in reference data")

// UrgencyTable maps a normalized disease name to its urgency code (0..4).
type UrgencyTable map[string]int

// NormalizeDisease trims, NFC-normalizes and lower-cases a disease name so
// that composed and decomposed Vietnamese diacritics share one key.
func NormalizeDisease(name string) string {
	s := norm.NFC.String(strings.TrimSpace(name))
	return cases.Lower(language.Vietnamese).String(s)
}

// Classifier assigns a tier to a free-text disease name. It never mutates its
// table after construction.
type Classifier struct {
	table UrgencyTable
}

func NewClassifier(table UrgencyTable) *Classifier {
	if table == nil {
		table = UrgencyTable{}
	}
	return &Classifier{table: table}
}

// Classify looks the disease up in the urgency table. When the disease is not
// listed it returns TierMild together with ErrDiseaseNotFound.
func (c *Classifier) Classify(disease string) (Tier, error) {
	code, ok := c.table[NormalizeDisease(disease)]
	if !ok {
		return TierMild, ErrDiseaseNotFound
	}
	tier, _ := TierForCode(code)
	return tier, nil
}

// Len returns the number of diseases known to the classifier.
func (c *Classifier) Len() int {
	return len(c.table)
}
