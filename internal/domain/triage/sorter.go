package triage

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ArrivalLayout parses Patient.ArrivalTime. Hour and minute may each be one
// or two digits; FormatArrival always writes two.
const ArrivalLayout = "15:4"

// LatestArrival stands in for an arrival time that cannot be parsed.
const LatestArrival = 23*time.Hour + 59*time.Minute

// ParseArrival parses an "HH:MM" string into an offset from midnight.
func ParseArrival(s string) (time.Duration, error) {
	t, err := time.Parse(ArrivalLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("arrival time %q is not HH:MM", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// FormatArrival renders an offset from midnight as zero-padded HH:MM.
func FormatArrival(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}

// SortKey orders patients by tier rank, then arrival time.
type SortKey struct {
	Rank    int
	Arrival time.Duration
}

// KeyOf derives the sort key of a patient. An unparseable arrival time maps to
// LatestArrival so the record sorts last within its tier.
func KeyOf(p Patient) SortKey {
	arrival, err := ParseArrival(p.ArrivalTime)
	if err != nil {
		arrival = LatestArrival
	}
	return SortKey{Rank: Rank(p.Condition), Arrival: arrival}
}

// Less reports whether k sorts strictly before o.
func (k SortKey) Less(o SortKey) bool {
	if k.Rank != o.Rank {
		return k.Rank < o.Rank
	}
	return k.Arrival < o.Arrival
}

// SortQueue returns a new slice ordered most urgent first, earliest arrival
// first within a tier. Ties keep their input order. The input is not modified.
func SortQueue(patients []Patient) []Patient {
	out := make([]Patient, len(patients))
	copy(out, patients)
	sort.SliceStable(out, func(i, j int) bool {
		return KeyOf(out[i]).Less(KeyOf(out[j]))
	})
	return out
}
