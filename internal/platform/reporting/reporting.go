// Package reporting summarizes the waiting queue per urgency tier.
package reporting

import (
	"time"

	"github.com/HoangSama213/hospital/internal/domain/triage"
)

// TierSummary holds the measures of one tier.
type TierSummary struct {
	Tier            triage.Tier `json:"tier"`
	Count           int         `json:"count"`
	EarliestArrival string      `json:"earliest_arrival,omitempty"`
	InvalidArrivals int         `json:"invalid_arrivals"`
}

// QueueReport is the result of Summarize.
type QueueReport struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Total       int           `json:"total"`
	Tiers       []TierSummary `json:"tiers"`
	// Unknown counts records whose condition is not one of the four tiers.
	Unknown int `json:"unknown"`
}

// Summarize counts patients per tier, most urgent first, and finds the
// earliest valid arrival time in each tier.
func Summarize(patients []triage.Patient, now time.Time) *QueueReport {
	report := &QueueReport{
		GeneratedAt: now,
		Total:       len(patients),
		Tiers:       make([]TierSummary, len(triage.Tiers)),
	}
	earliest := make([]time.Duration, len(triage.Tiers))
	for i, tier := range triage.Tiers {
		report.Tiers[i].Tier = tier
		earliest[i] = -1
	}

	for _, p := range patients {
		rank := triage.Rank(p.Condition)
		if rank == triage.UnknownRank {
			report.Unknown++
			continue
		}
		i := rank - 1
		report.Tiers[i].Count++

		arrival, err := triage.ParseArrival(p.ArrivalTime)
		if err != nil {
			report.Tiers[i].InvalidArrivals++
			continue
		}
		if earliest[i] < 0 || arrival < earliest[i] {
			earliest[i] = arrival
		}
	}

	for i := range report.Tiers {
		if earliest[i] >= 0 {
			report.Tiers[i].EarliestArrival = triage.FormatArrival(earliest[i])
		}
	}
	return report
}
