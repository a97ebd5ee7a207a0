package triage

import "strconv"

// Tier is the human-readable urgency label stored on a patient record.
type Tier string

const (
	TierCritical Tier = "khẩn cấp"
	TierSerious  Tier = "nghiêm trọng"
	TierModerate Tier = "trung bình"
	TierMild     Tier = "nhẹ"
)

// Tiers lists every tier, most urgent first.
var Tiers = []Tier{TierCritical, TierSerious, TierModerate, TierMild}

// UnknownRank is the rank given to a condition label outside Tiers.
const UnknownRank = 99

// MinUrgencyCode and MaxUrgencyCode bound the codes of the reference dataset.
const (
	MinUrgencyCode = 0
	MaxUrgencyCode = 4
)

// urgencyLabels maps a reference urgency code to its tier. Codes 3 and 4
// collapse into the same tier.
var urgencyLabels = map[int]Tier{
	0: TierCritical,
	1: TierSerious,
	2: TierModerate,
	3: TierMild,
	4: TierMild,
}

var tierRanks = map[Tier]int{
	TierCritical: 1,
	TierSerious:  2,
	TierModerate: 3,
	TierMild:     4,
}

// TierForCode returns the tier for an urgency code. Unknown codes fall back to
// TierMild with ok=false.
func TierForCode(code int) (Tier, bool) {
	t, ok := urgencyLabels[code]
	if !ok {
		return TierMild, false
	}
	return t, true
}

// Rank returns the sort rank of a condition label: 1 for the most urgent tier,
// UnknownRank when the label is not a known tier. The label is normalized the
// same way as disease names before lookup.
func Rank(condition Tier) int {
	key := Tier(NormalizeDisease(string(condition)))
	if r, ok := tierRanks[key]; ok {
		return r
	}
	return UnknownRank
}

// Patient is one row of the waiting queue. Identity is its position in the
// queue; there is no durable ID.
type Patient struct {
	Name        string `json:"name"`
	Age         int    `json:"age"`
	Sex         string `json:"sex"`
	Condition   Tier   `json:"condition"`
	ArrivalTime string `json:"arrival_time"`
}

// Fields returns the five stored fields of the record in storage order.
func (p Patient) Fields() []string {
	return []string{
		p.Name,
		strconv.Itoa(p.Age),
		p.Sex,
		string(p.Condition),
		p.ArrivalTime,
	}
}
