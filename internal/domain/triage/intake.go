package triage

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ValidationError reports a rejected intake field. The operation that
// produced it must leave all state unchanged.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Intake holds the raw fields of the new-patient form.
type Intake struct {
	Name        string
	Age         string
	Sex         string
	Disease     string
	ArrivalTime string
}

// Validate checks the intake fields and returns the patient they describe,
// without a condition. The arrival time is canonicalized to zero-padded HH:MM.
func (in Intake) Validate() (Patient, error) {
	required := []struct {
		field string
		value string
	}{
		{"name", in.Name},
		{"age", in.Age},
		{"sex", in.Sex},
		{"disease", in.Disease},
		{"arrival_time", in.ArrivalTime},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return Patient{}, &ValidationError{Field: r.field, Message: "is required"}
		}
		// A stored record is exactly one line.
		if strings.ContainsFunc(r.value, unicode.IsControl) {
			return Patient{}, &ValidationError{Field: r.field, Message: "must not contain control characters"}
		}
	}

	age, err := strconv.Atoi(strings.TrimSpace(in.Age))
	if err != nil {
		return Patient{}, &ValidationError{Field: "age", Message: "must be an integer"}
	}
	if age < 0 {
		return Patient{}, &ValidationError{Field: "age", Message: "must not be negative"}
	}

	arrival, err := ParseArrival(in.ArrivalTime)
	if err != nil {
		return Patient{}, &ValidationError{Field: "arrival_time", Message: "must be HH:MM"}
	}

	return Patient{
		Name:        strings.TrimSpace(in.Name),
		Age:         age,
		Sex:         strings.TrimSpace(in.Sex),
		ArrivalTime: FormatArrival(arrival),
	}, nil
}

// Admit validates the intake and classifies its disease. A validation failure
// is returned as *ValidationError. An unknown disease is not an error here:
// the patient gets TierMild and found is false.
func Admit(in Intake, c *Classifier) (p Patient, found bool, err error) {
	p, err = in.Validate()
	if err != nil {
		return Patient{}, false, err
	}
	tier, cerr := c.Classify(in.Disease)
	p.Condition = tier
	return p, cerr == nil, nil
}
