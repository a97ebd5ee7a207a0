package queue

import (
	"context"

	"github.com/HoangSama213/hospital/internal/domain/triage"
)

// LoadResult is what a repository returns from Load.
type LoadResult struct {
	Patients []triage.Patient
	// Skipped lists stored lines that could not be read as a patient.
	Skipped []triage.LineWarning
	// Created is set when the store did not exist and was created empty.
	Created bool
}

// PatientRepository persists the whole queue. Save always rewrites every
// record; there are no partial writes.
type PatientRepository interface {
	Load(ctx context.Context) (*LoadResult, error)
	Save(ctx context.Context, patients []triage.Patient) error
}
