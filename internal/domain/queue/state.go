package queue

import "github.com/HoangSama213/hospital/internal/domain/triage"

// NoSelection marks an unset index in State.
const NoSelection = -1

// State is a snapshot of the queue as seen by the UI layer. Commands take a
// State and return a new one; a returned snapshot never shares its Patients
// backing array with the input.
type State struct {
	Patients           []triage.Patient
	SelectedIndex      int
	PendingDeleteIndex int
	ShowDetail         bool
}

// NewState returns a snapshot of patients with no selection.
func NewState(patients []triage.Patient) State {
	return State{
		Patients:           clonePatients(patients),
		SelectedIndex:      NoSelection,
		PendingDeleteIndex: NoSelection,
	}
}

func clonePatients(in []triage.Patient) []triage.Patient {
	out := make([]triage.Patient, len(in))
	copy(out, in)
	return out
}

// clone returns a deep copy of s.
func (s State) clone() State {
	s.Patients = clonePatients(s.Patients)
	return s
}

func (s State) inRange(index int) bool {
	return index >= 0 && index < len(s.Patients)
}

// Len returns the number of patients in the snapshot.
func (s State) Len() int {
	return len(s.Patients)
}

// Selected returns the selected patient, if any.
func (s State) Selected() (triage.Patient, bool) {
	if !s.inRange(s.SelectedIndex) {
		return triage.Patient{}, false
	}
	return s.Patients[s.SelectedIndex], true
}

// PendingDelete returns the patient awaiting delete confirmation, if any.
func (s State) PendingDelete() (triage.Patient, bool) {
	if !s.inRange(s.PendingDeleteIndex) {
		return triage.Patient{}, false
	}
	return s.Patients[s.PendingDeleteIndex], true
}
