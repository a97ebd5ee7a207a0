package queue

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/HoangSama213/hospital/internal/domain/triage"
	"github.com/HoangSama213/hospital/internal/platform/outcome"
)

// -- Mock Repository --

type mockPatientRepo struct {
	stored  []triage.Patient
	skipped []triage.LineWarning
	saves   int
	loadErr error
	saveErr error
}

func newMockPatientRepo(patients ...triage.Patient) *mockPatientRepo {
	return &mockPatientRepo{stored: patients}
}

func (m *mockPatientRepo) Load(_ context.Context) (*LoadResult, error) {
	if m.loadErr != nil {
		return &LoadResult{}, m.loadErr
	}
	out := make([]triage.Patient, len(m.stored))
	copy(out, m.stored)
	return &LoadResult{Patients: out, Skipped: m.skipped}, nil
}

func (m *mockPatientRepo) Save(_ context.Context, patients []triage.Patient) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.stored = make([]triage.Patient, len(patients))
	copy(m.stored, patients)
	return nil
}

func newTestService(repo PatientRepository) *Service {
	classifier := triage.NewClassifier(triage.UrgencyTable{
		"nhồi máu cơ tim": 0,
		"viêm phổi":       1,
		"cúm":             2,
		"cảm lạnh":        3,
	})
	return NewService(repo, classifier, zerolog.New(io.Discard))
}

func p(name string, condition triage.Tier, arrival string) triage.Patient {
	return triage.Patient{Name: name, Age: 50, Sex: "Nam", Condition: condition, ArrivalTime: arrival}
}

func flu() triage.Intake {
	return triage.Intake{Name: "An", Age: "30", Sex: "Nam", Disease: "cúm", ArrivalTime: "14:05"}
}

// -- Reload --

func TestService_Reload(t *testing.T) {
	repo := newMockPatientRepo(p("a", triage.TierMild, "10:00"))
	repo.skipped = []triage.LineWarning{{Line: 2, Content: "x-y", Reason: "expected 5 fields, got 2"}}
	svc := newTestService(repo)

	st, out := svc.Reload(context.Background())
	if st.Len() != 1 {
		t.Fatalf("expected 1 patient, got %d", st.Len())
	}
	if st.SelectedIndex != NoSelection || st.PendingDeleteIndex != NoSelection {
		t.Errorf("reload must reset flags, got %+v", st)
	}
	if !out.HasWarnings() || out.HasErrors() {
		t.Errorf("expected a non-fatal warning, got %s", out)
	}
}

func TestService_ReloadError(t *testing.T) {
	repo := newMockPatientRepo()
	repo.loadErr = fmt.Errorf("permission denied")
	svc := newTestService(repo)

	st, out := svc.Reload(context.Background())
	if st.Len() != 0 {
		t.Errorf("expected empty queue on read failure, got %d", st.Len())
	}
	if !out.HasErrors() {
		t.Error("expected error outcome")
	}
}

// -- Add --

func TestService_AddPatient_Scenario(t *testing.T) {
	repo := newMockPatientRepo()
	svc := newTestService(repo)

	st, out := svc.AddPatient(context.Background(), NewState(nil), flu())
	if out.HasErrors() {
		t.Fatalf("unexpected errors: %s", out)
	}
	if st.Len() != 1 {
		t.Fatalf("expected 1 patient, got %d", st.Len())
	}
	if st.Patients[0].Condition != triage.TierModerate {
		t.Errorf("expected %q, got %q", triage.TierModerate, st.Patients[0].Condition)
	}
	if repo.saves != 1 || len(repo.stored) != 1 {
		t.Fatalf("expected one full save, got saves=%d stored=%d", repo.saves, len(repo.stored))
	}
	if got := EncodeLine(repo.stored[0]); got != "An-30-Nam-trung bình-14:05" {
		t.Errorf("persisted line = %q", got)
	}
}

func TestService_AddPatient_AppendsAndPersistsAll(t *testing.T) {
	existing := p("first", triage.TierCritical, "08:00")
	repo := newMockPatientRepo(existing)
	svc := newTestService(repo)
	st := NewState([]triage.Patient{existing})

	next, _ := svc.AddPatient(context.Background(), st, flu())
	if next.Len() != 2 || next.Patients[1].Name != "An" {
		t.Fatalf("expected append at end, got %+v", next.Patients)
	}
	if len(repo.stored) != 2 {
		t.Errorf("expected full list persisted, got %d records", len(repo.stored))
	}
	if st.Len() != 1 {
		t.Error("input snapshot must not be mutated")
	}
}

func TestService_AddPatient_UnknownDisease(t *testing.T) {
	svc := newTestService(newMockPatientRepo())
	in := flu()
	in.Disease = "bệnh lạ"

	st, out := svc.AddPatient(context.Background(), NewState(nil), in)
	if st.Len() != 1 {
		t.Fatalf("unknown disease must still add the patient")
	}
	if st.Patients[0].Condition != triage.TierMild {
		t.Errorf("expected %q, got %q", triage.TierMild, st.Patients[0].Condition)
	}
	warnings := out.BySeverity(outcome.SeverityWarning)
	if len(warnings) != 1 || warnings[0].Code != outcome.CodeCodeInvalid {
		t.Errorf("expected one code-invalid warning, got %v", warnings)
	}
}

func TestService_AddPatient_ValidationLeavesStateUnchanged(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*triage.Intake)
		code string
	}{
		{"missing name", func(in *triage.Intake) { in.Name = "" }, outcome.CodeRequired},
		{"bad age", func(in *triage.Intake) { in.Age = "x" }, outcome.CodeInvalid},
		{"bad time", func(in *triage.Intake) { in.ArrivalTime = "25:00" }, outcome.CodeInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockPatientRepo()
			svc := newTestService(repo)
			in := flu()
			tt.mod(&in)

			st := NewState(nil)
			next, out := svc.AddPatient(context.Background(), st, in)
			if !out.HasErrors() {
				t.Fatal("expected validation error")
			}
			if out.Issues[0].Code != tt.code {
				t.Errorf("expected code %q, got %q", tt.code, out.Issues[0].Code)
			}
			if next.Len() != 0 || repo.saves != 0 {
				t.Errorf("validation failure must not change state or store")
			}
		})
	}
}

func TestService_AddPatient_SaveFailure(t *testing.T) {
	repo := newMockPatientRepo()
	repo.saveErr = fmt.Errorf("disk full")
	svc := newTestService(repo)

	next, out := svc.AddPatient(context.Background(), NewState(nil), flu())
	if !out.HasErrors() {
		t.Fatal("expected error outcome")
	}
	if next.Len() != 0 {
		t.Errorf("state must be unchanged on save failure, got %d patients", next.Len())
	}
}

// -- Sort --

func TestService_SortPatients(t *testing.T) {
	patients := []triage.Patient{
		p("serious", triage.TierSerious, "09:00"),
		p("critical", triage.TierCritical, "23:00"),
	}
	repo := newMockPatientRepo(patients...)
	svc := newTestService(repo)
	st := NewState(patients)
	st.SelectedIndex = 1
	st.ShowDetail = true

	next, out := svc.SortPatients(context.Background(), st)
	if out.HasErrors() {
		t.Fatalf("unexpected errors: %s", out)
	}
	if next.Patients[0].Name != "critical" || next.Patients[1].Name != "serious" {
		t.Errorf("unexpected order %+v", next.Patients)
	}
	if !reflect.DeepEqual(repo.stored, next.Patients) {
		t.Errorf("sorted order must be persisted in full")
	}
	if next.SelectedIndex != NoSelection || next.ShowDetail {
		t.Errorf("sort must reset selection and detail, got %+v", next)
	}
	if st.Patients[0].Name != "serious" {
		t.Error("input snapshot must not be mutated")
	}
}

func TestService_SortPatients_Empty(t *testing.T) {
	repo := newMockPatientRepo()
	svc := newTestService(repo)

	_, out := svc.SortPatients(context.Background(), NewState(nil))
	if out.HasErrors() || out.HasWarnings() {
		t.Errorf("empty sort should be informational, got %s", out)
	}
	if repo.saves != 0 {
		t.Error("empty sort must not write the store")
	}
}

func TestService_SortPatients_SaveFailure(t *testing.T) {
	patients := []triage.Patient{
		p("mild", triage.TierMild, "07:00"),
		p("critical", triage.TierCritical, "08:00"),
	}
	repo := newMockPatientRepo(patients...)
	repo.saveErr = fmt.Errorf("read-only")
	svc := newTestService(repo)

	next, out := svc.SortPatients(context.Background(), NewState(patients))
	if !out.HasErrors() {
		t.Fatal("expected error outcome")
	}
	if next.Patients[0].Name != "mild" {
		t.Error("state must be unchanged on save failure")
	}
}

// -- Delete --

func TestService_DeletePatient(t *testing.T) {
	patients := []triage.Patient{
		p("a", triage.TierMild, "07:00"),
		p("b", triage.TierMild, "08:00"),
		p("c", triage.TierMild, "09:00"),
	}
	repo := newMockPatientRepo(patients...)
	svc := newTestService(repo)

	next, out := svc.DeletePatient(context.Background(), NewState(patients), 1)
	if out.HasErrors() {
		t.Fatalf("unexpected errors: %s", out)
	}
	if next.Len() != 2 || next.Patients[0].Name != "a" || next.Patients[1].Name != "c" {
		t.Errorf("unexpected queue %+v", next.Patients)
	}
	if len(repo.stored) != 2 {
		t.Errorf("expected 2 stored records, got %d", len(repo.stored))
	}
}

func TestService_DeletePatient_OutOfRange(t *testing.T) {
	patients := []triage.Patient{p("a", triage.TierMild, "07:00")}
	repo := newMockPatientRepo(patients...)
	svc := newTestService(repo)

	for _, idx := range []int{-1, 1, 5} {
		next, out := svc.DeletePatient(context.Background(), NewState(patients), idx)
		if !out.HasErrors() || out.Issues[0].Code != outcome.CodeNotFound {
			t.Errorf("index %d: expected not-found error, got %s", idx, out)
		}
		if next.Len() != 1 {
			t.Errorf("index %d: state must be unchanged", idx)
		}
	}
	if repo.saves != 0 {
		t.Error("failed deletes must not write the store")
	}
}

func TestService_DeleteConfirmFlow(t *testing.T) {
	patients := []triage.Patient{
		p("a", triage.TierMild, "07:00"),
		p("b", triage.TierMild, "08:00"),
	}
	repo := newMockPatientRepo(patients...)
	svc := newTestService(repo)
	ctx := context.Background()

	st, out := svc.RequestDelete(NewState(patients), 0)
	if st.PendingDeleteIndex != 0 {
		t.Fatalf("expected pending delete 0, got %d", st.PendingDeleteIndex)
	}
	if !out.HasWarnings() {
		t.Error("expected confirmation prompt as warning")
	}
	if repo.saves != 0 {
		t.Fatal("request must not delete")
	}

	st, _ = svc.ConfirmDelete(ctx, st)
	if st.Len() != 1 || st.Patients[0].Name != "b" {
		t.Errorf("unexpected queue after confirm %+v", st.Patients)
	}
	if st.PendingDeleteIndex != NoSelection {
		t.Error("confirm must clear pending delete")
	}
}

func TestService_CancelDelete(t *testing.T) {
	patients := []triage.Patient{p("a", triage.TierMild, "07:00")}
	repo := newMockPatientRepo(patients...)
	svc := newTestService(repo)

	st, _ := svc.RequestDelete(NewState(patients), 0)
	st, _ = svc.CancelDelete(st)
	if st.PendingDeleteIndex != NoSelection || st.Len() != 1 {
		t.Errorf("cancel must keep the patient and clear pending, got %+v", st)
	}

	_, out := svc.ConfirmDelete(context.Background(), st)
	if !out.HasErrors() {
		t.Error("confirm without a pending delete must fail")
	}
	if repo.saves != 0 {
		t.Error("cancelled delete must not write the store")
	}
}

// -- Selection & detail --

func TestService_SelectAndShowDetail(t *testing.T) {
	patients := []triage.Patient{p("a", triage.TierMild, "07:00"), p("b", triage.TierMild, "08:00")}
	svc := newTestService(newMockPatientRepo(patients...))

	st, out := svc.ShowDetail(NewState(patients))
	if !out.HasWarnings() || st.ShowDetail {
		t.Error("detail without a selection must warn and not open")
	}

	st, _ = svc.SelectPatient(st, 1)
	st, _ = svc.ShowDetail(st)
	sel, ok := st.Selected()
	if !ok || sel.Name != "b" || !st.ShowDetail {
		t.Errorf("expected detail of b, got %+v", st)
	}

	st, _ = svc.CloseDetail(st)
	if st.ShowDetail || st.SelectedIndex != NoSelection {
		t.Errorf("close must reset detail and selection, got %+v", st)
	}
}

func TestService_SelectOutOfRange(t *testing.T) {
	svc := newTestService(newMockPatientRepo())
	_, out := svc.SelectPatient(NewState(nil), 0)
	if !out.HasErrors() {
		t.Error("expected error selecting in an empty queue")
	}
}

func TestService_Classify(t *testing.T) {
	svc := newTestService(newMockPatientRepo())
	tier, out := svc.Classify("Viêm phổi")
	if tier != triage.TierSerious || out.HasWarnings() {
		t.Errorf("got %q, %s", tier, out)
	}
	tier, out = svc.Classify("không có")
	if tier != triage.TierMild || !out.HasWarnings() {
		t.Errorf("got %q, %s", tier, out)
	}
}
