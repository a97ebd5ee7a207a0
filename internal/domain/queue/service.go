package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/HoangSama213/hospital/internal/domain/triage"
	"github.com/HoangSama213/hospital/internal/platform/outcome"
)

var (
	ErrIndexOutOfRange = errors.New("no patient at this position")
	ErrNoPendingDelete = errors.New("no patient is awaiting delete confirmation")
	ErrNoSelection     = errors.New("no patient selected")
)

// Service applies queue commands to State snapshots. Every mutation rewrites
// the whole store before the new snapshot is returned; when the write fails
// the input snapshot is returned unchanged.
type Service struct {
	repo       PatientRepository
	classifier *triage.Classifier
	logger     zerolog.Logger
}

func NewService(repo PatientRepository, classifier *triage.Classifier, logger zerolog.Logger) *Service {
	return &Service{repo: repo, classifier: classifier, logger: logger}
}

// -- Store --

// Reload replaces the snapshot with the store contents and resets all UI
// flags. A read failure yields an empty queue.
func (s *Service) Reload(ctx context.Context) (State, *outcome.Outcome) {
	res, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load patient store")
		return NewState(nil), outcome.Failure(err)
	}

	out := outcome.New()
	if res.Created {
		out.Info("patient store did not exist; created an empty one")
	}
	for _, w := range res.Skipped {
		s.logger.Warn().Int("line", w.Line).Str("reason", w.Reason).Msg("skipped stored record")
		out.Warn(outcome.CodeStructure, "skipped invalid stored record (%s)", w)
	}
	out.Info("loaded %d patient(s)", len(res.Patients))
	return NewState(res.Patients), out
}

func (s *Service) save(ctx context.Context, patients []triage.Patient) *outcome.Outcome {
	if err := s.repo.Save(ctx, patients); err != nil {
		s.logger.Error().Err(err).Msg("failed to save patient store")
		return outcome.Failure(err)
	}
	return nil
}

// -- Classification --

// Classify returns the tier for a disease name. An unknown disease yields
// TierMild and a warning.
func (s *Service) Classify(disease string) (triage.Tier, *outcome.Outcome) {
	tier, err := s.classifier.Classify(disease)
	return tier, s.classification(disease, tier, err == nil)
}

func (s *Service) classification(disease string, tier triage.Tier, found bool) *outcome.Outcome {
	if !found {
		s.logger.Warn().Str("disease", disease).Msg("disease not found in reference data")
		return outcome.New().Warn(outcome.CodeCodeInvalid,
			"disease %q not found in reference data; condition defaults to %q", disease, tier)
	}
	return outcome.New().Info("disease %q classified as %q", disease, tier)
}

// -- Add --

func (s *Service) AddPatient(ctx context.Context, st State, in triage.Intake) (State, *outcome.Outcome) {
	p, found, err := triage.Admit(in, s.classifier)
	if err != nil {
		return st, validationOutcome(err)
	}
	out := s.classification(in.Disease, p.Condition, found)

	next := st.clone()
	next.Patients = append(next.Patients, p)
	if failed := s.save(ctx, next.Patients); failed != nil {
		return st, out.Merge(failed)
	}
	next.PendingDeleteIndex = NoSelection

	s.logger.Info().Str("condition", string(p.Condition)).Int("queue_len", next.Len()).Msg("patient added")
	return next, out.Info("added patient %q", p.Name)
}

func validationOutcome(err error) *outcome.Outcome {
	var verr *triage.ValidationError
	if !errors.As(err, &verr) {
		return outcome.Failure(err)
	}
	if verr.Message == "is required" {
		return outcome.RequiredField(verr.Field)
	}
	return outcome.Validation(verr.Field, verr.Message)
}

// -- Sort --

// SortPatients orders the queue by tier then arrival time and persists the
// new order in full.
func (s *Service) SortPatients(ctx context.Context, st State) (State, *outcome.Outcome) {
	if st.Len() == 0 {
		return st.clone(), outcome.Success("no patients to sort")
	}

	sorted := triage.SortQueue(st.Patients)
	if failed := s.save(ctx, sorted); failed != nil {
		return st, failed
	}
	return NewState(sorted), outcome.Success(fmt.Sprintf("sorted %d patient(s)", len(sorted)))
}

// -- Delete --

func (s *Service) DeletePatient(ctx context.Context, st State, index int) (State, *outcome.Outcome) {
	if !st.inRange(index) {
		return st, outcome.NotFound(fmt.Sprintf("%s: %d", ErrIndexOutOfRange, index+1))
	}

	removed := st.Patients[index]
	remaining := make([]triage.Patient, 0, st.Len()-1)
	remaining = append(remaining, st.Patients[:index]...)
	remaining = append(remaining, st.Patients[index+1:]...)

	if failed := s.save(ctx, remaining); failed != nil {
		return st, failed
	}
	return NewState(remaining), outcome.Success(fmt.Sprintf("deleted patient %q", removed.Name))
}

// RequestDelete marks a patient for deletion; ConfirmDelete or CancelDelete
// resolves it.
func (s *Service) RequestDelete(st State, index int) (State, *outcome.Outcome) {
	if !st.inRange(index) {
		return st, outcome.NotFound(fmt.Sprintf("%s: %d", ErrIndexOutOfRange, index+1))
	}
	next := st.clone()
	next.PendingDeleteIndex = index
	return next, outcome.Warning(fmt.Sprintf("confirm deletion of patient %q", st.Patients[index].Name))
}

func (s *Service) ConfirmDelete(ctx context.Context, st State) (State, *outcome.Outcome) {
	if _, ok := st.PendingDelete(); !ok {
		return st, outcome.New().Error(outcome.CodeProcessing, "%s", ErrNoPendingDelete)
	}
	return s.DeletePatient(ctx, st, st.PendingDeleteIndex)
}

func (s *Service) CancelDelete(st State) (State, *outcome.Outcome) {
	next := st.clone()
	next.PendingDeleteIndex = NoSelection
	return next, outcome.Success("deletion cancelled")
}

// -- Selection & detail --

func (s *Service) SelectPatient(st State, index int) (State, *outcome.Outcome) {
	if !st.inRange(index) {
		return st, outcome.NotFound(fmt.Sprintf("%s: %d", ErrIndexOutOfRange, index+1))
	}
	next := st.clone()
	next.SelectedIndex = index
	return next, outcome.New()
}

func (s *Service) ShowDetail(st State) (State, *outcome.Outcome) {
	if _, ok := st.Selected(); !ok {
		return st, outcome.Warning(ErrNoSelection.Error())
	}
	next := st.clone()
	next.ShowDetail = true
	next.PendingDeleteIndex = NoSelection
	return next, outcome.New()
}

func (s *Service) CloseDetail(st State) (State, *outcome.Outcome) {
	next := st.clone()
	next.ShowDetail = false
	next.SelectedIndex = NoSelection
	next.PendingDeleteIndex = NoSelection
	return next, outcome.New()
}
