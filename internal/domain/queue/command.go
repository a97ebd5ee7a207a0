package queue

import (
	"context"

	"github.com/HoangSama213/hospital/internal/domain/triage"
	"github.com/HoangSama213/hospital/internal/platform/outcome"
)

// Command is one discrete user action. Indexes are zero-based positions in
// the current snapshot.
type Command interface {
	Name() string
}

type (
	AddPatient      struct{ Intake triage.Intake }
	SortPatients    struct{}
	SelectPatient   struct{ Index int }
	ShowDetail      struct{}
	CloseDetail     struct{}
	RequestDelete   struct{ Index int }
	ConfirmDelete   struct{}
	CancelDelete    struct{}
	DeletePatient   struct{ Index int }
	ReloadFromStore struct{}
)

func (AddPatient) Name() string      { return "add_patient" }
func (SortPatients) Name() string    { return "sort_patients" }
func (SelectPatient) Name() string   { return "select_patient" }
func (ShowDetail) Name() string      { return "show_detail" }
func (CloseDetail) Name() string     { return "close_detail" }
func (RequestDelete) Name() string   { return "request_delete" }
func (ConfirmDelete) Name() string   { return "confirm_delete" }
func (CancelDelete) Name() string    { return "cancel_delete" }
func (DeletePatient) Name() string   { return "delete_patient" }
func (ReloadFromStore) Name() string { return "reload_from_store" }

// Handler applies a command to a snapshot.
type Handler func(ctx context.Context, st State, cmd Command) (State, *outcome.Outcome)

// Middleware wraps a Handler.
type Middleware func(next Handler) Handler

// Handle routes cmd to the matching Service method.
func (s *Service) Handle(ctx context.Context, st State, cmd Command) (State, *outcome.Outcome) {
	switch c := cmd.(type) {
	case AddPatient:
		return s.AddPatient(ctx, st, c.Intake)
	case SortPatients:
		return s.SortPatients(ctx, st)
	case SelectPatient:
		return s.SelectPatient(st, c.Index)
	case ShowDetail:
		return s.ShowDetail(st)
	case CloseDetail:
		return s.CloseDetail(st)
	case RequestDelete:
		return s.RequestDelete(st, c.Index)
	case ConfirmDelete:
		return s.ConfirmDelete(ctx, st)
	case CancelDelete:
		return s.CancelDelete(st)
	case DeletePatient:
		return s.DeletePatient(ctx, st, c.Index)
	case ReloadFromStore:
		return s.Reload(ctx)
	default:
		return st, outcome.New().Error(outcome.CodeProcessing, "unsupported command %T", cmd)
	}
}

// Dispatcher sends commands through a middleware chain to a Service.
type Dispatcher struct {
	handler Handler
}

// NewDispatcher builds the chain; the first middleware is the outermost.
func NewDispatcher(svc *Service, mws ...Middleware) *Dispatcher {
	h := Handler(svc.Handle)
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return &Dispatcher{handler: h}
}

func (d *Dispatcher) Dispatch(ctx context.Context, st State, cmd Command) (State, *outcome.Outcome) {
	return d.handler(ctx, st, cmd)
}
