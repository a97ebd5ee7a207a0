package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/HoangSama213/hospital/internal/domain/queue"
	"github.com/HoangSama213/hospital/internal/platform/outcome"
)

// AuditEntry records one change to the stored queue.
type AuditEntry struct {
	Timestamp time.Time `json:"timestamp"`
	CommandID string    `json:"command_id"`
	Command   string    `json:"command"`
	Action    string    `json:"action"` // create, delete, reorder
	Patient   string    `json:"patient,omitempty"`
	Position  int       `json:"position,omitempty"`
	QueueLen  int       `json:"queue_len"`
}

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	RecordChange(entry AuditEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordChange(entry AuditEntry) error {
	return f(entry)
}

// NewFileAuditRecorder appends each entry to path as one JSON line.
func NewFileAuditRecorder(fs afero.Fs, path string) AuditRecorder {
	return AuditRecorderFunc(func(entry AuditEntry) error {
		line, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		f, err := fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open audit log %q: %w", path, err)
		}
		defer f.Close()
		if _, err := f.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("write audit log %q: %w", path, err)
		}
		return nil
	})
}

// Audit emits an entry for every command that changed the store. Failed
// commands and read-only commands are not audited. A structured log line is
// always written; recorders are optional.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) queue.Middleware {
	return func(next queue.Handler) queue.Handler {
		return func(ctx context.Context, st queue.State, cmd queue.Command) (queue.State, *outcome.Outcome) {
			res, out := next(ctx, st, cmd)
			if out != nil && out.HasErrors() {
				return res, out
			}

			entry, ok := auditEntry(ctx, st, res, cmd)
			if !ok {
				return res, out
			}

			for _, r := range recorders {
				if r == nil {
					continue
				}
				if err := r.RecordChange(entry); err != nil {
					logger.Error().Err(err).
						Str("command_id", entry.CommandID).
						Msg("failed to record audit entry")
				}
			}

			logger.Info().
				Str("type", "queue_audit").
				Str("command_id", entry.CommandID).
				Str("command", entry.Command).
				Str("action", entry.Action).
				Str("patient", entry.Patient).
				Int("position", entry.Position).
				Int("queue_len", entry.QueueLen).
				Msg("queue_change")

			return res, out
		}
	}
}

func auditEntry(ctx context.Context, before, after queue.State, cmd queue.Command) (AuditEntry, bool) {
	entry := AuditEntry{
		Timestamp: time.Now().UTC(),
		CommandID: CommandIDFromContext(ctx),
		Command:   cmd.Name(),
		QueueLen:  after.Len(),
	}

	switch c := cmd.(type) {
	case queue.AddPatient:
		if after.Len() <= before.Len() {
			return entry, false
		}
		entry.Action = "create"
		entry.Patient = after.Patients[after.Len()-1].Name
		entry.Position = after.Len()
	case queue.DeletePatient:
		return deleteEntry(entry, before, after, c.Index)
	case queue.ConfirmDelete:
		return deleteEntry(entry, before, after, before.PendingDeleteIndex)
	case queue.SortPatients:
		if after.Len() == 0 {
			return entry, false
		}
		entry.Action = "reorder"
	default:
		return entry, false
	}
	return entry, true
}

func deleteEntry(entry AuditEntry, before, after queue.State, index int) (AuditEntry, bool) {
	if index < 0 || index >= before.Len() || after.Len() >= before.Len() {
		return entry, false
	}
	entry.Action = "delete"
	entry.Patient = before.Patients[index].Name
	entry.Position = index + 1
	return entry, true
}
