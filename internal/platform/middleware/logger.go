package middleware

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/HoangSama213/hospital/internal/domain/queue"
	"github.com/HoangSama213/hospital/internal/platform/outcome"
)

type ctxKey struct{}

// CommandIDFromContext returns the ID assigned by CommandID, or "".
func CommandIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// CommandID tags every dispatched command with a fresh UUID so that all log
// lines it produces can be correlated.
func CommandID() queue.Middleware {
	return func(next queue.Handler) queue.Handler {
		return func(ctx context.Context, st queue.State, cmd queue.Command) (queue.State, *outcome.Outcome) {
			if CommandIDFromContext(ctx) == "" {
				ctx = context.WithValue(ctx, ctxKey{}, uuid.New().String())
			}
			return next(ctx, st, cmd)
		}
	}
}

func Logger(logger zerolog.Logger) queue.Middleware {
	return func(next queue.Handler) queue.Handler {
		return func(ctx context.Context, st queue.State, cmd queue.Command) (queue.State, *outcome.Outcome) {
			start := time.Now()

			res, out := next(ctx, st, cmd)

			evt := logger.Info()
			issues := 0
			if out != nil {
				issues = len(out.Issues)
				switch out.Worst() {
				case outcome.SeverityFatal, outcome.SeverityError:
					evt = logger.Error()
				case outcome.SeverityWarning:
					evt = logger.Warn()
				}
			}
			evt.
				Str("command_id", CommandIDFromContext(ctx)).
				Str("command", cmd.Name()).
				Int("queue_len", res.Len()).
				Int("issues", issues).
				Dur("latency", time.Since(start)).
				Msg("command")

			return res, out
		}
	}
}
