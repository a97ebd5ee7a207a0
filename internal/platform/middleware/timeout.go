package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/HoangSama213/hospital/internal/domain/queue"
	"github.com/HoangSama213/hospital/internal/platform/outcome"
)

// CommandTimeout sets a context deadline on each command. A command that
// failed after its deadline passed reports a timeout issue instead of the
// underlying context error. A non-positive timeout disables the deadline.
func CommandTimeout(timeout time.Duration) queue.Middleware {
	return func(next queue.Handler) queue.Handler {
		return func(ctx context.Context, st queue.State, cmd queue.Command) (queue.State, *outcome.Outcome) {
			if timeout <= 0 {
				return next(ctx, st, cmd)
			}

			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			res, out := next(ctx, st, cmd)
			if out != nil && out.HasErrors() && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return st, outcome.New().Error(outcome.CodeTimeout,
					"%s exceeded the allowed time of %s", cmd.Name(), timeout)
			}
			return res, out
		}
	}
}
