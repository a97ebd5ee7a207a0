package middleware

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/HoangSama213/hospital/internal/domain/queue"
	"github.com/HoangSama213/hospital/internal/platform/outcome"
)

// Recovery turns a panic inside a command into an error outcome and returns
// the input snapshot unchanged.
func Recovery(logger zerolog.Logger) queue.Middleware {
	return func(next queue.Handler) queue.Handler {
		return func(ctx context.Context, st queue.State, cmd queue.Command) (res queue.State, out *outcome.Outcome) {
			defer func() {
				if r := recover(); r != nil {
					var stack [4096]byte
					n := runtime.Stack(stack[:], false)

					logger.Error().
						Str("command_id", CommandIDFromContext(ctx)).
						Str("command", cmd.Name()).
						Str("panic", fmt.Sprintf("%v", r)).
						Str("stack", string(stack[:n])).
						Msg("panic recovered")

					res = st
					out = outcome.New().Add(outcome.SeverityFatal, outcome.CodeException, "internal error")
				}
			}()
			return next(ctx, st, cmd)
		}
	}
}
