package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/waypoint/pkg/domain"
)

// LogHooks writes every lifecycle event to logger. Hook errors are logged at error
// level, aborts and redirects at info, the rest at debug.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	at := func(level slog.Level) func(*domain.TransitionEvent) {
		return func(e *domain.TransitionEvent) {
			attrs := []any{"from", e.From, "to", e.To}
			if e.Target != "" {
				attrs = append(attrs, "target", e.Target)
			}
			if e.Reused > 0 {
				attrs = append(attrs, "reused", e.Reused)
			}
			if e.Elapsed > 0 {
				attrs = append(attrs, "elapsed", e.Elapsed)
			}
			if e.Err != nil {
				attrs = append(attrs, "err", e.Err)
			}
			logger.Log(context.Background(), level, string(e.Type), attrs...)
		}
	}
	return domain.LifecycleHooks{
		OnStart:     at(slog.LevelDebug),
		OnCommit:    at(slog.LevelDebug),
		OnComplete:  at(slog.LevelDebug),
		OnAbort:     at(slog.LevelInfo),
		OnRedirect:  at(slog.LevelInfo),
		OnHookError: at(slog.LevelError),
	}
}
