package runtime

import (
	"log/slog"

	"github.com/aretw0/waypoint/pkg/domain"
)

// Option configures a Transition.
type Option func(*Transition)

// WithLogger sets the structured logger used for protocol warnings and reported errors.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transition) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(t *Transition) {
		t.hooks = hooks
	}
}

// WithErrorReporter sets the sink for hook errors. It is invoked on its own goroutine,
// after the transition has dealt with the failure. The default logs the error.
func WithErrorReporter(report func(error)) Option {
	return func(t *Transition) {
		t.report = report
	}
}

// WithSuppressErrors stops hook errors from reaching the error reporter.
// The transition still aborts or cleans up as usual.
func WithSuppressErrors(suppress bool) Option {
	return func(t *Transition) {
		t.suppressErrors = suppress
	}
}
