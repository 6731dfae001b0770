package router

import (
	"log/slog"

	"github.com/aretw0/waypoint/internal/runtime"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ports"
)

// Option configures the Router.
type Option func(*Router)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks for every transition.
// Calling it more than once merges the hook sets.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Router) {
		r.hooks = domain.Merge(r.hooks, hooks)
	}
}

// WithPipeline replaces the default component pipeline.
// views must return the live view chain, root first.
func WithPipeline(p runtime.Pipeline, views func() []domain.ViewNode) Option {
	return func(r *Router) {
		r.pipeline = p
		r.views = views
	}
}

// WithStore persists every committed location under sessionID.
func WithStore(store ports.LocationStore, sessionID string) Option {
	return func(r *Router) {
		r.store = store
		r.sessionID = sessionID
	}
}

// WithSuppressErrors keeps hook errors from reaching the error reporter.
func WithSuppressErrors(suppress bool) Option {
	return func(r *Router) {
		r.suppressErrors = suppress
	}
}

// WithErrorReporter sets the asynchronous sink for hook errors.
func WithErrorReporter(report func(error)) Option {
	return func(r *Router) {
		r.reporter = report
	}
}

// WithMaxRedirects bounds chains of re-navigations triggered by aborts and redirects.
func WithMaxRedirects(n int) Option {
	return func(r *Router) {
		r.maxRedirects = n
	}
}
