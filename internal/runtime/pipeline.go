package runtime

import (
	"github.com/aretw0/waypoint/pkg/domain"
)

// Pipeline supplies the per-node decisions and actions of a transition.
// Every method except CanReuse and Reuse is expected to route user code
// through Transition.CallHook so aborts and errors are handled uniformly.
type Pipeline interface {
	// CanReuse reports whether view can stay in place to render handler.
	// It is synchronous and must not call hooks that can abort.
	CanReuse(view domain.ViewNode, handler *domain.Handler, t *Transition) bool

	// CanDeactivate decides whether view may be left.
	CanDeactivate(view domain.ViewNode, t *Transition, next Continue)

	// CanActivate decides whether handler may be entered.
	CanActivate(handler *domain.Handler, t *Transition, next Continue)

	// Deactivate tears view down. It runs before the commit point.
	Deactivate(view domain.ViewNode, t *Transition, next Continue)

	// Activate instantiates the remaining handler chain beneath view, which sits at depth
	// in the view chain. It runs after the commit point and must call done exactly once.
	Activate(view domain.ViewNode, t *Transition, depth int, done func())

	// Reuse notifies view that it stays in place for the new location.
	Reuse(view domain.ViewNode, t *Transition)
}
