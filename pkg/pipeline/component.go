package pipeline

import (
	"github.com/aretw0/waypoint/internal/runtime"
	"github.com/aretw0/waypoint/pkg/domain"
)

// Component is a view definition with optional transition hooks.
// Every hook is optional; a missing validation hook allows the step.
type Component struct {
	Name string

	// CanReuse decides whether an outlet already showing this component may keep it
	// when the component is matched again. nil means always.
	CanReuse func(to, from *domain.Location) bool

	// CanActivate and CanDeactivate gate the transition. They may answer with Bool.
	CanActivate   runtime.Hook
	CanDeactivate runtime.Hook

	// Activate and Deactivate run when the component enters or leaves an outlet.
	// Activate runs after the commit point.
	Activate   runtime.Hook
	Deactivate runtime.Hook

	// Data loads the outlet's data after activation and on every reuse.
	// The payload passed to Next (or the resolved value) becomes Outlet.Data.
	Data runtime.Hook

	// WaitForData delays the activation of nested outlets until Data settles.
	WaitForData bool
}

func componentOf(h *domain.Handler) *Component {
	if h == nil {
		return nil
	}
	c, _ := h.Component.(*Component)
	return c
}

func sameComponent(a, b *domain.Handler) bool {
	if a == nil || b == nil {
		return false
	}
	ca, cb := componentOf(a), componentOf(b)
	if ca != nil || cb != nil {
		return ca == cb
	}
	return a.Name == b.Name
}
