package ports

import (
	"github.com/aretw0/waypoint/pkg/domain"
)

// Navigator is the navigation system that owns a transition.
// A transition calls back into it at the commit point and when a hook aborts or redirects.
type Navigator interface {
	// Go starts a new navigation to path. It is called at most once per transition,
	// by the first Abort or Redirect.
	Go(path string)

	// Commit records loc as the current location. It marks the commit point of a transition.
	Commit(loc *domain.Location)
}
