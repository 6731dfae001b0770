package waypoint

import (
	"github.com/aretw0/waypoint/internal/runtime"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/matcher"
	"github.com/aretw0/waypoint/pkg/pipeline"
	"github.com/aretw0/waypoint/pkg/router"
)

// Version is the release of the waypoint library and CLI.
const Version = "0.4.0"

// Hook protocol, re-exported so components can be written outside this module.
type (
	Hook     = runtime.Hook
	Exposed  = runtime.Exposed
	Result   = runtime.Result
	Deferred = runtime.Deferred
)

// Routing types.
type (
	Route     = matcher.Route
	Component = pipeline.Component
	Location  = domain.Location
	Router    = router.Router
	Outcome   = router.Outcome
)

// Bool answers a boolean hook synchronously.
func Bool(ok bool) Result { return runtime.Bool(ok) }

// Resolved is a deferred answer that already settled with value.
func Resolved(value any) Result { return runtime.Resolved(value) }

// Rejected is a deferred answer that already failed with err.
func Rejected(err error) Result { return runtime.Rejected(err) }

// Pending means the hook will call Next, Abort or Redirect on its Exposed later.
func Pending() Result { return runtime.Pending() }

// Defer answers with d, which settles later.
func Defer(d *Deferred) Result { return runtime.Defer(d) }

// NewDeferred creates an unsettled Deferred.
func NewDeferred() *Deferred { return runtime.NewDeferred() }

// New compiles routes and returns a Router using the default component pipeline.
func New(routes []Route, opts ...router.Option) (*Router, error) {
	table, err := matcher.New(routes...)
	if err != nil {
		return nil, err
	}
	return router.New(table, opts...)
}
