package router

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/internal/runtime"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/pipeline"
	"github.com/aretw0/waypoint/pkg/ports"
)

// DefaultMaxRedirects bounds chains of abort/redirect re-navigations.
const DefaultMaxRedirects = 10

// Matcher resolves a path to a Location. *matcher.Table implements it.
type Matcher interface {
	Match(path string) (*domain.Location, error)
}

// Outcome reports how a Navigate call settled.
type Outcome struct {
	// Requested is the path passed to Navigate.
	Requested string
	// Completed is true when the requested transition itself reached the done phase.
	Completed bool
	// Location is the router's current location once all follow-up navigations settled.
	Location *domain.Location
}

// Err returns domain.ErrAborted when the requested transition did not complete.
func (o *Outcome) Err() error {
	if o.Completed {
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrAborted, o.Requested)
}

// Router is the navigation system: it owns the current location and the view chain,
// and runs one transition per navigation.
type Router struct {
	matcher  Matcher
	pipeline runtime.Pipeline
	views    func() []domain.ViewNode
	root     *pipeline.Outlet

	store     ports.LocationStore
	sessionID string

	logger         *slog.Logger
	hooks          domain.LifecycleHooks
	reporter       func(error)
	suppressErrors bool
	maxRedirects   int

	mu      sync.Mutex
	current *domain.Location
	active  *runtime.Transition
	idle    chan struct{}
}

// New creates a Router over m. Without WithPipeline it uses the default
// component pipeline rooted at a fresh Outlet.
func New(m Matcher, opts ...Option) (*Router, error) {
	if m == nil {
		return nil, fmt.Errorf("router requires a matcher")
	}
	r := &Router{
		matcher:      m,
		logger:       logging.NewNop(),
		maxRedirects: DefaultMaxRedirects,
		idle:         closedChan(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.pipeline == nil {
		r.root = pipeline.NewRoot()
		r.pipeline = pipeline.New(pipeline.WithLogger(r.logger))
		r.views = r.root.Chain
	}
	if r.views == nil {
		return nil, fmt.Errorf("router requires a view source for a custom pipeline")
	}
	if r.store != nil && r.sessionID == "" {
		return nil, fmt.Errorf("router requires a session id when a store is configured")
	}
	return r, nil
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// Root is the top outlet of the default pipeline, or nil with a custom pipeline.
func (r *Router) Root() *pipeline.Outlet {
	return r.root
}

// Current returns the last committed location, or nil before the first commit.
func (r *Router) Current() *domain.Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current.Clone()
}

// Pending returns the in-flight transition, or nil when the router is idle.
func (r *Router) Pending() *runtime.Transition {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Go starts a navigation to path without waiting for it to settle.
// An in-flight transition is cancelled.
func (r *Router) Go(path string) error {
	_, err := r.begin(path, 0, nil)
	return err
}

// Navigate starts a navigation to path and waits until the router is idle again,
// following any aborts and redirects the transition triggers.
func (r *Router) Navigate(ctx context.Context, path string) (*Outcome, error) {
	tr, err := r.begin(path, 0, nil)
	if err != nil {
		return nil, err
	}
	if err := r.Wait(ctx); err != nil {
		return nil, err
	}
	return &Outcome{
		Requested: path,
		Completed: tr.Phase() == runtime.PhaseDone,
		Location:  r.Current(),
	}, nil
}

// Wait blocks until no transition is in flight or ctx is done.
func (r *Router) Wait(ctx context.Context) error {
	r.mu.Lock()
	idle := r.idle
	r.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Restore navigates to the location last committed for the router's session.
// It returns domain.ErrSessionNotFound when nothing was stored.
func (r *Router) Restore(ctx context.Context) (*Outcome, error) {
	if r.store == nil {
		return nil, fmt.Errorf("router has no location store")
	}
	loc, err := r.store.Load(ctx, r.sessionID)
	if err != nil {
		return nil, err
	}
	return r.Navigate(ctx, loc.FullPath())
}

// begin matches path and starts its transition. parent is the transition whose
// abort or redirect requested this navigation, if any.
func (r *Router) begin(path string, depth int, parent *runtime.Transition) (*runtime.Transition, error) {
	to, err := r.matcher.Match(path)
	if err != nil {
		r.settleFailed(parent)
		return nil, fmt.Errorf("navigate to %s: %w", path, err)
	}
	if depth > r.maxRedirects {
		r.settleFailed(parent)
		return nil, fmt.Errorf("navigate to %s: more than %d redirects", path, r.maxRedirects)
	}

	nav := &navigator{router: r, depth: depth}
	opts := []runtime.Option{
		runtime.WithLogger(r.logger),
		runtime.WithLifecycleHooks(r.hooks),
		runtime.WithSuppressErrors(r.suppressErrors),
	}
	if r.reporter != nil {
		opts = append(opts, runtime.WithErrorReporter(r.reporter))
	}

	r.mu.Lock()
	from := r.current
	views := r.views()
	tr, err := runtime.New(nav, r.pipeline, to, from, views, opts...)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	nav.transition = tr
	previous := r.active
	r.active = tr
	if previous == nil {
		r.idle = make(chan struct{})
	}
	r.mu.Unlock()

	if previous != nil && previous.Cancel() {
		r.logger.Debug("navigation superseded", "from", previous.To.Path, "to", to.Path)
	}

	r.logger.Debug("navigation started", "path", path, "depth", depth)
	tr.Start(func() { r.settle(tr) })
	return tr, nil
}

// settle marks tr as finished if it is still the active transition.
func (r *Router) settle(tr *runtime.Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != tr {
		return
	}
	r.active = nil
	close(r.idle)
}

// settleFailed releases the router when the navigation requested by parent could not start.
func (r *Router) settleFailed(parent *runtime.Transition) {
	if parent == nil {
		return
	}
	r.settle(parent)
}

func (r *Router) commit(loc *domain.Location) {
	r.mu.Lock()
	r.current = loc
	r.mu.Unlock()

	if r.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.store.Save(ctx, r.sessionID, loc); err != nil {
		r.logger.Error("failed to persist location", "session", r.sessionID, "path", loc.Path, "error", err)
	}
}

// navigator is the ports.Navigator handed to one transition.
type navigator struct {
	router     *Router
	transition *runtime.Transition
	depth      int
}

func (n *navigator) Go(path string) {
	// Backing out of the very first navigation would only repeat it.
	if tr := n.transition; tr.From == nil && tr.To.Path == pathOnly(path) {
		n.router.logger.Warn("initial navigation aborted", "path", tr.To.Path)
		n.router.settle(tr)
		return
	}
	if _, err := n.router.begin(path, n.depth+1, n.transition); err != nil {
		n.router.logger.Error("re-navigation failed", "path", path, "error", err)
	}
}

func pathOnly(path string) string {
	p, _, _ := strings.Cut(path, "?")
	return p
}

func (n *navigator) Commit(loc *domain.Location) {
	n.router.commit(loc)
}
