package runtime

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ports"
)

// Phase is the position of a transition in its pipeline.
type Phase int

const (
	PhaseCreated Phase = iota
	PhaseReusabilityCheck
	PhaseValidatingDeactivation
	PhaseValidatingActivation
	PhaseCommittingDeactivation
	PhaseCommittingActivation
	PhaseDone
	PhaseAborted
)

var phaseNames = [...]string{
	PhaseCreated:                "created",
	PhaseReusabilityCheck:       "reusability-check",
	PhaseValidatingDeactivation: "validating-deactivation",
	PhaseValidatingActivation:   "validating-activation",
	PhaseCommittingDeactivation: "committing-deactivation",
	PhaseCommittingActivation:   "committing-activation",
	PhaseDone:                   "done",
	PhaseAborted:                "aborted",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Transition moves the view chain from one location to another.
// It is built once per navigation attempt and discarded after it completes or aborts.
type Transition struct {
	To   *domain.Location
	From *domain.Location

	nav      ports.Navigator
	pipeline Pipeline

	logger         *slog.Logger
	hooks          domain.LifecycleHooks
	report         func(error)
	suppressErrors bool

	mu              sync.Mutex
	phase           Phase
	aborted         bool
	started         time.Time
	deactivateQueue []domain.ViewNode
	activateQueue   []*domain.Handler
	reuseQueue      []domain.ViewNode
}

// New creates a transition from the current view chain (root to leaf) towards to.
// from is nil on the first navigation.
func New(nav ports.Navigator, pipeline Pipeline, to, from *domain.Location, views []domain.ViewNode, opts ...Option) (*Transition, error) {
	if nav == nil {
		return nil, fmt.Errorf("transition requires a navigator")
	}
	if pipeline == nil {
		return nil, fmt.Errorf("transition requires a pipeline")
	}
	if to == nil {
		return nil, fmt.Errorf("transition requires a target location")
	}

	t := &Transition{
		To:              to,
		From:            from,
		nav:             nav,
		pipeline:        pipeline,
		logger:          logging.NewNop(),
		deactivateQueue: slices.Clone(views),
		activateQueue:   to.Handlers(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.report == nil {
		t.report = func(err error) {
			t.logger.Error("uncaught error during transition", "to", t.To.Path, "error", err)
		}
	}
	return t, nil
}

// Start runs the pipeline. done is called once, only if the transition is never aborted.
func (t *Transition) Start(done func()) {
	t.mu.Lock()
	if t.phase != PhaseCreated {
		t.mu.Unlock()
		t.logger.Warn("transition started twice", "to", t.To.Path)
		return
	}
	t.phase = PhaseReusabilityCheck
	t.started = time.Now()
	views, handlers := t.deactivateQueue, t.activateQueue
	t.mu.Unlock()

	t.emit(domain.EventTransitionStart, nil)

	reuse, deactivate, activate := t.splitReusable(views, handlers)

	t.mu.Lock()
	t.reuseQueue = reuse
	t.deactivateQueue = deactivate
	t.activateQueue = activate
	t.mu.Unlock()

	t.logger.Debug("transition queues computed",
		"to", t.To.Path, "reuse", len(reuse), "deactivate", len(deactivate), "activate", len(activate))

	t.validate(deactivate, activate, func() {
		t.commit(reuse, deactivate, done)
	})
}

// splitReusable aligns the view chain with the handler chain from the root and keeps
// the longest prefix of pairs the pipeline can reuse, stopping at the first failure.
// The remaining views are returned leaf first, in teardown order.
func (t *Transition) splitReusable(views []domain.ViewNode, handlers []*domain.Handler) (reuse, deactivate []domain.ViewNode, activate []*domain.Handler) {
	i := 0
	for i < len(views) && i < len(handlers) {
		if !t.pipeline.CanReuse(views[i], handlers[i], t) {
			break
		}
		i++
	}

	reuse = slices.Clone(views[:i])
	deactivate = slices.Clone(views[i:])
	slices.Reverse(deactivate)
	activate = slices.Clone(handlers[i:])
	return reuse, deactivate, activate
}

// validate asks every leaving view, then every entering handler, for permission.
func (t *Transition) validate(deactivate []domain.ViewNode, activate []*domain.Handler, done func()) {
	if !t.enter(PhaseValidatingDeactivation) {
		return
	}
	runQueue(t, deactivate, func(view domain.ViewNode, t *Transition, advance func()) {
		t.pipeline.CanDeactivate(view, t, func(any) { advance() })
	}, func() {
		if !t.enter(PhaseValidatingActivation) {
			return
		}
		runQueue(t, activate, func(handler *domain.Handler, t *Transition, advance func()) {
			t.pipeline.CanActivate(handler, t, func(any) { advance() })
		}, done)
	})
}

// commit tears down the leaving views, records the new location, then activates
// the new sub-chain beneath the root-most leaving view.
func (t *Transition) commit(reuse, deactivate []domain.ViewNode, done func()) {
	if !t.enter(PhaseCommittingDeactivation) {
		return
	}
	runQueue(t, deactivate, func(view domain.ViewNode, t *Transition, advance func()) {
		t.pipeline.Deactivate(view, t, func(any) { advance() })
	}, func() {
		if !t.enter(PhaseCommittingActivation) {
			return
		}

		t.nav.Commit(t.To)
		t.emit(domain.EventTransitionCommit, nil)

		for _, view := range reuse {
			t.pipeline.Reuse(view, t)
		}

		var finished sync.Once
		finish := func() {
			finished.Do(func() {
				t.mu.Lock()
				if t.phase == PhaseCommittingActivation {
					t.phase = PhaseDone
				}
				t.mu.Unlock()
				t.emit(domain.EventTransitionComplete, nil)
				if done != nil {
					done()
				}
			})
		}

		if len(deactivate) == 0 {
			finish()
			return
		}
		t.pipeline.Activate(deactivate[len(deactivate)-1], t, len(reuse), finish)
	})
}

// enter moves the transition to phase unless it was aborted.
func (t *Transition) enter(phase Phase) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.aborted {
		return false
	}
	t.phase = phase
	return true
}

// Phase reports where the transition currently is.
func (t *Transition) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase
}

// Aborted reports whether Abort, Redirect or Cancel was called.
func (t *Transition) Aborted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.aborted
}

// Reused returns the view nodes kept in place, root first.
func (t *Transition) Reused() []domain.ViewNode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.reuseQueue)
}

// DeactivateQueue returns the views being torn down, leaf first.
// Before Start it is the full view chain, root first.
func (t *Transition) DeactivateQueue() []domain.ViewNode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.deactivateQueue)
}

// ActivateQueue returns the handlers being entered, root first.
func (t *Transition) ActivateQueue() []*domain.Handler {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.activateQueue)
}

// Logger returns the transition's logger, for pipelines.
func (t *Transition) Logger() *slog.Logger {
	return t.logger
}

func (t *Transition) emit(typ domain.EventType, mutate func(*domain.TransitionEvent)) {
	e := &domain.TransitionEvent{
		Timestamp: time.Now(),
		Type:      typ,
		To:        t.To.Path,
	}
	if t.From != nil {
		e.From = t.From.Path
	}
	t.mu.Lock()
	e.Reused = len(t.reuseQueue)
	if !t.started.IsZero() {
		e.Elapsed = e.Timestamp.Sub(t.started)
	}
	t.mu.Unlock()
	if mutate != nil {
		mutate(e)
	}
	t.hooks.Emit(e)
}

// raise surfaces a hook error: always as an event, and asynchronously through
// the error reporter unless errors are suppressed.
func (t *Transition) raise(err error) {
	t.emit(domain.EventHookError, func(e *domain.TransitionEvent) { e.Err = err })
	if t.suppressErrors {
		t.logger.Debug("suppressed transition error", "to", t.To.Path, "error", err)
		return
	}
	go t.report(err)
}
