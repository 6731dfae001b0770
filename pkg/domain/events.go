package domain

import (
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTransitionStart    EventType = "transition_start"
	EventTransitionCommit   EventType = "transition_commit"
	EventTransitionComplete EventType = "transition_complete"
	EventTransitionAbort    EventType = "transition_abort"
	EventTransitionRedirect EventType = "transition_redirect"
	EventHookError          EventType = "hook_error"
)

// TransitionEvent describes a point in the life of a transition.
type TransitionEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to"`

	// Target is the re-navigation path for abort and redirect events.
	Target string `json:"target,omitempty"`

	// Reused is the number of view nodes kept in place (commit and complete events).
	Reused int `json:"reused,omitempty"`

	// Err is set on hook error events.
	Err error `json:"-"`

	// Elapsed is the time since the transition started (complete, abort and redirect events).
	Elapsed time.Duration `json:"elapsed,omitempty"`
}

// LifecycleHooks defines callbacks for transition observability.
// Every field is optional.
type LifecycleHooks struct {
	OnStart     func(*TransitionEvent)
	OnCommit    func(*TransitionEvent)
	OnComplete  func(*TransitionEvent)
	OnAbort     func(*TransitionEvent)
	OnRedirect  func(*TransitionEvent)
	OnHookError func(*TransitionEvent)
}

// Emit dispatches the event to the matching callback, if any.
func (h LifecycleHooks) Emit(e *TransitionEvent) {
	var fn func(*TransitionEvent)
	switch e.Type {
	case EventTransitionStart:
		fn = h.OnStart
	case EventTransitionCommit:
		fn = h.OnCommit
	case EventTransitionComplete:
		fn = h.OnComplete
	case EventTransitionAbort:
		fn = h.OnAbort
	case EventTransitionRedirect:
		fn = h.OnRedirect
	case EventHookError:
		fn = h.OnHookError
	}
	if fn != nil {
		fn(e)
	}
}

// Merge combines several hook sets; each callback fans out in order.
func Merge(sets ...LifecycleHooks) LifecycleHooks {
	fan := func(pick func(LifecycleHooks) func(*TransitionEvent)) func(*TransitionEvent) {
		var fns []func(*TransitionEvent)
		for _, s := range sets {
			if fn := pick(s); fn != nil {
				fns = append(fns, fn)
			}
		}
		if len(fns) == 0 {
			return nil
		}
		return func(e *TransitionEvent) {
			for _, fn := range fns {
				fn(e)
			}
		}
	}
	return LifecycleHooks{
		OnStart:     fan(func(h LifecycleHooks) func(*TransitionEvent) { return h.OnStart }),
		OnCommit:    fan(func(h LifecycleHooks) func(*TransitionEvent) { return h.OnCommit }),
		OnComplete:  fan(func(h LifecycleHooks) func(*TransitionEvent) { return h.OnComplete }),
		OnAbort:     fan(func(h LifecycleHooks) func(*TransitionEvent) { return h.OnAbort }),
		OnRedirect:  fan(func(h LifecycleHooks) func(*TransitionEvent) { return h.OnRedirect }),
		OnHookError: fan(func(h LifecycleHooks) func(*TransitionEvent) { return h.OnHookError }),
	}
}
