package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/muesli/termenv"
)

// Trace prints transition events as they happen, one line each.
type Trace struct {
	mu      sync.Mutex
	out     io.Writer
	profile termenv.Profile
}

// NewTrace writes to w, colored when w is a terminal.
func NewTrace(w io.Writer) *Trace {
	return &Trace{out: w, profile: profileFor(w)}
}

func (t *Trace) line(color, symbol, format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	mark := t.profile.String(symbol).Foreground(t.profile.Color(color)).Bold()
	fmt.Fprintf(t.out, "%s %s\n", mark, fmt.Sprintf(format, args...))
}

// Hooks renders every lifecycle event.
func (t *Trace) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStart: func(e *domain.TransitionEvent) {
			from := e.From
			if from == "" {
				from = "(none)"
			}
			t.line("#818cf8", "→", "%s ⇢ %s", from, e.To)
		},
		OnCommit: func(e *domain.TransitionEvent) {
			t.line("#a78bfa", "•", "commit %s (reused %d)", e.To, e.Reused)
		},
		OnComplete: func(e *domain.TransitionEvent) {
			t.line("#22c55e", "✓", "%s in %s", e.To, e.Elapsed)
		},
		OnAbort: func(e *domain.TransitionEvent) {
			t.line("#f59e0b", "✗", "%s aborted, back to %s", e.To, e.Target)
		},
		OnRedirect: func(e *domain.TransitionEvent) {
			t.line("#38bdf8", "↪", "%s redirected to %s", e.To, e.Target)
		},
		OnHookError: func(e *domain.TransitionEvent) {
			t.line("#ef4444", "!", "%v", e.Err)
		},
	}
}
