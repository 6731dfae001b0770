package runtime

import (
	"github.com/aretw0/waypoint/pkg/domain"
)

// Abort cancels the transition and navigates back to the location it started from,
// or to "/" on a first navigation. Only the first Abort, Redirect or Cancel has an effect.
func (t *Transition) Abort() {
	if !t.markAborted() {
		return
	}
	target := "/"
	if t.From != nil && t.From.Path != "" {
		target = t.From.Path
	}
	t.logger.Debug("transition aborted", "to", t.To.Path, "back_to", target)
	t.emit(domain.EventTransitionAbort, func(e *domain.TransitionEvent) { e.Target = target })
	t.nav.Go(target)
}

// Redirect cancels the transition and navigates to path instead.
// ":name" and "{name}" placeholders in path are filled from the target's params,
// and the target's query is carried over.
func (t *Transition) Redirect(path string) {
	if !t.markAborted() {
		return
	}
	target := domain.MapParams(path, t.To.Params, t.To.Query)
	t.logger.Debug("transition redirected", "to", t.To.Path, "redirect", target)
	t.emit(domain.EventTransitionRedirect, func(e *domain.TransitionEvent) { e.Target = target })
	t.nav.Go(target)
}

// Cancel stops the transition without navigating anywhere.
// The router uses it when a newer navigation supersedes this one.
// It reports whether this call was the one that stopped the transition.
func (t *Transition) Cancel() bool {
	return t.markAborted()
}

func (t *Transition) markAborted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.aborted || t.phase == PhaseDone {
		return false
	}
	t.aborted = true
	t.phase = PhaseAborted
	return true
}
