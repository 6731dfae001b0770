package cli

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/router"
)

// JSONWriter writes JSON lines. Hooks may fire from any goroutine, so writes are serialized.
type JSONWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONWriter creates a JSONWriter on w.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{enc: json.NewEncoder(w)}
}

func (j *JSONWriter) write(v any) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.enc.Encode(v)
}

type eventView struct {
	Kind string `json:"kind"`
	*domain.TransitionEvent
	Error string `json:"error,omitempty"`
}

// Hooks writes every transition event as a line of kind "event".
func (j *JSONWriter) Hooks() domain.LifecycleHooks {
	emit := func(e *domain.TransitionEvent) {
		v := eventView{Kind: "event", TransitionEvent: e}
		if e.Err != nil {
			v.Error = e.Err.Error()
		}
		_ = j.write(v)
	}
	return domain.LifecycleHooks{
		OnStart:     emit,
		OnCommit:    emit,
		OnComplete:  emit,
		OnAbort:     emit,
		OnRedirect:  emit,
		OnHookError: emit,
	}
}

// Outcome writes the settled result of one navigation as a line of kind "outcome".
func (j *JSONWriter) Outcome(requested string, outcome *router.Outcome, err error) error {
	return j.write(newOutcomeView(requested, outcome, err))
}
