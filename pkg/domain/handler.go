package domain

// Handler is a view definition attached to a matched route segment.
// The transition pipeline treats it as opaque; pipelines interpret Component.
type Handler struct {
	// Name identifies the handler, usually the route pattern that declared it.
	Name string `json:"name"`

	// Component is the view definition to instantiate for this segment.
	Component any `json:"-"`

	// Meta carries free-form route metadata.
	Meta map[string]any `json:"meta,omitempty"`
}

// ViewNode is a currently rendered position in the view chain, ordered root to leaf.
// The router owns its lifecycle; transitions only borrow it.
type ViewNode interface {
	// Name identifies the view for logging and diagnostics.
	Name() string
}
