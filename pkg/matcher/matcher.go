// Package matcher resolves request paths to chains of view handlers.
//
// Routes are declared as a tree; every node of the tree contributes one handler to the
// chain of its descendants. Matching is delegated to a chi router, so patterns use chi
// syntax ("{id}", "{id:[0-9]+}", "*"). The ":id" shorthand is accepted and rewritten.
package matcher

import (
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// Route declares a path segment and the view rendered for it.
type Route struct {
	// Path is relative to the parent route; a leading "/" is optional on children.
	Path string `yaml:"path" mapstructure:"path"`
	// Name labels the handler. Defaults to the full pattern.
	Name      string         `yaml:"name" mapstructure:"name"`
	Component any            `yaml:"-" mapstructure:"-"`
	Meta      map[string]any `yaml:"meta" mapstructure:"meta"`
	Children  []Route        `yaml:"children" mapstructure:"children"`
}

// Table is a compiled set of routes. Safe for concurrent use.
type Table struct {
	mu     sync.RWMutex
	mux    *chi.Mux
	chains map[string][]*domain.Handler
}

// New compiles routes into a Table.
func New(routes ...Route) (*Table, error) {
	t := &Table{
		mux:    chi.NewRouter(),
		chains: make(map[string][]*domain.Handler),
	}
	for _, r := range routes {
		if err := t.Add(r); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Add registers r and its children at the root of the table.
func (t *Table) Add(r Route) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.add("", nil, r)
}

func (t *Table) add(prefix string, parent []*domain.Handler, r Route) error {
	pattern := JoinPattern(prefix, r.Path)
	if _, exists := t.chains[pattern]; exists {
		return fmt.Errorf("duplicate route pattern: %s", pattern)
	}

	name := r.Name
	if name == "" {
		name = pattern
	}
	chain := make([]*domain.Handler, len(parent), len(parent)+1)
	copy(chain, parent)
	chain = append(chain, &domain.Handler{Name: name, Component: r.Component, Meta: r.Meta})

	if err := register(t.mux, pattern); err != nil {
		return err
	}
	t.chains[pattern] = chain

	for _, child := range r.Children {
		if err := t.add(pattern, chain, child); err != nil {
			return err
		}
	}
	return nil
}

// register adds pattern to the mux, turning chi's panics on malformed patterns into errors.
func register(mux *chi.Mux, pattern string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid route pattern %q: %v", pattern, r)
		}
	}()
	mux.Get(pattern, func(http.ResponseWriter, *http.Request) {})
	return nil
}

var colonParam = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)

// JoinPattern appends a route path to its parent pattern the way Table.Add does,
// rewriting ":id" placeholders to chi's "{id}".
func JoinPattern(prefix, path string) string {
	path = colonParam.ReplaceAllString(path, "{$1}")
	path = strings.Trim(path, "/")
	prefix = strings.TrimSuffix(prefix, "/")
	switch {
	case path == "" && prefix == "":
		return "/"
	case path == "":
		return prefix
	default:
		return prefix + "/" + path
	}
}

// Match resolves raw (a path with an optional query string) to a Location.
// It returns an error wrapping domain.ErrNoMatch when no route matches.
func (t *Table) Match(raw string) (*domain.Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", raw, err)
	}
	path := u.Path
	if path == "" {
		path = "/"
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	rctx := chi.NewRouteContext()
	if !t.mux.Match(rctx, http.MethodGet, path) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoMatch, path)
	}
	chain, ok := t.chains[rctx.RoutePattern()]
	if !ok {
		return nil, fmt.Errorf("%w: %s (pattern %s)", domain.ErrNoMatch, path, rctx.RoutePattern())
	}

	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		params[key] = rctx.URLParams.Values[i]
	}
	query := make(map[string]string)
	for key, values := range u.Query() {
		if len(values) > 0 {
			query[key] = values[0]
		}
	}

	handlers := make([]*domain.Handler, len(chain))
	copy(handlers, chain)
	return &domain.Location{
		Path:    path,
		Pattern: rctx.RoutePattern(),
		Params:  params,
		Query:   query,
		Matched: handlers,
	}, nil
}

// RouteInfo describes a registered pattern by the handler it ends in.
type RouteInfo struct {
	Pattern string         `json:"pattern"`
	Name    string         `json:"name"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Routes describes the registered patterns in lexical order.
func (t *Table) Routes() []RouteInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]RouteInfo, 0, len(t.chains))
	for pattern, chain := range t.chains {
		leaf := chain[len(chain)-1]
		out = append(out, RouteInfo{Pattern: pattern, Name: leaf.Name, Meta: maps.Clone(leaf.Meta)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pattern < out[j].Pattern })
	return out
}

// Patterns lists the registered patterns in lexical order.
func (t *Table) Patterns() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.chains))
	for p := range t.chains {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
