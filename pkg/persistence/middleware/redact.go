package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ports"
)

// Mask replaces redacted query values.
const Mask = "***"

type redactMiddleware struct {
	next     ports.LocationStore
	patterns []*regexp.Regexp
}

// NewRedactMiddleware masks query values whose keys match any of the patterns
// before the location reaches the store. A restored session therefore navigates
// with masked values, e.g. ?token=***.
func NewRedactMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.LocationStore) ports.LocationStore {
		return &redactMiddleware{next: next, patterns: patterns}
	}
}

func (m *redactMiddleware) Save(ctx context.Context, sessionID string, loc *domain.Location) error {
	// The caller's location is shared with the router; mask a copy.
	cloned := loc.Clone()
	for k := range cloned.Query {
		for _, p := range m.patterns {
			if p.MatchString(k) {
				cloned.Query[k] = Mask
				break
			}
		}
	}
	return m.next.Save(ctx, sessionID, cloned)
}

func (m *redactMiddleware) Load(ctx context.Context, sessionID string) (*domain.Location, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *redactMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
