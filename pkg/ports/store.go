package ports

import (
	"context"

	"github.com/aretw0/waypoint/pkg/domain"
)

// LocationStore defines the interface for persisting the committed location of a session.
// This allows a session to resume at the last committed location after a restart.
type LocationStore interface {
	// Save persists the location for a given session ID.
	Save(ctx context.Context, sessionID string, loc *domain.Location) error

	// Load retrieves the location for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Location, error)

	// Delete removes the location for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
