// Package middleware wraps a ports.LocationStore with storage-side concerns.
package middleware

import "github.com/aretw0/waypoint/pkg/ports"

// Middleware allows wrapping a LocationStore to add behavior.
type Middleware func(ports.LocationStore) ports.LocationStore

// Chain applies mws to store, the first one outermost.
func Chain(store ports.LocationStore, mws ...Middleware) ports.LocationStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
