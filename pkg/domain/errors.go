package domain

import "errors"

// ErrNoMatch is returned when no route matches a requested path.
var ErrNoMatch = errors.New("no route matches path")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrAborted is reported when a navigation ends because a hook aborted it.
var ErrAborted = errors.New("navigation aborted")

// ErrNavigationSuperseded is reported when a newer navigation replaced an in-flight one.
var ErrNavigationSuperseded = errors.New("navigation superseded")

// ErrInvalidPath is returned for paths rejected before matching: oversized or not valid UTF-8.
var ErrInvalidPath = errors.New("invalid path")
