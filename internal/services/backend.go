package services

import (
	"context"
	"errors"
	"fmt"
)

// Backend wraps one text-generation provider behind a uniform contract.
// Implementations construct their client handle once, from configuration;
// a backend that could not construct its handle reports unavailable and
// must not be called.
type Backend interface {
	// Name returns the backend identity used for registry lookup.
	Name() string

	// GenerateResponse sends a fully composed prompt to the provider and
	// returns the generated text, trimmed of surrounding whitespace.
	// Callers must check IsAvailable first.
	GenerateResponse(ctx context.Context, prompt string) (string, error)

	// IsAvailable reports whether the client handle was successfully
	// constructed. It never performs a live probe.
	IsAvailable() bool
}

// ErrBackendUnconfigured is returned when a backend is invoked without a
// usable client handle. It never escapes the narrator boundary.
var ErrBackendUnconfigured = errors.New("backend not configured")

// ErrNoBackendsAvailable is returned by registry initialization when no
// adapter is usable. It is the only fatal error in this package.
var ErrNoBackendsAvailable = errors.New("no AI backends available")

// BackendCallError wraps a provider failure with the backend identity.
type BackendCallError struct {
	Backend string
	Err     error
}

func (e *BackendCallError) Error() string {
	return fmt.Sprintf("backend %s call failed: %v", e.Backend, e.Err)
}

func (e *BackendCallError) Unwrap() error {
	return e.Err
}
