// ABOUTME: Authentication state and sentinel errors for the sync layer.
// ABOUTME: Coordinators consult AuthState before attempting remote calls.
package sync

import "errors"

var (
	// ErrNotAuthenticated is returned by operations that need the server.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrUnknownGym is returned when a gym ID matches no stored gym.
	ErrUnknownGym = errors.New("unknown gym")

	// ErrNoCurrentGym is returned when an operation needs a current gym and none is set.
	ErrNoCurrentGym = errors.New("no current gym")
)

// AuthState reports whether remote calls may be attempted.
type AuthState interface {
	IsAuthenticated() bool
}

// StaticAuth is a fixed AuthState.
type StaticAuth bool

// IsAuthenticated implements AuthState.
func (a StaticAuth) IsAuthenticated() bool {
	return bool(a)
}
