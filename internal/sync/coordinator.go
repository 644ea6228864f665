// ABOUTME: Generic optimistic local-first mutation protocol.
// ABOUTME: Writes locally first, then tries the server and reconciles on success.
package sync

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// State is the outcome of one mutation.
type State int

const (
	// LocalPending means the local write happened and the server was not yet consulted.
	LocalPending State = iota
	// ServerConfirmed means the server accepted the mutation.
	ServerConfirmed
	// LocalOnly means the local value stands without server confirmation.
	LocalOnly
)

func (s State) String() string {
	switch s {
	case LocalPending:
		return "local_pending"
	case ServerConfirmed:
		return "server_confirmed"
	case LocalOnly:
		return "local_only"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Op names the kind of mutation.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Mutation describes one optimistic change.
//
// Local writes the change to the local store and returns the local value.
// Remote, when set, sends the change to the server. Reconcile, when set,
// folds the server reply into the local store (for example replacing a
// placeholder ID). Refresh, when set, runs after server confirmation.
type Mutation[L, R any] struct {
	Key       string
	Op        Op
	Local     func(ctx context.Context) (L, error)
	Remote    func(ctx context.Context, local L) (R, error)
	Reconcile func(ctx context.Context, local L, remote R) (L, error)
	Refresh   func(ctx context.Context)
}

// Result is the value and final state of an applied mutation.
// RemoteErr records a swallowed server failure and is informational only.
type Result[L any] struct {
	Value     L
	State     State
	RemoteErr error
}

// Coordinator applies mutations under a shared policy.
//
// Concurrent mutations of the same key are not ordered unless the
// coordinator is built WithSerializedKeys; otherwise the last local
// write wins.
type Coordinator struct {
	auth   AuthState
	logger *log.Logger
	locks  *keyLocks
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithSerializedKeys serializes mutations that share a Key.
func WithSerializedKeys() CoordinatorOption {
	return func(c *Coordinator) {
		c.locks = newKeyLocks()
	}
}

// NewCoordinator creates a Coordinator. A nil auth is never authenticated.
func NewCoordinator(auth AuthState, logger *log.Logger, opts ...CoordinatorOption) *Coordinator {
	if auth == nil {
		auth = StaticAuth(false)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &Coordinator{auth: auth, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticated reports whether remote calls will be attempted.
func (c *Coordinator) Authenticated() bool {
	return c.auth.IsAuthenticated()
}

// Apply runs m through the local-first protocol.
//
// A local write error is returned. A remote error is logged and kept in
// Result.RemoteErr with State LocalOnly; the local value is never rolled back.
// An error writing the reconciled value locally is returned.
func Apply[L, R any](ctx context.Context, c *Coordinator, m Mutation[L, R]) (Result[L], error) {
	if c.locks != nil && m.Key != "" {
		unlock := c.locks.lock(m.Key)
		defer unlock()
	}

	local, err := m.Local(ctx)
	if err != nil {
		return Result[L]{State: LocalPending}, fmt.Errorf("%s %s: %w", m.Op, m.Key, err)
	}
	res := Result[L]{Value: local, State: LocalPending}

	if m.Remote == nil || !c.auth.IsAuthenticated() {
		res.State = LocalOnly
		return res, nil
	}

	remote, err := m.Remote(ctx, local)
	if err != nil {
		c.logger.Warn("remote mutation failed, keeping local value", "op", m.Op, "key", m.Key, "err", err)
		res.State = LocalOnly
		res.RemoteErr = err
		return res, nil
	}

	if m.Reconcile != nil {
		reconciled, err := m.Reconcile(ctx, local, remote)
		if err != nil {
			res.State = LocalOnly
			return res, fmt.Errorf("%s %s: reconcile: %w", m.Op, m.Key, err)
		}
		res.Value = reconciled
	}

	res.State = ServerConfirmed
	c.logger.Debug("mutation confirmed", "op", m.Op, "key", m.Key)

	if m.Refresh != nil {
		m.Refresh(ctx)
	}
	return res, nil
}
