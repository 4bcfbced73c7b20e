// Package optimistic implements the two-phase update used by every pipeline
// action: patch local state, confirm with the backend, and on rejection
// replace local state with an authoritative fetch.
package optimistic

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoReconcile is returned when an Op has no way to recover from a failed commit
var ErrNoReconcile = errors.New("optimistic op has no reconcile step")

// Op describes one optimistic operation
type Op struct {
	// Apply patches local state; it must not block
	Apply func()
	// Commit sends the confirming request
	Commit func(ctx context.Context) error
	// Reconcile reloads authoritative state after a failed commit
	Reconcile func(ctx context.Context) error
}

// Do runs op. On commit failure the returned error wraps the commit error
// and, if reloading also failed, the reconcile error.
func Do(ctx context.Context, op Op) error {
	if op.Commit == nil {
		return errors.New("optimistic op has no commit step")
	}
	if op.Reconcile == nil {
		return ErrNoReconcile
	}

	if op.Apply != nil {
		op.Apply()
	}

	commitErr := op.Commit(ctx)
	if commitErr == nil {
		return nil
	}

	if err := op.Reconcile(ctx); err != nil {
		return errors.Join(commitErr, fmt.Errorf("reload after failed update: %w", err))
	}
	return commitErr
}
