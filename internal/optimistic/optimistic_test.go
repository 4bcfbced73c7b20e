package optimistic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDoSuccessSkipsReconcile(t *testing.T) {
	var steps []string
	err := Do(context.Background(), Op{
		Apply:     func() { steps = append(steps, "apply") },
		Commit:    func(context.Context) error { steps = append(steps, "commit"); return nil },
		Reconcile: func(context.Context) error { steps = append(steps, "reconcile"); return nil },
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"apply", "commit"}, steps)
}

func TestDoFailureReconciles(t *testing.T) {
	commitErr := errors.New("boom")
	var steps []string
	err := Do(context.Background(), Op{
		Apply:     func() { steps = append(steps, "apply") },
		Commit:    func(context.Context) error { steps = append(steps, "commit"); return commitErr },
		Reconcile: func(context.Context) error { steps = append(steps, "reconcile"); return nil },
	})

	assert.ErrorIs(t, err, commitErr)
	assert.Equal(t, []string{"apply", "commit", "reconcile"}, steps)
}

func TestDoJoinsReconcileError(t *testing.T) {
	commitErr := errors.New("commit failed")
	reloadErr := errors.New("reload failed")

	err := Do(context.Background(), Op{
		Commit:    func(context.Context) error { return commitErr },
		Reconcile: func(context.Context) error { return reloadErr },
	})

	assert.ErrorIs(t, err, commitErr)
	assert.ErrorIs(t, err, reloadErr)
}

func TestDoRequiresReconcile(t *testing.T) {
	applied := false
	err := Do(context.Background(), Op{
		Apply:  func() { applied = true },
		Commit: func(context.Context) error { return nil },
	})

	assert.ErrorIs(t, err, ErrNoReconcile)
	assert.False(t, applied, "nothing is patched when the op is incomplete")
}
