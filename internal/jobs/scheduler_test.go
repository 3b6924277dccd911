package jobs

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaceBooking/internal/usecase/expire_holds"
	"github.com/m04kA/SMC-SpaceBooking/internal/usecase/reconcile_occupancy"
	"github.com/m04kA/SMC-SpaceBooking/pkg/logger"
)

type expirerFunc func(ctx context.Context) (*expire_holds.Result, error)

func (f expirerFunc) Execute(ctx context.Context) (*expire_holds.Result, error) { return f(ctx) }

type reconcilerFunc func(ctx context.Context) (*reconcile_occupancy.Result, error)

func (f reconcilerFunc) Execute(ctx context.Context) (*reconcile_occupancy.Result, error) {
	return f(ctx)
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func TestScheduler_RunNowInvokesUseCases(t *testing.T) {
	var sweeps, reconciles atomic.Int32
	swept := make(chan struct{}, 1)
	reconciled := make(chan struct{}, 1)

	expirer := expirerFunc(func(ctx context.Context) (*expire_holds.Result, error) {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		sweeps.Add(1)
		notify(swept)
		return &expire_holds.Result{Expired: []int64{1}}, nil
	})
	reconciler := reconcilerFunc(func(ctx context.Context) (*reconcile_occupancy.Result, error) {
		reconciles.Add(1)
		notify(reconciled)
		return nil, errors.New("db down")
	})

	s, err := NewScheduler(expirer, reconciler, Options{
		HoldSweepInterval: time.Hour,
		ReconcileInterval: time.Hour,
	}, logger.NewWriter(io.Discard, "error"))
	require.NoError(t, err)

	s.Start()
	defer func() { require.NoError(t, s.Shutdown()) }()

	require.NoError(t, s.RunNow(HoldSweepJob))
	require.NoError(t, s.RunNow(ReconcileJob))

	for _, ch := range []chan struct{}{swept, reconciled} {
		select {
		case <-ch:
		case <-time.After(5 * time.Second):
			t.Fatal("job did not run")
		}
	}

	assert.GreaterOrEqual(t, sweeps.Load(), int32(1))
	assert.GreaterOrEqual(t, reconciles.Load(), int32(1))
	require.Error(t, s.RunNow("nope"))
}

func TestNewScheduler_RejectsZeroInterval(t *testing.T) {
	_, err := NewScheduler(
		expirerFunc(func(context.Context) (*expire_holds.Result, error) { return &expire_holds.Result{}, nil }),
		reconcilerFunc(func(context.Context) (*reconcile_occupancy.Result, error) { return &reconcile_occupancy.Result{}, nil }),
		Options{HoldSweepInterval: time.Minute},
		logger.NewWriter(io.Discard, "error"),
	)
	require.Error(t, err)
}
