package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExpirer struct {
	mu    sync.Mutex
	calls []time.Time
	n     int
	err   error
}

func (f *fakeExpirer) ExpirePending(_ context.Context, now time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, now)
	return f.n, f.err
}

func (f *fakeExpirer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestSweepOncePassesClock(t *testing.T) {
	fixed := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	expirer := &fakeExpirer{n: 3}
	s := NewExpirySweeper(expirer, time.Second, zerolog.Nop())
	s.now = func() time.Time { return fixed }

	assert.Equal(t, 3, s.SweepOnce(context.Background()))
	require.Len(t, expirer.calls, 1)
	assert.True(t, expirer.calls[0].Equal(fixed))
}

func TestSweepOnceSwallowsErrors(t *testing.T) {
	s := NewExpirySweeper(&fakeExpirer{err: errors.New("db down")}, time.Second, zerolog.Nop())
	assert.Zero(t, s.SweepOnce(context.Background()))
}

func TestNewExpirySweeperDefaultsInterval(t *testing.T) {
	s := NewExpirySweeper(&fakeExpirer{}, 0, zerolog.Nop())
	assert.Equal(t, time.Minute, s.interval)
}

func TestStartSweepsUntilCancelled(t *testing.T) {
	expirer := &fakeExpirer{}
	s := NewExpirySweeper(expirer, 5*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return expirer.callCount() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
