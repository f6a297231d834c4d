package sync

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

type clock struct{ t atomic.Int64 }

func newClock() *clock {
	c := &clock{}
	c.t.Store(time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC).UnixNano())
	return c
}

func (c *clock) now() time.Time { return time.Unix(0, c.t.Load()) }
func (c *clock) advance(d time.Duration) { c.t.Add(int64(d)) }

func counting(err error) (RefreshFunc, *atomic.Int32) {
	var n atomic.Int32
	return func(context.Context) error {
		n.Add(1)
		return err
	}, &n
}

// ---------------------------------------------------------------------------
// Tick
// ---------------------------------------------------------------------------

func TestTickHonoursQuietPeriod(t *testing.T) {
	c := newClock()
	refresh, calls := counting(nil)
	s := New(refresh, 20*time.Second, 15*time.Second, WithClock(c.now))

	ran, err := s.Tick(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)

	c.advance(10 * time.Second)
	ran, _ = s.Tick(context.Background())
	assert.False(t, ran, "inside the quiet period")
	assert.Equal(t, int32(1), calls.Load())

	c.advance(5 * time.Second)
	ran, _ = s.Tick(context.Background())
	assert.True(t, ran, "exactly at the quiet boundary")
	assert.Equal(t, int32(2), calls.Load())
}

func TestFailedTickDoesNotStamp(t *testing.T) {
	c := newClock()
	refresh, calls := counting(errors.New("node down"))
	s := New(refresh, 20*time.Second, 15*time.Second, WithClock(c.now))

	_, err := s.Tick(context.Background())
	assert.Error(t, err)
	assert.True(t, s.LastSync().IsZero())

	c.advance(time.Second)
	ran, _ := s.Tick(context.Background())
	assert.True(t, ran, "a failure does not open a quiet period")
	assert.Equal(t, int32(2), calls.Load())
}

func TestLastSyncIsTickStart(t *testing.T) {
	c := newClock()
	start := c.now()
	s := New(func(context.Context) error {
		c.advance(3 * time.Second) // slow fetch
		return nil
	}, time.Minute, 15*time.Second, WithClock(c.now))

	_, err := s.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, start.UnixNano(), s.LastSync().UnixNano())
}

func TestReset(t *testing.T) {
	c := newClock()
	refresh, calls := counting(nil)
	s := New(refresh, time.Minute, 15*time.Second, WithClock(c.now))

	s.Tick(context.Background()) //nolint:errcheck
	s.Reset()
	ran, _ := s.Tick(context.Background())
	assert.True(t, ran)
	assert.Equal(t, int32(2), calls.Load())
}

// ---------------------------------------------------------------------------
// Start / Stop
// ---------------------------------------------------------------------------

func TestStartTicksUntilStopped(t *testing.T) {
	refresh, calls := counting(nil)
	s := New(refresh, 5*time.Millisecond, 0)

	s.Start(context.Background())
	s.Start(context.Background()) // no-op
	assert.True(t, s.Running())

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	s.Stop()
	assert.False(t, s.Running())
	after := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, calls.Load(), "no ticks after Stop")

	s.Stop() // stopping twice is fine
}

func TestWatchStopsOnContextCancel(t *testing.T) {
	refresh, _ := counting(nil)
	s := New(refresh, time.Millisecond, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Watch(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return")
	}
}

func TestNoImmediateRun(t *testing.T) {
	refresh, calls := counting(nil)
	s := New(refresh, time.Hour, 0)
	s.Start(context.Background())
	defer s.Stop()

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, calls.Load())
}
