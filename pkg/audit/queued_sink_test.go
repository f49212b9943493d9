package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func TestQueuedSinkDeliversEvents(t *testing.T) {
	inner := &captureSink{}
	qs := NewQueuedSink(inner, DefaultQueuedSinkConfig(), zap.NewNop())
	defer func() { _ = qs.Close() }()

	for i := 0; i < 5; i++ {
		require.NoError(t, qs.Write(context.Background(), &Event{ID: "evt", Type: EventCaseTracked}))
	}

	waitFor(t, func() bool { return inner.count() == 5 })

	health := qs.Health()
	assert.True(t, health.Healthy)
	assert.Equal(t, int64(5), health.ProcessedEvents)
	assert.Equal(t, int64(0), health.DroppedEvents)
}

func TestQueuedSinkDropsWhenFull(t *testing.T) {
	inner := &captureSink{err: errors.New("stuck")}
	cfg := DefaultQueuedSinkConfig()
	cfg.QueueSize = 1
	cfg.WorkerCount = 1
	cfg.CircuitBreakerThreshold = 1000 // keep the circuit closed for this test
	qs := NewQueuedSink(inner, cfg, zap.NewNop())
	defer func() { _ = qs.Close() }()

	for i := 0; i < 50; i++ {
		_ = qs.Write(context.Background(), &Event{ID: "evt", Type: EventCaseTracked})
	}

	waitFor(t, func() bool { return qs.Health().DroppedEvents > 0 })
}

func TestQueuedSinkCircuitBreaker(t *testing.T) {
	inner := &captureSink{err: errors.New("down")}
	cfg := DefaultQueuedSinkConfig()
	cfg.WorkerCount = 1
	cfg.CircuitBreakerThreshold = 3
	cfg.CircuitBreakerResetTime = time.Hour
	qs := NewQueuedSink(inner, cfg, zap.NewNop())
	defer func() { _ = qs.Close() }()

	for i := 0; i < 10; i++ {
		_ = qs.Write(context.Background(), &Event{ID: "evt", Type: EventCaseEscalated})
	}

	waitFor(t, func() bool { return qs.Health().CircuitOpen })

	health := qs.Health()
	assert.False(t, health.Healthy)
	assert.GreaterOrEqual(t, health.FailedEvents, int64(3))

	// With the circuit open, further writes are dropped without queuing.
	dropped := health.DroppedEvents
	require.NoError(t, qs.Write(context.Background(), &Event{ID: "evt", Type: EventCaseEscalated}))
	assert.Greater(t, qs.Health().DroppedEvents, dropped-1)
}

func TestQueuedSinkCloseDrains(t *testing.T) {
	inner := &captureSink{}
	qs := NewQueuedSink(inner, DefaultQueuedSinkConfig(), zap.NewNop())

	for i := 0; i < 20; i++ {
		require.NoError(t, qs.Write(context.Background(), &Event{ID: "evt", Type: EventCaseResolved}))
	}

	require.NoError(t, qs.Close())
	assert.Equal(t, 20, inner.count())
	assert.True(t, inner.closed)

	err := qs.Write(context.Background(), &Event{ID: "late"})
	assert.Error(t, err)
}

func TestQueuedSinkCloseIdempotent(t *testing.T) {
	qs := NewQueuedSink(&captureSink{}, DefaultQueuedSinkConfig(), zap.NewNop())
	require.NoError(t, qs.Close())
	require.NoError(t, qs.Close())
}
