package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureSink struct {
	mu     sync.Mutex
	events []*Event
	err    error
	name   string
	closed bool
}

func (c *captureSink) Write(_ context.Context, event *Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.events = append(c.events, event)
	return nil
}

func (c *captureSink) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *captureSink) Name() string {
	if c.name != "" {
		return c.name
	}
	return "capture"
}

func (c *captureSink) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func (c *captureSink) setErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func TestLogSinkWrite(t *testing.T) {
	sink := NewLogSink(zap.NewNop())

	err := sink.Write(context.Background(), &Event{
		ID:        "evt-1",
		Type:      EventCaseTracked,
		Severity:  SeverityInfo,
		Timestamp: time.Now(),
		Actor:     Actor{User: "user123", Email: "user@example.com"},
		Target:    Target{Kind: "case", Name: "CMP-12345"},
		Details:   map[string]interface{}{"outcome": "found"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "log", sink.Name())
	assert.NoError(t, sink.Close())
}

func TestMultiSinkWritesToAll(t *testing.T) {
	first := &captureSink{name: "first"}
	second := &captureSink{name: "second"}
	multi := NewMultiSink([]Sink{first, second}, zap.NewNop())

	err := multi.Write(context.Background(), &Event{ID: "evt-1", Type: EventCaseResolved})
	require.NoError(t, err)

	assert.Equal(t, 1, first.count())
	assert.Equal(t, 1, second.count())
}

func TestMultiSinkContinuesOnError(t *testing.T) {
	broken := &captureSink{name: "broken", err: errors.New("boom")}
	healthy := &captureSink{name: "healthy"}
	multi := NewMultiSink([]Sink{broken, healthy}, zap.NewNop())

	err := multi.Write(context.Background(), &Event{ID: "evt-1", Type: EventCaseEscalated})

	assert.Error(t, err)
	assert.Equal(t, 1, healthy.count(), "healthy sink should still receive the event")
}

func TestMultiSinkClose(t *testing.T) {
	first := &captureSink{}
	second := &captureSink{}
	multi := NewMultiSink([]Sink{first, second}, zap.NewNop())

	require.NoError(t, multi.Close())
	assert.True(t, first.closed)
	assert.True(t, second.closed)
}

func TestSeverityForEventType(t *testing.T) {
	tests := []struct {
		eventType EventType
		want      Severity
	}{
		{EventCaseTracked, SeverityInfo},
		{EventCaseResolved, SeverityInfo},
		{EventComplaintSubmitted, SeverityInfo},
		{EventCaseTrackDenied, SeverityWarning},
		{EventEscalationDenied, SeverityWarning},
		{EventComplaintRejected, SeverityWarning},
		{EventEvidenceFailed, SeverityCritical},
		{EventAuditDropped, SeverityCritical},
	}

	for _, tc := range tests {
		t.Run(string(tc.eventType), func(t *testing.T) {
			assert.Equal(t, tc.want, SeverityForEventType(tc.eventType))
		})
	}
}
