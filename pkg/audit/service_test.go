package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campuswatch/campuswatch/pkg/config"
)

func TestServiceEmitFillsDefaults(t *testing.T) {
	sink := &captureSink{}
	svc := NewServiceWithSink(sink, zap.NewNop())

	svc.Emit(context.Background(), Event{
		Type:   EventCaseEscalated,
		Actor:  Actor{User: "user123"},
		Target: Target{Kind: "case", Name: "CMP-12345"},
	})

	require.Equal(t, 1, sink.count())
	event := sink.events[0]
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.Timestamp.IsZero())
	assert.Equal(t, SeverityInfo, event.Severity)
}

func TestServiceEmitKeepsExplicitSeverity(t *testing.T) {
	sink := &captureSink{}
	svc := NewServiceWithSink(sink, zap.NewNop())

	svc.Emit(context.Background(), Event{
		Type:     EventCaseTracked,
		Severity: SeverityCritical,
	})

	require.Equal(t, 1, sink.count())
	assert.Equal(t, SeverityCritical, sink.events[0].Severity)
}

func TestNewServiceLogOnly(t *testing.T) {
	svc := NewService(config.Audit{}, zap.NewNop())
	defer func() { _ = svc.Close() }()

	health := svc.Health()
	require.Len(t, health, 1)
	assert.Equal(t, "log", health[0].Name)

	svc.Emit(context.Background(), Event{
		Type:   EventSystemStartup,
		Target: Target{Kind: "system", Name: "campuswatch"},
	})
}

func TestNewServiceWithKafka(t *testing.T) {
	svc := NewService(config.Audit{
		KafkaBrokers: []string{"localhost:9092"},
		KafkaTopic:   "campuswatch-audit",
	}, zap.NewNop())
	defer func() { _ = svc.Close() }()

	health := svc.Health()
	require.Len(t, health, 2)
	assert.Equal(t, "log", health[0].Name)
	assert.Equal(t, "kafka", health[1].Name)
}
