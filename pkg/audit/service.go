package audit

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campuswatch/campuswatch/pkg/config"
)

// Service is the audit entry point used by the rest of the application.
// It assigns IDs and timestamps and fans events out to the configured
// sinks through a non-blocking queue.
type Service struct {
	sink   Sink
	logger *zap.Logger
	queued []*QueuedSink
}

// NewService builds the audit pipeline from configuration. A log sink is
// always active; a Kafka sink is added when brokers and a topic are
// configured.
func NewService(cfg config.Audit, logger *zap.Logger) *Service {
	svc := &Service{logger: logger.Named("audit")}

	qsCfg := DefaultQueuedSinkConfig()
	if cfg.QueueSize > 0 {
		qsCfg.QueueSize = cfg.QueueSize
	}

	logQueued := NewQueuedSink(NewLogSink(logger), qsCfg, logger)
	svc.queued = append(svc.queued, logQueued)
	sinks := []Sink{logQueued}

	if cfg.KafkaTopic != "" && len(cfg.KafkaBrokers) > 0 {
		kafkaCfg := KafkaSinkConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaTopic,
			SASLUser:     cfg.SASLUser,
			SASLPassword: cfg.SASLPassword,
		}
		kafkaSink, err := NewKafkaSink(kafkaCfg, logger)
		if err != nil {
			svc.logger.Error("kafka audit sink disabled",
				zap.String("error", err.Error()))
		} else {
			kafkaQueued := NewQueuedSink(kafkaSink, qsCfg, logger)
			svc.queued = append(svc.queued, kafkaQueued)
			sinks = append(sinks, kafkaQueued)
			svc.logger.Info("kafka audit sink enabled",
				zap.String("topic", cfg.KafkaTopic),
				zap.String("brokers", strings.Join(cfg.KafkaBrokers, ",")))
		}
	}

	if len(sinks) == 1 {
		svc.sink = sinks[0]
	} else {
		svc.sink = NewMultiSink(sinks, logger)
	}

	return svc
}

// NewServiceWithSink builds a Service around a caller-provided sink.
// Used by tests and by components that manage their own pipeline.
func NewServiceWithSink(sink Sink, logger *zap.Logger) *Service {
	return &Service{sink: sink, logger: logger.Named("audit")}
}

// Emit records a single audit event. Missing ID, timestamp and severity
// are filled in. Emit never blocks request handling; failures surface as
// metrics and log lines from the sinks.
func (s *Service) Emit(ctx context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Severity == "" {
		event.Severity = SeverityForEventType(event.Type)
	}

	if err := s.sink.Write(ctx, &event); err != nil {
		s.logger.Warn("audit event not recorded",
			zap.String("event_type", string(event.Type)),
			zap.String("error", err.Error()))
	}
}

// Health reports the health of all queued sinks in the pipeline.
func (s *Service) Health() []QueuedSinkHealth {
	out := make([]QueuedSinkHealth, 0, len(s.queued))
	for _, qs := range s.queued {
		out = append(out, qs.Health())
	}
	return out
}

// Close drains the queues and shuts down all sinks.
func (s *Service) Close() error {
	return s.sink.Close()
}
