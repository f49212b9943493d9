package mail

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/campuswatch/campuswatch/pkg/metrics"
)

func TestQueueMetricsIncrement(t *testing.T) {
	q := NewQueue(&fakeSender{}, testLogger(t), 3, 10, 10)

	before := testutil.ToFloat64(metrics.MailQueued.WithLabelValues("smtp.test"))
	assert.NoError(t, q.Enqueue("CMP-12345", []string{"a@example.org"}, "s", "b"))
	after := testutil.ToFloat64(metrics.MailQueued.WithLabelValues("smtp.test"))

	assert.Equal(t, before+1, after)
}
