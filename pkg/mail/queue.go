/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package mail

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/campuswatch/campuswatch/pkg/metrics"
)

// maxBackoffMs caps the retry delay at 30 minutes.
const maxBackoffMs = 1800000

// QueueItem is a single notification waiting to be delivered. The case
// ID it was enqueued under is kept for log correlation.
type QueueItem struct {
	ID        string
	Receivers []string
	Subject   string
	Body      string
	Attempt   int
	CreatedAt time.Time
	NextRetry time.Time
	Succeeded bool
}

// Queue delivers notifications asynchronously. Failed sends are retried
// with exponential backoff so a flapping SMTP relay does not lose
// escalation notices.
type Queue struct {
	sender           Sender
	queue            chan *QueueItem
	log              *zap.SugaredLogger
	maxRetries       int
	initialBackoffMs int
	maxQueueSize     int
	wg               sync.WaitGroup
	ctx              context.Context
	cancel           context.CancelFunc
}

func NewQueue(sender Sender, log *zap.SugaredLogger, maxRetries, initialBackoffMs, maxQueueSize int) *Queue {
	if maxRetries <= 0 {
		maxRetries = 5
	}
	if initialBackoffMs <= 0 {
		initialBackoffMs = 10000
	}
	if maxQueueSize <= 0 {
		maxQueueSize = 1000
	}

	log.Infow("Initializing notification queue",
		"maxRetries", maxRetries,
		"initialBackoffMs", initialBackoffMs,
		"maxQueueSize", maxQueueSize)

	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		sender:           sender,
		queue:            make(chan *QueueItem, maxQueueSize),
		log:              log,
		maxRetries:       maxRetries,
		initialBackoffMs: initialBackoffMs,
		maxQueueSize:     maxQueueSize,
		ctx:              ctx,
		cancel:           cancel,
	}
}

// Start launches the delivery worker.
func (q *Queue) Start() {
	q.wg.Add(1)
	go q.worker()
	q.log.Info("Notification queue worker started")
}

// Enqueue schedules a notification for delivery. It fails when the
// receiver list is empty, the queue is full, or the queue is shutting
// down; callers treat all three as non-fatal since notifications are
// best effort.
func (q *Queue) Enqueue(id string, receivers []string, subject, body string) error {
	host := q.sender.GetHost()

	if len(receivers) == 0 {
		q.log.Errorw("Refusing to enqueue notification without receivers",
			"id", id, "subject", subject)
		metrics.MailQueueDropped.WithLabelValues(host).Inc()
		return fmt.Errorf("cannot enqueue email with no receivers")
	}

	if q.ctx.Err() != nil {
		q.log.Errorw("Cannot enqueue, queue is shutting down", "id", id)
		metrics.MailQueueDropped.WithLabelValues(host).Inc()
		return fmt.Errorf("queue is shutting down")
	}

	now := time.Now()
	item := &QueueItem{
		ID:        id,
		Receivers: receivers,
		Subject:   subject,
		Body:      body,
		CreatedAt: now,
		NextRetry: now,
	}

	select {
	case q.queue <- item:
		metrics.MailQueued.WithLabelValues(host).Inc()
		q.log.Debugw("Notification queued",
			"id", id, "receivers", len(receivers), "subject", subject)
		return nil
	case <-q.ctx.Done():
		q.log.Errorw("Cannot enqueue, queue is shutting down", "id", id)
		metrics.MailQueueDropped.WithLabelValues(host).Inc()
		return fmt.Errorf("queue is shutting down")
	default:
		metrics.MailQueueDropped.WithLabelValues(host).Inc()
		q.log.Errorw("Notification queue is full, dropping message",
			"id", id, "receivers", len(receivers), "queueSize", q.maxQueueSize)
		return fmt.Errorf("mail queue is full (capacity: %d)", q.maxQueueSize)
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			q.log.Errorw("panic in notification worker recovered", "panic", r)
			metrics.MailFailed.WithLabelValues(q.sender.GetHost()).Inc()
			q.wg.Add(1)
			go q.worker()
		}
	}()

	var waiting []*QueueItem
	retryTick := time.NewTicker(50 * time.Millisecond)
	defer retryTick.Stop()

	for {
		select {
		case <-q.ctx.Done():
			q.log.Info("Notification queue worker shutting down")
			q.drain(waiting)
			return

		case item := <-q.queue:
			if item == nil {
				continue
			}
			q.deliver(item)
			if q.retryable(item) {
				waiting = append(waiting, item)
			}

		case <-retryTick.C:
			now := time.Now()
			kept := waiting[:0]
			for _, item := range waiting {
				if !item.Succeeded && now.After(item.NextRetry) {
					q.deliver(item)
				}
				if q.retryable(item) {
					kept = append(kept, item)
				}
			}
			waiting = kept
		}
	}
}

func (q *Queue) retryable(item *QueueItem) bool {
	return !item.Succeeded && item.Attempt < q.maxRetries
}

// deliver makes one send attempt and schedules the next retry on
// failure.
func (q *Queue) deliver(item *QueueItem) {
	item.Attempt++
	host := q.sender.GetHost()

	q.log.Infow("Delivering queued notification",
		"id", item.ID,
		"attempt", item.Attempt,
		"receivers", len(item.Receivers))

	if err := q.sender.Send(item.Receivers, item.Subject, item.Body); err != nil {
		if item.Attempt < q.maxRetries {
			backoffMs := q.calculateBackoff(item.Attempt)
			item.NextRetry = time.Now().Add(time.Duration(backoffMs) * time.Millisecond)
			q.log.Warnw("Notification send failed, scheduling retry",
				"id", item.ID,
				"attempt", item.Attempt,
				"error", err,
				"retryIn", fmt.Sprintf("%dms", backoffMs))
			metrics.MailRetryScheduled.WithLabelValues(host).Inc()
			return
		}
		q.log.Errorw("Notification send failed after all retries",
			"id", item.ID,
			"attempts", item.Attempt,
			"error", err,
			"receivers", item.Receivers,
			"subject", item.Subject)
		metrics.MailFailed.WithLabelValues(host).Inc()
		return
	}

	item.Succeeded = true
	metrics.MailSent.WithLabelValues(host).Inc()
	q.log.Infow("Queued notification sent",
		"id", item.ID,
		"attempt", item.Attempt,
		"receivers", len(item.Receivers),
		"subject", item.Subject)
}

// drain gives every still-pending item one last send attempt before the
// worker exits.
func (q *Queue) drain(items []*QueueItem) {
	q.log.Infow("Draining pending notifications on shutdown", "count", len(items))
	for _, item := range items {
		if item.Attempt < q.maxRetries {
			q.deliver(item)
		}
	}
}

// calculateBackoff doubles the delay per attempt, so with the default
// 10s initial backoff the schedule runs 10s, 20s, 40s and so on up to
// the 30 minute cap.
func (q *Queue) calculateBackoff(attempt int) int {
	backoffMs := int(float64(q.initialBackoffMs) * math.Pow(2, float64(attempt-1)))
	if backoffMs > maxBackoffMs {
		backoffMs = maxBackoffMs
	}
	return backoffMs
}

// Stop cancels the worker and waits for it to drain, bounded by ctx.
func (q *Queue) Stop(ctx context.Context) error {
	q.log.Info("Stopping notification queue")
	q.cancel()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.log.Info("Notification queue stopped")
		return nil
	case <-ctx.Done():
		q.log.Warn("Notification queue shutdown timed out")
		return ctx.Err()
	}
}

// Length reports how many items are buffered in the channel. Items in
// the retry list are not counted.
func (q *Queue) Length() int {
	return len(q.queue)
}
