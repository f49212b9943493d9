package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Case workflow metrics
	CasesTracked = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campuswatch_cases_tracked_total",
		Help: "Total number of case lookups, grouped by outcome (found/not_found/not_authorized/error)",
	}, []string{"outcome"})
	CasesEscalated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campuswatch_cases_escalated_total",
		Help: "Total number of successful case escalations",
	}, []string{"authority"})
	EscalationsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campuswatch_escalations_rejected_total",
		Help: "Total number of escalation attempts rejected, grouped by reason (invalid_input/not_escalatable)",
	}, []string{"reason"})
	CasesResolved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "campuswatch_cases_resolved_total",
		Help: "Total number of cases marked resolved",
	})

	// Complaint intake metrics
	ComplaintsSubmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campuswatch_complaints_submitted_total",
		Help: "Total number of complaints submitted",
	}, []string{"college"})
	ComplaintsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campuswatch_complaints_rejected_total",
		Help: "Total number of complaint submissions rejected, grouped by reason",
	}, []string{"reason"})
	EvidenceUploads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campuswatch_evidence_uploads_total",
		Help: "Total number of evidence uploads, grouped by result (success/failure)",
	}, []string{"result"})

	// Audit sink metrics
	AuditEventsProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campuswatch_audit_events_processed_total",
		Help: "Total number of audit events successfully written, per sink",
	}, []string{"sink"})
	AuditEventsDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campuswatch_audit_events_dropped_total",
		Help: "Total number of audit events dropped, per sink and reason (queue_full/circuit_open)",
	}, []string{"sink", "reason"})
	AuditSinkErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campuswatch_audit_sink_errors_total",
		Help: "Total number of audit sink write errors, per sink and operation",
	}, []string{"sink", "operation"})

	// Mail metrics
	MailSendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campuswatch_mail_send_success_total",
		Help: "Total number of successful mail sends",
	}, []string{"host"})
	MailSendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campuswatch_mail_send_failure_total",
		Help: "Total number of failed mail sends",
	}, []string{"host"})
	MailQueued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campuswatch_mail_queued_total",
		Help: "Total number of mails accepted into the send queue",
	}, []string{"host"})
	MailQueueDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campuswatch_mail_queue_dropped_total",
		Help: "Total number of mails dropped because the queue was full or shutting down",
	}, []string{"host"})
	MailSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campuswatch_mail_sent_total",
		Help: "Total number of queued mails delivered",
	}, []string{"host"})
	MailFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campuswatch_mail_failed_total",
		Help: "Total number of queued mails that exhausted all retries",
	}, []string{"host"})
	MailRetryScheduled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campuswatch_mail_retry_scheduled_total",
		Help: "Total number of mail send retries scheduled",
	}, []string{"host"})

	// HTTP metrics
	RequestsThrottled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campuswatch_requests_throttled_total",
		Help: "Total number of requests rejected by the rate limiter, grouped by scope (ip/user)",
	}, []string{"scope"})
)

func init() {
	prometheus.MustRegister(CasesTracked)
	prometheus.MustRegister(CasesEscalated)
	prometheus.MustRegister(EscalationsRejected)
	prometheus.MustRegister(CasesResolved)
	prometheus.MustRegister(ComplaintsSubmitted)
	prometheus.MustRegister(ComplaintsRejected)
	prometheus.MustRegister(EvidenceUploads)
	prometheus.MustRegister(AuditEventsProcessed)
	prometheus.MustRegister(AuditEventsDropped)
	prometheus.MustRegister(AuditSinkErrors)
	prometheus.MustRegister(MailSendSuccess)
	prometheus.MustRegister(MailSendFailure)
	prometheus.MustRegister(MailQueued)
	prometheus.MustRegister(MailQueueDropped)
	prometheus.MustRegister(MailSent)
	prometheus.MustRegister(MailFailed)
	prometheus.MustRegister(MailRetryScheduled)
	prometheus.MustRegister(RequestsThrottled)
}

// MetricsHandler returns an http.Handler exposing Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
