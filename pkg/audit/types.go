package audit

import (
	"time"
)

// EventType represents the type of audit event.
type EventType string

const (
	// Complaint intake events
	EventComplaintSubmitted EventType = "complaint.submitted"
	EventComplaintRejected  EventType = "complaint.rejected"
	EventEvidenceUploaded   EventType = "evidence.uploaded"
	EventEvidenceFailed     EventType = "evidence.upload_failed"

	// Case workflow events
	EventCaseTracked          EventType = "case.tracked"
	EventCaseTrackDenied      EventType = "case.track_denied"
	EventCaseEscalated        EventType = "case.escalated"
	EventEscalationDenied     EventType = "case.escalation_denied"
	EventCaseResolved         EventType = "case.resolved"

	// System events
	EventSystemStartup  EventType = "system.startup"
	EventSystemShutdown EventType = "system.shutdown"

	// Audit meta events
	EventAuditDropped EventType = "audit.dropped"
)

// Severity represents the severity level of an audit event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Event represents a single audit event.
type Event struct {
	// ID is a unique identifier for this event.
	ID string `json:"id"`

	// Type is the type of event.
	Type EventType `json:"type"`

	// Severity indicates the importance of the event.
	Severity Severity `json:"severity"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Actor is who triggered the event.
	Actor Actor `json:"actor"`

	// Target is what was affected by the event.
	Target Target `json:"target"`

	// Details contains event-specific information.
	Details map[string]interface{} `json:"details,omitempty"`
}

// Actor represents who triggered an audit event.
type Actor struct {
	// User identifier (subject claim of the verified token).
	User string `json:"user"`

	// Email of the user, when present in the token.
	Email string `json:"email,omitempty"`

	// SourceIP is the IP address of the request origin.
	SourceIP string `json:"sourceIP,omitempty"`

	// UserAgent from the request.
	UserAgent string `json:"userAgent,omitempty"`
}

// Target represents what was affected by an audit event.
type Target struct {
	// Kind is the resource kind ("case", "complaint", "evidence").
	Kind string `json:"kind"`

	// Name is the resource identifier, e.g. the case ID.
	Name string `json:"name"`

	// College the resource belongs to, when known.
	College string `json:"college,omitempty"`
}

// SeverityForEventType returns the default severity for an event type.
func SeverityForEventType(eventType EventType) Severity {
	switch eventType {
	case EventAuditDropped, EventEvidenceFailed:
		return SeverityCritical
	case EventCaseTrackDenied, EventEscalationDenied, EventComplaintRejected:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// IsSensitiveEvent returns true if this event type should always be
// captured (never dropped before other event types when under pressure).
func IsSensitiveEvent(eventType EventType) bool {
	switch eventType {
	case EventCaseTrackDenied, EventEscalationDenied, EventCaseEscalated, EventCaseResolved:
		return true
	default:
		return false
	}
}
