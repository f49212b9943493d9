// Package metrics defines Prometheus metrics for the campuswatch service,
// covering case tracking, escalations, complaint intake, evidence uploads,
// audit sinks, and mail delivery.
package metrics
