// Package audit records security-relevant application events.
//
// Events are fanned out to one or more sinks (structured log, Kafka)
// through a bounded queue with a circuit breaker, so a slow or broken
// sink never blocks request handling.
package audit
