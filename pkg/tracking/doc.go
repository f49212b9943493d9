// Package tracking implements the anonymous case tracking workflow:
// authorized lookup, escalation to a fixed authority list, and
// resolution. Persistence sits behind the CaseStore interface.
package tracking
