// Package college computes per-college safety statistics and keeps the
// complaint counters in sync with the case workflow.
package college
