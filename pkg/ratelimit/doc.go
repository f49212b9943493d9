// Package ratelimit provides token-bucket middleware, per IP for the
// public statistics endpoints and per user for the case workflow.
package ratelimit
