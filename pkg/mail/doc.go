// Package mail sends case notifications over SMTP with retries and an
// asynchronous queue.
package mail
