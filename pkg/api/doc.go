// Package api implements the Gin-based HTTP server: controller
// mounting, JWT bearer authentication against the configured identity
// provider's JWKS, SPA serving, health and metrics endpoints.
package api
