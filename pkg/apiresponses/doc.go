// Package apiresponses provides standardized HTTP API response helpers
// (error, not-found, unauthorized, forbidden, etc.) shared between the
// api, tracking, report, and college packages without import cycles.
package apiresponses
