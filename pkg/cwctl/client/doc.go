// Package client is a thin typed HTTP client for the CampusWatch API.
// Services hang off the Client per resource, mirroring the server's
// route groups.
package client
