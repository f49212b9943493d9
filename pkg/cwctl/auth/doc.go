// Package auth implements the cwctl login flows and token cache.
// Tokens are stored per OIDC provider, either in a JSON file under the
// user config dir or in the OS keyring.
package auth
