package identity

import "github.com/gin-gonic/gin"

// Provider extracts the requesting identity from a request context. The
// auth middleware sets the claims after verifying the bearer token.
type Provider interface {
	// Identity returns the stable user identifier (subject claim).
	Identity(c *gin.Context) string

	// Email returns the user's email claim, empty when absent.
	Email(c *gin.Context) string

	// Username returns the preferred username claim, empty when absent.
	Username(c *gin.Context) string
}

// TokenProvider reads identity claims that the JWT middleware stored on
// the gin context.
type TokenProvider struct{}

func (TokenProvider) Identity(c *gin.Context) string {
	return c.GetString("user_id")
}

func (TokenProvider) Email(c *gin.Context) string {
	return c.GetString("email")
}

func (TokenProvider) Username(c *gin.Context) string {
	return c.GetString("username")
}
