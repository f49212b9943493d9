package identity

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/campuswatch/campuswatch/pkg/config"
)

func TestTokenProvider(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("user_id", "user123")
	c.Set("email", "user@example.com")
	c.Set("username", "user123name")

	p := TokenProvider{}
	assert.Equal(t, "user123", p.Identity(c))
	assert.Equal(t, "user@example.com", p.Email(c))
	assert.Equal(t, "user123name", p.Username(c))
}

func TestTokenProviderMissingClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	p := TokenProvider{}
	assert.Empty(t, p.Identity(c))
	assert.Empty(t, p.Email(c))
}

func TestNewDirectoryDisabled(t *testing.T) {
	d := NewDirectory(config.Keycloak{Disable: true}, zap.NewNop().Sugar())
	assert.IsType(t, NoopDirectory{}, d)

	_, err := d.UserEmail(context.Background(), "user123")
	assert.Error(t, err)
	_, err = d.UserFullName(context.Background(), "user123")
	assert.Error(t, err)
}

func TestNewDirectoryUnconfigured(t *testing.T) {
	d := NewDirectory(config.Keycloak{}, zap.NewNop().Sugar())
	assert.IsType(t, NoopDirectory{}, d)
}

func TestNewDirectoryKeycloak(t *testing.T) {
	d := NewDirectory(config.Keycloak{
		BaseURL:      "https://keycloak.example.org",
		Realm:        "campuswatch",
		ClientID:     "campuswatch-api",
		ClientSecret: "secret",
	}, zap.NewNop().Sugar())
	assert.IsType(t, &KeycloakDirectory{}, d)
}
