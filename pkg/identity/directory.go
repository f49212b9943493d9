package identity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Nerzal/gocloak/v13"
	"go.uber.org/zap"

	"github.com/campuswatch/campuswatch/pkg/config"
)

// Directory resolves user details for notification purposes. Lookups go
// by the stable user identifier (token subject).
type Directory interface {
	// UserEmail returns the user's mail address, or an error when the
	// user is unknown or has no address.
	UserEmail(ctx context.Context, userID string) (string, error)

	// UserFullName returns a display name, falling back to the username.
	UserFullName(ctx context.Context, userID string) (string, error)
}

// NoopDirectory is used when no Keycloak admin access is configured.
// Every lookup fails, which downstream callers treat as "no recipient".
type NoopDirectory struct{}

func (NoopDirectory) UserEmail(context.Context, string) (string, error) {
	return "", fmt.Errorf("directory lookups disabled")
}

func (NoopDirectory) UserFullName(context.Context, string) (string, error) {
	return "", fmt.Errorf("directory lookups disabled")
}

// KeycloakDirectory resolves users through the Keycloak admin API using
// a confidential client's service account.
type KeycloakDirectory struct {
	client *gocloak.GoCloak
	cfg    config.Keycloak
	log    *zap.SugaredLogger

	mu          sync.Mutex
	token       *gocloak.JWT
	tokenExpiry time.Time
}

// NewDirectory builds a Directory from configuration. When Keycloak is
// disabled or not configured, a NoopDirectory is returned.
func NewDirectory(cfg config.Keycloak, log *zap.SugaredLogger) Directory {
	if cfg.Disable || cfg.BaseURL == "" {
		log.Info("Keycloak directory disabled, user lookups unavailable")
		return NoopDirectory{}
	}
	return &KeycloakDirectory{
		client: gocloak.NewClient(cfg.BaseURL),
		cfg:    cfg,
		log:    log.Named("keycloak"),
	}
}

// accessToken returns a valid service-account token, refreshing when the
// cached one is within 30 seconds of expiry.
func (d *KeycloakDirectory) accessToken(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.token != nil && time.Now().Before(d.tokenExpiry.Add(-30*time.Second)) {
		return d.token.AccessToken, nil
	}

	token, err := d.client.LoginClient(ctx, d.cfg.ClientID, d.cfg.ClientSecret, d.cfg.Realm)
	if err != nil {
		return "", fmt.Errorf("keycloak client login: %w", err)
	}
	d.token = token
	d.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	return token.AccessToken, nil
}

func (d *KeycloakDirectory) user(ctx context.Context, userID string) (*gocloak.User, error) {
	token, err := d.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	user, err := d.client.GetUserByID(ctx, token, d.cfg.Realm, userID)
	if err != nil {
		return nil, fmt.Errorf("keycloak user lookup for %s: %w", userID, err)
	}
	return user, nil
}

func (d *KeycloakDirectory) UserEmail(ctx context.Context, userID string) (string, error) {
	user, err := d.user(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.Email == nil || *user.Email == "" {
		return "", fmt.Errorf("user %s has no mail address", userID)
	}
	return *user.Email, nil
}

func (d *KeycloakDirectory) UserFullName(ctx context.Context, userID string) (string, error) {
	user, err := d.user(ctx, userID)
	if err != nil {
		return "", err
	}

	name := ""
	if user.FirstName != nil {
		name = *user.FirstName
	}
	if user.LastName != nil {
		if name != "" {
			name += " "
		}
		name += *user.LastName
	}
	if name == "" && user.Username != nil {
		name = *user.Username
	}
	return name, nil
}
