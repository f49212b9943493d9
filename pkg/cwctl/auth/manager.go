package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// TokenManager reads and refreshes cached tokens through a TokenStore.
type TokenManager struct {
	Store TokenStore
}

func (m *TokenManager) GetToken(providerName string) (StoredToken, bool, error) {
	return m.Store.Get(providerName)
}

func (m *TokenManager) SaveToken(providerName string, token StoredToken) error {
	return m.Store.Set(providerName, token)
}

func (m *TokenManager) DeleteToken(providerName string) error {
	return m.Store.Delete(providerName)
}

// RefreshIfNeeded refreshes the cached token when it expires within two
// minutes. The second return is true when a refresh happened.
func (m *TokenManager) RefreshIfNeeded(ctx context.Context, providerName string, oauthCfg oauth2.Config) (StoredToken, bool, error) {
	token, ok, err := m.GetToken(providerName)
	if err != nil || !ok {
		return token, ok, err
	}
	if token.Expiry.IsZero() || time.Until(token.Expiry) > 2*time.Minute {
		return token, false, nil
	}
	if token.RefreshToken == "" {
		return token, false, errors.New("token expired and no refresh token available")
	}
	// The oauth2 reuse source only refreshes within its own ~10 second
	// expiry delta. Hand it an already-expired token so the two minute
	// window above actually hits the token endpoint.
	src := oauthCfg.TokenSource(ctx, &oauth2.Token{
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       time.Now().Add(-time.Minute),
	})
	refreshed, err := src.Token()
	if err != nil {
		return token, false, fmt.Errorf("failed to refresh token: %w", err)
	}
	stored := StoredToken{
		AccessToken:  refreshed.AccessToken,
		RefreshToken: refreshed.RefreshToken,
		TokenType:    refreshed.TokenType,
		Expiry:       refreshed.Expiry,
	}
	if idToken, ok := refreshed.Extra("id_token").(string); ok {
		stored.IDToken = idToken
	} else {
		stored.IDToken = token.IDToken
	}
	if err := m.SaveToken(providerName, stored); err != nil {
		return stored, true, err
	}
	return stored, true, nil
}
