package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

const keyringService = "cwctl"

// TokenStore persists one StoredToken per provider name.
type TokenStore interface {
	Get(provider string) (StoredToken, bool, error)
	Set(provider string, token StoredToken) error
	Delete(provider string) error
}

// NewStore selects a token storage backend. "keyring" and "keychain"
// use the OS credential store; "file" and the empty string fall back to
// the JSON cache at path.
func NewStore(backend, path string) (TokenStore, error) {
	switch backend {
	case "", "file":
		return &fileStore{path: path}, nil
	case "keyring", "keychain":
		return &keyringStore{service: keyringService}, nil
	default:
		return nil, fmt.Errorf("unknown token storage backend: %s", backend)
	}
}

type fileStore struct {
	path string
}

func (s *fileStore) Get(provider string) (StoredToken, bool, error) {
	cache, err := LoadTokenCache(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return StoredToken{}, false, nil
		}
		return StoredToken{}, false, err
	}
	token, ok := cache.Tokens[provider]
	return token, ok, nil
}

func (s *fileStore) Set(provider string, token StoredToken) error {
	cache, err := LoadTokenCache(s.path)
	if err != nil {
		cache = &TokenCache{Tokens: map[string]StoredToken{}}
	}
	cache.Tokens[provider] = token
	return SaveTokenCache(s.path, cache)
}

func (s *fileStore) Delete(provider string) error {
	cache, err := LoadTokenCache(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	delete(cache.Tokens, provider)
	return SaveTokenCache(s.path, cache)
}

type keyringStore struct {
	service string
}

func (s *keyringStore) Get(provider string) (StoredToken, bool, error) {
	secret, err := keyring.Get(s.service, provider)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return StoredToken{}, false, nil
		}
		return StoredToken{}, false, fmt.Errorf("keyring read failed: %w", err)
	}
	var token StoredToken
	if err := json.Unmarshal([]byte(secret), &token); err != nil {
		return StoredToken{}, false, fmt.Errorf("failed to parse keyring token: %w", err)
	}
	return token, true, nil
}

func (s *keyringStore) Set(provider string, token StoredToken) error {
	content, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := keyring.Set(s.service, provider, string(content)); err != nil {
		return fmt.Errorf("keyring write failed: %w", err)
	}
	return nil
}

func (s *keyringStore) Delete(provider string) error {
	if err := keyring.Delete(s.service, provider); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring delete failed: %w", err)
	}
	return nil
}
