package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestNewStoreBackends(t *testing.T) {
	store, err := NewStore("", "/tmp/tokens.json")
	require.NoError(t, err)
	assert.IsType(t, &fileStore{}, store)

	store, err = NewStore("file", "/tmp/tokens.json")
	require.NoError(t, err)
	assert.IsType(t, &fileStore{}, store)

	store, err = NewStore("keyring", "")
	require.NoError(t, err)
	assert.IsType(t, &keyringStore{}, store)

	store, err = NewStore("keychain", "")
	require.NoError(t, err)
	assert.IsType(t, &keyringStore{}, store)

	_, err = NewStore("vault", "")
	assert.ErrorContains(t, err, "unknown token storage backend")
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store := &fileStore{path: path}

	_, found, err := store.Get("campus-idp")
	require.NoError(t, err)
	assert.False(t, found)

	token := StoredToken{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Set("campus-idp", token))
	require.NoError(t, store.Set("other-idp", StoredToken{AccessToken: "other"}))

	got, found, err := store.Get("campus-idp")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "access", got.AccessToken)
	assert.Equal(t, "refresh", got.RefreshToken)

	require.NoError(t, store.Delete("campus-idp"))
	_, found, err = store.Get("campus-idp")
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting one provider must not drop the others.
	got, found, err = store.Get("other-idp")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "other", got.AccessToken)
}

func TestFileStoreDeleteMissingCache(t *testing.T) {
	store := &fileStore{path: filepath.Join(t.TempDir(), "absent.json")}
	assert.NoError(t, store.Delete("campus-idp"))
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	store := &keyringStore{service: keyringService}

	_, found, err := store.Get("campus-idp")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set("campus-idp", StoredToken{AccessToken: "secret", TokenType: "Bearer"}))

	got, found, err := store.Get("campus-idp")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "secret", got.AccessToken)

	require.NoError(t, store.Delete("campus-idp"))
	_, found, err = store.Get("campus-idp")
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, store.Delete("campus-idp"))
}
