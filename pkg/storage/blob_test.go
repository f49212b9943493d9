package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campuswatch/campuswatch/pkg/config"
)

func newFSStore(t *testing.T, publicBaseURL string) *FilesystemStore {
	t.Helper()
	s, err := NewFilesystemStore(config.Storage{
		LocalDir:      t.TempDir(),
		PublicBaseURL: publicBaseURL,
	}, zap.NewNop().Sugar())
	require.NoError(t, err)
	return s
}

func TestFilesystemStoreRoundTrip(t *testing.T) {
	s := newFSStore(t, "https://cdn.campuswatch.example.org/evidence")
	ctx := context.Background()

	url, err := s.Put(ctx, "user@example.com_user123.png", []byte("image-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.campuswatch.example.org/evidence/user@example.com_user123.png", url)

	data, err := s.Get(ctx, "user@example.com_user123.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)

	require.NoError(t, s.Delete(ctx, "user@example.com_user123.png"))
	_, err = s.Get(ctx, "user@example.com_user123.png")
	assert.Error(t, err)
}

func TestFilesystemStoreFileURLWithoutBase(t *testing.T) {
	s := newFSStore(t, "")

	url, err := s.Put(context.Background(), "evidence.jpg", []byte("x"), "image/jpeg")
	require.NoError(t, err)
	assert.Contains(t, url, "file://")
	assert.Contains(t, url, "evidence.jpg")
}

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		key string
		ok  bool
	}{
		{"user@example.com_user123.png", true},
		{"evidence.jpg", true},
		{"", false},
		{"../escape.png", false},
		{"/etc/passwd", false},
		{"nested/path.png", false},
		{"a/../../b", false},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			_, err := sanitizeKey(tc.key)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNewSelectsBackend(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop().Sugar()

	t.Run("default filesystem", func(t *testing.T) {
		s, err := New(ctx, config.Storage{LocalDir: t.TempDir()}, log)
		require.NoError(t, err)
		assert.IsType(t, &FilesystemStore{}, s)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := New(ctx, config.Storage{Backend: "ftp"}, log)
		assert.Error(t, err)
	})

	t.Run("s3 requires bucket", func(t *testing.T) {
		_, err := New(ctx, config.Storage{Backend: "s3"}, log)
		assert.Error(t, err)
	})
}
