package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSPARouter(t *testing.T) *gin.Engine {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>campuswatch</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app-abc123.js"), []byte("console.log(1)"), 0o644))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.NoRoute(ServeSPA("/", dir))
	return router
}

func getPath(router *gin.Engine, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServeSPAIndex(t *testing.T) {
	router := newSPARouter(t)

	rec := getPath(router, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "campuswatch")
	assert.Equal(t, "no-cache, must-revalidate", rec.Header().Get("Cache-Control"))
}

func TestServeSPAHashedAssetsAreImmutable(t *testing.T) {
	router := newSPARouter(t)

	rec := getPath(router, "/assets/app-abc123.js")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=31536000, immutable", rec.Header().Get("Cache-Control"))
}

func TestServeSPAFallsBackToIndex(t *testing.T) {
	router := newSPARouter(t)

	// Client-side routes must serve the app shell.
	rec := getPath(router, "/cases/CMP-12345")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "campuswatch")
	assert.Equal(t, "no-cache, must-revalidate", rec.Header().Get("Cache-Control"))
}
