package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresServer(t *testing.T) {
	_, err := New()
	assert.ErrorContains(t, err, "server is required")

	_, err = New(WithServer(""))
	assert.ErrorContains(t, err, "server is required")
}

func TestDoSetsHeaders(t *testing.T) {
	var gotAuth, gotAgent, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_ = json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	}))
	defer server.Close()

	c, err := New(WithServer(server.URL), WithToken("secret-token"), WithUserAgent("cwctl-test"))
	require.NoError(t, err)

	var out map[string]string
	require.NoError(t, c.do(context.Background(), http.MethodGet, "api/ping", nil, &out))
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "cwctl-test", gotAgent)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "yes", out["ok"])
}

func TestDoJoinsBasePath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c, err := New(WithServer(server.URL + "/campuswatch"))
	require.NoError(t, err)
	require.NoError(t, c.do(context.Background(), http.MethodGet, "api/cases/CMP-10001", nil, nil))
	assert.Equal(t, "/campuswatch/api/cases/CMP-10001", gotPath)
}

func TestDoDecodesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "case not found: CMP-99999", "code": "NOT_FOUND"})
	}))
	defer server.Close()

	c, err := New(WithServer(server.URL))
	require.NoError(t, err)

	err = c.do(context.Background(), http.MethodGet, "api/cases/CMP-99999", nil, nil)
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, "case not found: CMP-99999", httpErr.Message)
	assert.Equal(t, "request failed (404): case not found: CMP-99999", httpErr.Error())
}

func TestDoDecodesErrorDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "missing required field", "details": "collegeName"})
	}))
	defer server.Close()

	c, err := New(WithServer(server.URL))
	require.NoError(t, err)

	err = c.do(context.Background(), http.MethodPost, "api/complaints", map[string]string{}, nil)
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "missing required field: collegeName", httpErr.Message)
}

func TestDoFallsBackToStatusText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c, err := New(WithServer(server.URL))
	require.NoError(t, err)

	err = c.do(context.Background(), http.MethodGet, "api/colleges", nil, nil)
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
	assert.NotEmpty(t, httpErr.Message)
}

func TestWithTimeoutSurvivesTLSOption(t *testing.T) {
	c, err := New(WithServer("https://campuswatch.example.edu"), WithTimeout(5*time.Second), WithTLSConfig("", false))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, c.http.Timeout)
}

func TestWithVerboseLogsRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	var lines []string
	c, err := New(WithServer(server.URL), WithVerbose(func(format string, args ...any) {
		lines = append(lines, format)
	}))
	require.NoError(t, err)
	require.NoError(t, c.do(context.Background(), http.MethodGet, "api/ping", nil, nil))
	assert.Len(t, lines, 2)
}
