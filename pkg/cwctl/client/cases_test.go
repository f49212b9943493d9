package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCaseServer(t *testing.T) (*Client, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	c, err := New(WithServer(server.URL), WithToken("token"))
	require.NoError(t, err)
	return c, mux
}

func TestCaseGet(t *testing.T) {
	c, mux := newCaseServer(t)
	mux.HandleFunc("/api/cases/CMP-10001", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_ = json.NewEncoder(w).Encode(Case{
			ID:       "CMP-10001",
			Status:   "In Progress",
			Progress: 40,
			Priority: "Medium",
			Category: "Harassment",
			College:  "Northfield College",
		})
	})

	cs, err := c.Cases().Get(context.Background(), "CMP-10001")
	require.NoError(t, err)
	assert.Equal(t, "CMP-10001", cs.ID)
	assert.Equal(t, "In Progress", cs.Status)
	assert.Equal(t, "Northfield College", cs.College)
}

func TestCaseRecent(t *testing.T) {
	c, mux := newCaseServer(t)
	mux.HandleFunc("/api/cases/recent", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string][]string{
			"recentSearches": {"CMP-10002", "CMP-10001"},
		})
	})

	recent, err := c.Cases().Recent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"CMP-10002", "CMP-10001"}, recent)
}

func TestCaseEscalate(t *testing.T) {
	c, mux := newCaseServer(t)
	mux.HandleFunc("/api/cases/CMP-10001/escalate", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var req EscalateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Department of Justice", req.To)
		assert.Equal(t, "no progress for months", req.Reason)
		_ = json.NewEncoder(w).Encode(Case{
			ID:              "CMP-10001",
			Status:          "Under Review",
			EscalationCount: 1,
			Escalations: []Escalation{{
				To:     req.To,
				Reason: req.Reason,
				Status: "Pending Review",
			}},
		})
	})

	cs, err := c.Cases().Escalate(context.Background(), "CMP-10001", "Department of Justice", "no progress for months")
	require.NoError(t, err)
	assert.Equal(t, 1, cs.EscalationCount)
	require.Len(t, cs.Escalations, 1)
	assert.Equal(t, "Department of Justice", cs.Escalations[0].To)
}

func TestCaseResolve(t *testing.T) {
	c, mux := newCaseServer(t)
	mux.HandleFunc("/api/cases/CMP-10001/resolve", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		_ = json.NewEncoder(w).Encode(Case{ID: "CMP-10001", Status: "Resolved", Progress: 100})
	})

	cs, err := c.Cases().Resolve(context.Background(), "CMP-10001")
	require.NoError(t, err)
	assert.Equal(t, "Resolved", cs.Status)
	assert.Equal(t, 100, cs.Progress)
}

func TestCaseGetNotFound(t *testing.T) {
	c, mux := newCaseServer(t)
	mux.HandleFunc("/api/cases/CMP-99999", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "case not found: CMP-99999"})
	})

	_, err := c.Cases().Get(context.Background(), "CMP-99999")
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}

func TestAuthorities(t *testing.T) {
	c, mux := newCaseServer(t)
	mux.HandleFunc("/api/authorities", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string][]string{
			"authorities": {"Station Captain", "Department of Justice"},
		})
	})

	authorities, err := c.Authorities(context.Background())
	require.NoError(t, err)
	assert.Contains(t, authorities, "Department of Justice")
}
