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

func TestCollegeList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/colleges", r.URL.Path)
		assert.Equal(t, "north", r.URL.Query().Get("search"))
		assert.Equal(t, "Northfield", r.URL.Query().Get("location"))
		_ = json.NewEncoder(w).Encode(map[string][]College{
			"colleges": {{
				ID:               1,
				Name:             "Northfield College",
				Location:         "Northfield",
				TotalComplaints:  4,
				SolvedComplaints: 3,
				SafetyScore:      25,
			}},
		})
	}))
	defer server.Close()

	c, err := New(WithServer(server.URL))
	require.NoError(t, err)

	colleges, err := c.Colleges().List(context.Background(), "north", "Northfield")
	require.NoError(t, err)
	require.Len(t, colleges, 1)
	assert.Equal(t, "Northfield College", colleges[0].Name)
	assert.Equal(t, 25, colleges[0].SafetyScore)
}

func TestCollegeSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/colleges/summary", r.URL.Path)
		_ = json.NewEncoder(w).Encode(SafetySummary{
			Colleges:           2,
			TotalComplaints:    6,
			SolvedComplaints:   3,
			AverageSafetyScore: 75,
			ResolutionRate:     50,
		})
	}))
	defer server.Close()

	c, err := New(WithServer(server.URL))
	require.NoError(t, err)

	summary, err := c.Colleges().Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Colleges)
	assert.InDelta(t, 50.0, summary.ResolutionRate, 0.001)
}

func TestCollegeLocations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/colleges/locations", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string][]string{"locations": {"Lakeside", "Northfield"}})
	}))
	defer server.Close()

	c, err := New(WithServer(server.URL))
	require.NoError(t, err)

	locations, err := c.Colleges().Locations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Lakeside", "Northfield"}, locations)
}
