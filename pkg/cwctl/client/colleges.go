package client

import (
	"context"
	"net/http"
	"net/url"
)

// College is a college row with its computed safety score.
type College struct {
	ID               int64  `json:"id"`
	Name             string `json:"college_name"`
	Location         string `json:"location"`
	Verified         bool   `json:"verified"`
	TotalComplaints  int    `json:"total_complaints"`
	SolvedComplaints int    `json:"solved_complaints"`
	SafetyScore      int    `json:"safety_score"`
}

// SafetySummary aggregates the safety dashboard numbers.
type SafetySummary struct {
	Colleges           int     `json:"colleges"`
	TotalComplaints    int     `json:"total_complaints"`
	SolvedComplaints   int     `json:"solved_complaints"`
	AverageSafetyScore float64 `json:"average_safety_score"`
	ResolutionRate     float64 `json:"resolution_rate"`
}

type CollegeService struct {
	client *Client
}

func (c *Client) Colleges() *CollegeService {
	return &CollegeService{client: c}
}

func (s *CollegeService) List(ctx context.Context, search, location string) ([]College, error) {
	endpoint := "api/colleges"
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	if location != "" {
		query.Set("location", location)
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var resp struct {
		Colleges []College `json:"colleges"`
	}
	if err := s.client.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Colleges, nil
}

func (s *CollegeService) Summary(ctx context.Context) (*SafetySummary, error) {
	var summary SafetySummary
	if err := s.client.do(ctx, http.MethodGet, "api/colleges/summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *CollegeService) Locations(ctx context.Context) ([]string, error) {
	var resp struct {
		Locations []string `json:"locations"`
	}
	if err := s.client.do(ctx, http.MethodGet, "api/colleges/locations", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Locations, nil
}
