package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Escalation is one escalation step on a case.
type Escalation struct {
	To     string `json:"to"`
	Reason string `json:"reason"`
	Date   string `json:"date"`
	Status string `json:"status"`
}

// Case is the tracked-case payload as served by the API.
type Case struct {
	ID                  string       `json:"id"`
	Status              string       `json:"status"`
	Progress            int          `json:"progress"`
	LastUpdated         string       `json:"lastUpdated"`
	AssignedTo          string       `json:"assignedTo"`
	Priority            string       `json:"priority"`
	Category            string       `json:"category"`
	EstimatedCompletion string       `json:"estimatedCompletion"`
	Notes               string       `json:"notes"`
	EscalationCount     int          `json:"escalationCount"`
	Escalations         []Escalation `json:"escalations"`
	AuthorizedUsers     []string     `json:"authorizedUsers,omitempty"`
	College             string       `json:"college,omitempty"`
}

type CaseService struct {
	client *Client
}

func (c *Client) Cases() *CaseService {
	return &CaseService{client: c}
}

func (s *CaseService) Get(ctx context.Context, id string) (*Case, error) {
	var cs Case
	endpoint := fmt.Sprintf("api/cases/%s", url.PathEscape(id))
	if err := s.client.do(ctx, http.MethodGet, endpoint, nil, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

// Recent returns the caller's recently tracked case IDs, newest first.
func (s *CaseService) Recent(ctx context.Context) ([]string, error) {
	var resp struct {
		RecentSearches []string `json:"recentSearches"`
	}
	if err := s.client.do(ctx, http.MethodGet, "api/cases/recent", nil, &resp); err != nil {
		return nil, err
	}
	return resp.RecentSearches, nil
}

type EscalateRequest struct {
	To     string `json:"to"`
	Reason string `json:"reason"`
}

func (s *CaseService) Escalate(ctx context.Context, id, to, reason string) (*Case, error) {
	var cs Case
	endpoint := fmt.Sprintf("api/cases/%s/escalate", url.PathEscape(id))
	req := EscalateRequest{To: to, Reason: reason}
	if err := s.client.do(ctx, http.MethodPost, endpoint, req, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

func (s *CaseService) Resolve(ctx context.Context, id string) (*Case, error) {
	var cs Case
	endpoint := fmt.Sprintf("api/cases/%s/resolve", url.PathEscape(id))
	if err := s.client.do(ctx, http.MethodPost, endpoint, nil, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

// Authorities returns the fixed escalation target list.
func (c *Client) Authorities(ctx context.Context) ([]string, error) {
	var resp struct {
		Authorities []string `json:"authorities"`
	}
	if err := c.do(ctx, http.MethodGet, "api/authorities", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Authorities, nil
}
