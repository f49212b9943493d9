package client

import (
	"context"
	"net/http"
	"time"
)

// ComplaintSubmission is the anonymous intake payload.
type ComplaintSubmission struct {
	InformerName     string `json:"informerName"`
	InformerAddress  string `json:"informerAddress"`
	CollegeName      string `json:"collegeName"`
	CollegeLocation  string `json:"collegeLocation"`
	ComplaintTitle   string `json:"complaintTitle"`
	ComplaintDetails string `json:"complaintDetails"`
}

// Complaint is a stored complaint as served by the API.
type Complaint struct {
	ID          int64     `json:"id"`
	CollegeName string    `json:"collegeName"`
	Description string    `json:"description"`
	Authority   string    `json:"authority"`
	Status      string    `json:"status"`
	Escalated   bool      `json:"escalated"`
	EscalatedTo string    `json:"escalatedTo,omitempty"`
	EvidenceURL string    `json:"evidenceUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	ResolvedAt  string    `json:"resolvedAt,omitempty"`
}

// SubmitResult pairs the stored complaint with the tracking case opened
// for it.
type SubmitResult struct {
	Complaint Complaint `json:"complaint"`
	Case      Case      `json:"case"`
}

type ComplaintService struct {
	client *Client
}

func (c *Client) Complaints() *ComplaintService {
	return &ComplaintService{client: c}
}

func (s *ComplaintService) Submit(ctx context.Context, sub ComplaintSubmission) (*SubmitResult, error) {
	var result SubmitResult
	if err := s.client.do(ctx, http.MethodPost, "api/complaints", sub, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// List returns the caller's own complaints.
func (s *ComplaintService) List(ctx context.Context) ([]Complaint, error) {
	var resp struct {
		Complaints []Complaint `json:"complaints"`
	}
	if err := s.client.do(ctx, http.MethodGet, "api/complaints", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Complaints, nil
}
