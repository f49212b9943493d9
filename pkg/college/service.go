package college

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/campuswatch/campuswatch/pkg/store"
)

// Stats is a college row with its computed safety score.
type Stats struct {
	ID               int64  `json:"id"`
	Name             string `json:"college_name"`
	Location         string `json:"location"`
	Verified         bool   `json:"verified"`
	TotalComplaints  int    `json:"total_complaints"`
	SolvedComplaints int    `json:"solved_complaints"`
	SafetyScore      int    `json:"safety_score"`
}

// Summary aggregates the safety dashboard numbers.
type Summary struct {
	Colleges           int     `json:"colleges"`
	TotalComplaints    int     `json:"total_complaints"`
	SolvedComplaints   int     `json:"solved_complaints"`
	AverageSafetyScore float64 `json:"average_safety_score"`
	ResolutionRate     float64 `json:"resolution_rate"`
}

// SafetyScore rates a college by its share of unresolved complaints. A
// college without complaints scores a full 100.
func SafetyScore(total, solved int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(total-solved) / float64(total) * 100))
}

// Service computes college safety statistics and mirrors case workflow
// transitions onto complaints and college counters.
type Service struct {
	colleges   *store.CollegeRepository
	complaints *store.ComplaintRepository
	cases      *store.CaseRepository
	log        *zap.SugaredLogger
}

func NewService(colleges *store.CollegeRepository,
	complaints *store.ComplaintRepository,
	cases *store.CaseRepository,
	log *zap.SugaredLogger,
) *Service {
	return &Service{
		colleges:   colleges,
		complaints: complaints,
		cases:      cases,
		log:        log.Named("college"),
	}
}

// List returns colleges with safety scores, optionally filtered by a
// name substring and an exact location.
func (s *Service) List(ctx context.Context, search, location string) ([]Stats, error) {
	colleges, err := s.colleges.List(ctx, search, location)
	if err != nil {
		return nil, err
	}

	out := make([]Stats, 0, len(colleges))
	for _, c := range colleges {
		out = append(out, Stats{
			ID:               c.ID,
			Name:             c.Name,
			Location:         c.Location,
			Verified:         c.Verified,
			TotalComplaints:  c.TotalComplaints,
			SolvedComplaints: c.SolvedComplaints,
			SafetyScore:      SafetyScore(c.TotalComplaints, c.SolvedComplaints),
		})
	}
	return out, nil
}

// Locations returns the distinct college locations for filtering.
func (s *Service) Locations(ctx context.Context) ([]string, error) {
	return s.colleges.Locations(ctx)
}

// Summarize aggregates all colleges into dashboard totals.
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	colleges, err := s.colleges.List(ctx, "", "")
	if err != nil {
		return nil, err
	}

	sum := &Summary{Colleges: len(colleges)}
	var scoreSum float64
	for _, c := range colleges {
		sum.TotalComplaints += c.TotalComplaints
		sum.SolvedComplaints += c.SolvedComplaints
		scoreSum += float64(SafetyScore(c.TotalComplaints, c.SolvedComplaints))
	}
	if len(colleges) > 0 {
		sum.AverageSafetyScore = math.Round(scoreSum/float64(len(colleges))*100) / 100
	}
	if sum.TotalComplaints > 0 {
		sum.ResolutionRate = math.Round(float64(sum.SolvedComplaints)/float64(sum.TotalComplaints)*10000) / 100
	}
	return sum, nil
}

// RecordEscalated stamps the escalation target on the complaint behind
// a case. Cases without a linked complaint are skipped.
func (s *Service) RecordEscalated(ctx context.Context, caseID, target string) error {
	complaintID, err := s.cases.ComplaintID(ctx, caseID)
	if err != nil {
		return fmt.Errorf("resolving complaint for case %s: %w", caseID, err)
	}
	if complaintID == 0 {
		return nil
	}
	return s.complaints.MarkEscalated(ctx, complaintID, target)
}

// RecordSolved bumps the college's solved counter and marks the linked
// complaint resolved.
func (s *Service) RecordSolved(ctx context.Context, caseID string, collegeID int64) error {
	if err := s.colleges.IncrementSolved(ctx, collegeID); err != nil {
		return err
	}

	complaintID, err := s.cases.ComplaintID(ctx, caseID)
	if err != nil {
		return fmt.Errorf("resolving complaint for case %s: %w", caseID, err)
	}
	if complaintID == 0 {
		return nil
	}
	if err := s.complaints.MarkResolved(ctx, complaintID); err != nil {
		s.log.Warnw("failed to mark complaint resolved",
			"case", caseID, "complaint", complaintID, "error", err)
	}
	return nil
}
