package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/campuswatch/campuswatch/pkg/metrics"
	"github.com/campuswatch/campuswatch/pkg/storage"
	"github.com/campuswatch/campuswatch/pkg/store"
	"github.com/campuswatch/campuswatch/pkg/tracking"
)

// ErrEvidenceUpload wraps blob store failures. The submission is blocked
// when evidence cannot be stored.
var ErrEvidenceUpload = errors.New("evidence upload failed")

// ValidationError names the first missing field of a submission.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %s is required", e.Field)
}

// Submission is a complaint as entered by the informer.
type Submission struct {
	InformerName     string `json:"informerName" form:"informerName"`
	InformerAddress  string `json:"informerAddress" form:"informerAddress"`
	CollegeName      string `json:"collegeName" form:"collegeName"`
	CollegeLocation  string `json:"collegeLocation" form:"collegeLocation"`
	ComplaintTitle   string `json:"complaintTitle" form:"complaintTitle"`
	ComplaintDetails string `json:"complaintDetails" form:"complaintDetails"`
}

// Evidence is an optional media attachment on a submission.
type Evidence struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Identity of the submitting user, taken from the verified token.
type Identity struct {
	UserID string
	Email  string
}

// Result of a successful intake: the stored complaint and the tracking
// case opened for it.
type Result struct {
	Complaint *store.Complaint
	Case      *tracking.Case
}

// Clock injects time for tests.
type Clock func() string

// Service implements complaint intake: validate, store evidence, create
// the complaint row, open the tracking case and bump college counters.
type Service struct {
	complaints *store.ComplaintRepository
	colleges   *store.CollegeRepository
	cases      *store.CaseRepository
	blobs      storage.BlobStore
	log        *zap.SugaredLogger
	today      Clock
}

func NewService(complaints *store.ComplaintRepository,
	colleges *store.CollegeRepository,
	cases *store.CaseRepository,
	blobs storage.BlobStore,
	log *zap.SugaredLogger,
	today Clock,
) *Service {
	return &Service{
		complaints: complaints,
		colleges:   colleges,
		cases:      cases,
		blobs:      blobs,
		log:        log.Named("report"),
		today:      today,
	}
}

func validate(sub Submission) error {
	fields := []struct {
		name  string
		value string
	}{
		{"informerName", sub.InformerName},
		{"informerAddress", sub.InformerAddress},
		{"collegeName", sub.CollegeName},
		{"collegeLocation", sub.CollegeLocation},
		{"complaintTitle", sub.ComplaintTitle},
		{"complaintDetails", sub.ComplaintDetails},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.name}
		}
	}
	return nil
}

// evidenceKey derives the blob key from the submitter identity and the
// uploaded file's extension.
func evidenceKey(ident Identity, filename string) string {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	return fmt.Sprintf("%s_%s.%s", ident.Email, ident.UserID, ext)
}

// caseIDFor derives the public case ID from the complaint's row ID.
func caseIDFor(complaintID int64) string {
	return fmt.Sprintf("CMP-%05d", 10000+complaintID)
}

// Submit runs the full intake. The returned case is what the submitter
// can track afterwards.
func (s *Service) Submit(ctx context.Context, ident Identity, sub Submission, evidence *Evidence) (*Result, error) {
	if err := validate(sub); err != nil {
		metrics.ComplaintsRejected.WithLabelValues("validation").Inc()
		return nil, err
	}

	var evidenceURL sql.NullString
	if evidence != nil {
		key := evidenceKey(ident, evidence.Filename)
		url, err := s.blobs.Put(ctx, key, evidence.Data, evidence.ContentType)
		if err != nil {
			metrics.EvidenceUploads.WithLabelValues("failure").Inc()
			metrics.ComplaintsRejected.WithLabelValues("evidence_upload").Inc()
			s.log.Errorw("evidence upload failed", "key", key, "error", err)
			return nil, fmt.Errorf("%w: %v", ErrEvidenceUpload, err)
		}
		metrics.EvidenceUploads.WithLabelValues("success").Inc()
		evidenceURL = sql.NullString{String: url, Valid: true}
	}

	college, err := s.colleges.GetOrCreate(ctx, sub.CollegeName, sub.CollegeLocation)
	if err != nil {
		return nil, fmt.Errorf("resolving college %q: %w", sub.CollegeName, err)
	}

	complaint := &store.Complaint{
		UserID:      ident.UserID,
		CollegeID:   sql.NullInt64{Int64: college.ID, Valid: true},
		CollegeName: sub.CollegeName,
		Description: sub.ComplaintDetails,
		EvidenceURL: evidenceURL,
	}
	complaintID, err := s.complaints.Create(ctx, complaint)
	if err != nil {
		return nil, fmt.Errorf("storing complaint: %w", err)
	}

	if err := s.colleges.IncrementTotal(ctx, college.ID); err != nil {
		s.log.Warnw("failed to bump college complaint counter",
			"college", college.ID, "error", err)
	}

	today := s.today()
	cs := &tracking.Case{
		ID:                  caseIDFor(complaintID),
		Status:              tracking.StatusNew,
		Progress:            0,
		LastUpdated:         today,
		Priority:            tracking.PriorityMedium,
		Category:            sub.ComplaintTitle,
		EstimatedCompletion: tracking.EstimatedCompletionUndetermined,
		Notes:               "Complaint received",
		AuthorizedUsers:     []string{ident.UserID},
		College:             college.Name,
		CollegeID:           college.ID,
	}
	if err := s.cases.Create(ctx, cs); err != nil {
		return nil, fmt.Errorf("opening case for complaint %d: %w", complaintID, err)
	}
	if err := s.cases.LinkComplaint(ctx, cs.ID, complaintID); err != nil {
		s.log.Warnw("failed to link complaint to case",
			"case", cs.ID, "complaint", complaintID, "error", err)
	}

	metrics.ComplaintsSubmitted.WithLabelValues(college.Name).Inc()
	s.log.Infow("complaint submitted",
		"case", cs.ID,
		"complaint", complaintID,
		"college", college.Name,
		"evidence", evidenceURL.Valid)

	return &Result{Complaint: complaint, Case: cs}, nil
}

// ListOwn returns the submitter's complaints, newest first.
func (s *Service) ListOwn(ctx context.Context, ident Identity) ([]*store.Complaint, error) {
	return s.complaints.ListByUser(ctx, ident.UserID)
}
