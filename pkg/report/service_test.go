package report

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campuswatch/campuswatch/pkg/store"
	"github.com/campuswatch/campuswatch/pkg/tracking"
)

type fakeBlobStore struct {
	puts map[string][]byte
	err  error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{puts: map[string][]byte{}}
}

func (f *fakeBlobStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.puts[key] = data
	return "https://cdn.example.org/" + key, nil
}

func (f *fakeBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := f.puts[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func (f *fakeBlobStore) Delete(_ context.Context, key string) error {
	delete(f.puts, key)
	return nil
}

type serviceFixture struct {
	service    *Service
	blobs      *fakeBlobStore
	complaints *store.ComplaintRepository
	colleges   *store.CollegeRepository
	cases      *store.CaseRepository
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	blobs := newFakeBlobStore()
	complaints := store.NewComplaintRepository(db)
	colleges := store.NewCollegeRepository(db)
	cases := store.NewCaseRepository(db)

	service := NewService(complaints, colleges, cases, blobs,
		zap.NewNop().Sugar(), func() string { return "2026-02-10" })

	return &serviceFixture{
		service:    service,
		blobs:      blobs,
		complaints: complaints,
		colleges:   colleges,
		cases:      cases,
	}
}

func validSubmission() Submission {
	return Submission{
		InformerName:     "Jordan Lee",
		InformerAddress:  "12 Elm Street",
		CollegeName:      "Northfield College",
		CollegeLocation:  "Northfield",
		ComplaintTitle:   "Harassment",
		ComplaintDetails: "Repeated harassment in the dormitories.",
	}
}

func TestSubmitCreatesComplaintAndCase(t *testing.T) {
	fx := newServiceFixture(t)
	ident := Identity{UserID: "user123", Email: "jordan@example.org"}

	result, err := fx.service.Submit(context.Background(), ident, validSubmission(), nil)
	require.NoError(t, err)

	assert.Equal(t, "Pending Analysis", result.Complaint.Authority)
	assert.Equal(t, "Pending", result.Complaint.Status)
	assert.False(t, result.Complaint.Escalated)
	assert.False(t, result.Complaint.EvidenceURL.Valid)

	cs := result.Case
	assert.Equal(t, fmt.Sprintf("CMP-%05d", 10000+result.Complaint.ID), cs.ID)
	assert.Equal(t, tracking.StatusNew, cs.Status)
	assert.Equal(t, 0, cs.Progress)
	assert.Equal(t, "2026-02-10", cs.LastUpdated)
	assert.Equal(t, tracking.PriorityMedium, cs.Priority)
	assert.Equal(t, "Harassment", cs.Category)
	assert.Equal(t, "Northfield College", cs.College)
	assert.Equal(t, []string{"user123"}, cs.AuthorizedUsers)

	// The case must be trackable through the repository afterwards.
	stored, err := fx.cases.Get(context.Background(), cs.ID)
	require.NoError(t, err)
	assert.Equal(t, cs.ID, stored.ID)
	assert.Equal(t, []string{"user123"}, stored.AuthorizedUsers)

	college, err := fx.colleges.GetByName(context.Background(), "Northfield College")
	require.NoError(t, err)
	assert.Equal(t, 1, college.TotalComplaints)
	assert.Equal(t, 0, college.SolvedComplaints)
}

func TestSubmitValidation(t *testing.T) {
	fx := newServiceFixture(t)
	ident := Identity{UserID: "user123"}

	tests := []struct {
		field  string
		mutate func(*Submission)
	}{
		{"informerName", func(s *Submission) { s.InformerName = "" }},
		{"informerAddress", func(s *Submission) { s.InformerAddress = "  " }},
		{"collegeName", func(s *Submission) { s.CollegeName = "" }},
		{"collegeLocation", func(s *Submission) { s.CollegeLocation = "" }},
		{"complaintTitle", func(s *Submission) { s.ComplaintTitle = "" }},
		{"complaintDetails", func(s *Submission) { s.ComplaintDetails = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.field, func(t *testing.T) {
			sub := validSubmission()
			tc.mutate(&sub)

			_, err := fx.service.Submit(context.Background(), ident, sub, nil)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}

	// Nothing may be persisted for rejected submissions.
	complaints, err := fx.complaints.ListByUser(context.Background(), "user123")
	require.NoError(t, err)
	assert.Empty(t, complaints)
}

func TestSubmitStoresEvidence(t *testing.T) {
	fx := newServiceFixture(t)
	ident := Identity{UserID: "user123", Email: "jordan@example.org"}
	evidence := &Evidence{
		Filename:    "photo.png",
		ContentType: "image/png",
		Data:        []byte("png bytes"),
	}

	result, err := fx.service.Submit(context.Background(), ident, validSubmission(), evidence)
	require.NoError(t, err)

	require.True(t, result.Complaint.EvidenceURL.Valid)
	assert.Equal(t, "https://cdn.example.org/jordan@example.org_user123.png",
		result.Complaint.EvidenceURL.String)
	assert.Equal(t, []byte("png bytes"), fx.blobs.puts["jordan@example.org_user123.png"])
}

func TestSubmitEvidenceUploadFailureBlocksSubmission(t *testing.T) {
	fx := newServiceFixture(t)
	fx.blobs.err = errors.New("bucket unavailable")
	ident := Identity{UserID: "user123", Email: "jordan@example.org"}

	_, err := fx.service.Submit(context.Background(), ident, validSubmission(),
		&Evidence{Filename: "photo.png", Data: []byte("x")})
	require.ErrorIs(t, err, ErrEvidenceUpload)

	complaints, listErr := fx.complaints.ListByUser(context.Background(), "user123")
	require.NoError(t, listErr)
	assert.Empty(t, complaints)
}

func TestSubmitReusesExistingCollege(t *testing.T) {
	fx := newServiceFixture(t)
	ident := Identity{UserID: "user123"}

	_, err := fx.service.Submit(context.Background(), ident, validSubmission(), nil)
	require.NoError(t, err)
	_, err = fx.service.Submit(context.Background(), ident, validSubmission(), nil)
	require.NoError(t, err)

	colleges, err := fx.colleges.List(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, colleges, 1)
	assert.Equal(t, 2, colleges[0].TotalComplaints)
}

func TestListOwn(t *testing.T) {
	fx := newServiceFixture(t)

	_, err := fx.service.Submit(context.Background(), Identity{UserID: "user123"}, validSubmission(), nil)
	require.NoError(t, err)

	other := validSubmission()
	other.CollegeName = "Southbank University"
	_, err = fx.service.Submit(context.Background(), Identity{UserID: "user456"}, other, nil)
	require.NoError(t, err)

	own, err := fx.service.ListOwn(context.Background(), Identity{UserID: "user123"})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "Northfield College", own[0].CollegeName)
}

func TestEvidenceKey(t *testing.T) {
	ident := Identity{UserID: "user123", Email: "jordan@example.org"}

	assert.Equal(t, "jordan@example.org_user123.jpeg", evidenceKey(ident, "holiday.jpeg"))
	assert.Equal(t, "jordan@example.org_user123.", evidenceKey(ident, "noextension"))
}
