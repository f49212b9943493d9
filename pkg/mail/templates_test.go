package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEscalation(t *testing.T) {
	body, err := RenderEscalation(EscalationMailParams{
		CaseID:           "CMP-12345",
		Authority:        "Station Captain",
		EscalationNumber: 1,
		Reason:           "No visible progress for two weeks",
		Category:         "Harassment",
		Priority:         "High",
		Status:           "In Progress",
		Progress:         85,
		College:          "Northside College",
		EscalatedAt:      "2026-02-10",
		URL:              "https://campuswatch.example.org/cases/CMP-12345",
		BrandingName:     "CampusWatch",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "CMP-12345")
	assert.Contains(t, body, "Station Captain")
	assert.Contains(t, body, "escalation #1")
	assert.Contains(t, body, "No visible progress for two weeks")
	assert.Contains(t, body, "85%")
	assert.Contains(t, body, "https://campuswatch.example.org/cases/CMP-12345")
}

func TestRenderEscalationEscapesHTML(t *testing.T) {
	body, err := RenderEscalation(EscalationMailParams{
		CaseID: "CMP-12345",
		Reason: "<script>alert(1)</script>",
	})
	require.NoError(t, err)

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestRenderEscalationDefaultBranding(t *testing.T) {
	body, err := RenderEscalation(EscalationMailParams{CaseID: "CMP-12345"})
	require.NoError(t, err)
	assert.Contains(t, body, "CampusWatch")
}

func TestRenderResolved(t *testing.T) {
	body, err := RenderResolved(ResolvedMailParams{
		CaseID:       "CMP-12345",
		College:      "Northside College",
		Category:     "Theft",
		ResolvedAt:   "2026-02-15",
		BrandingName: "CampusWatch",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "CMP-12345")
	assert.Contains(t, body, "Northside College")
	assert.Contains(t, body, "2026-02-15")
}

func TestRenderComplaintReceived(t *testing.T) {
	body, err := RenderComplaintReceived(ComplaintReceivedMailParams{
		CaseID:      "CMP-99100",
		College:     "Riverside University",
		Category:    "Vandalism",
		SubmittedAt: "2026-03-01",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "CMP-99100")
	assert.Contains(t, body, "Riverside University")
	assert.Contains(t, body, "anonymity")
}
