package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/campuswatch/campuswatch/pkg/cwctl/client"
)

func init() {
	// Keep assertions free of ANSI escapes.
	color.NoColor = true
}

func TestWriteCaseTable(t *testing.T) {
	var buf bytes.Buffer
	WriteCaseTable(&buf, []client.Case{
		{ID: "CMP-10001", Status: "In Progress", Progress: 40, Priority: "Medium", Category: "Harassment", College: "Northfield College", LastUpdated: "2026-02-10"},
		{ID: "CMP-10002", Status: "Resolved", Progress: 100, Priority: "High", Category: "Theft"},
	})

	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "CMP-10001")
	assert.Contains(t, out, "In Progress")
	assert.Contains(t, out, "Northfield College")
	assert.Contains(t, out, "40%")
	// Empty college renders as a dash.
	assert.Contains(t, out, "-")
}

func TestWriteCaseDetail(t *testing.T) {
	var buf bytes.Buffer
	WriteCaseDetail(&buf, &client.Case{
		ID:              "CMP-10001",
		Status:          "Under Review",
		Progress:        60,
		Priority:        "High",
		Category:        "Harassment",
		College:         "Northfield College",
		EscalationCount: 1,
		Escalations: []client.Escalation{{
			To:     "Department of Justice",
			Reason: "no progress",
			Date:   "2026-02-15",
			Status: "Pending Review",
		}},
	})

	out := buf.String()
	assert.Contains(t, out, "Status:")
	assert.Contains(t, out, "Under Review")
	assert.Contains(t, out, "Escalations (1):")
	assert.Contains(t, out, "Department of Justice")
}

func TestWriteComplaintTable(t *testing.T) {
	var buf bytes.Buffer
	WriteComplaintTable(&buf, []client.Complaint{
		{ID: 1, CollegeName: "Northfield College", Authority: "Pending Analysis", Status: "Pending", CreatedAt: time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)},
		{ID: 2, CollegeName: "Lakeside University", Authority: "Internal Affairs", Status: "Escalated", Escalated: true, EscalatedTo: "Internal Affairs", CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
	})

	out := buf.String()
	assert.Contains(t, out, "Pending Analysis")
	assert.Contains(t, out, "2026-02-10")
	assert.Contains(t, out, "Internal Affairs")
}

func TestWriteCollegeTable(t *testing.T) {
	var buf bytes.Buffer
	WriteCollegeTable(&buf, []client.College{
		{ID: 1, Name: "Northfield College", Location: "Northfield", Verified: true, TotalComplaints: 4, SolvedComplaints: 3, SafetyScore: 25},
	})

	out := buf.String()
	assert.Contains(t, out, "Northfield College")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "25")
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, &client.SafetySummary{
		Colleges:           2,
		TotalComplaints:    6,
		SolvedComplaints:   3,
		AverageSafetyScore: 75,
		ResolutionRate:     50,
	})

	out := buf.String()
	assert.Contains(t, out, "Colleges:")
	assert.Contains(t, out, "75.00")
	assert.Contains(t, out, "50.00%")
}

func TestWriteList(t *testing.T) {
	var buf bytes.Buffer
	WriteList(&buf, []string{"Lakeside", "Northfield"})
	assert.Equal(t, "Lakeside\nNorthfield\n", buf.String())
}
