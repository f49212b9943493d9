package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/campuswatch/campuswatch/pkg/cwctl/client"
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
}

func statusCell(status string) string {
	switch status {
	case "Resolved":
		return color.New(color.FgGreen).Sprint(status)
	case "Under Review":
		return color.New(color.FgYellow).Sprint(status)
	case "On Hold":
		return color.New(color.FgRed).Sprint(status)
	default:
		return status
	}
}

// WriteCaseTable prints a one-line summary per case.
func WriteCaseTable(w io.Writer, cases []client.Case) {
	tw := newTabWriter(w)
	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tPROGRESS\tPRIORITY\tCATEGORY\tCOLLEGE\tLAST_UPDATED")
	for _, cs := range cases {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d%%\t%s\t%s\t%s\t%s\n",
			cs.ID, statusCell(cs.Status), cs.Progress, cs.Priority, cs.Category, dash(cs.College), dash(cs.LastUpdated))
	}
	_ = tw.Flush()
}

// WriteCaseDetail prints the full case record including escalations.
func WriteCaseDetail(w io.Writer, cs *client.Case) {
	tw := newTabWriter(w)
	_, _ = fmt.Fprintf(tw, "ID:\t%s\n", cs.ID)
	_, _ = fmt.Fprintf(tw, "Status:\t%s\n", statusCell(cs.Status))
	_, _ = fmt.Fprintf(tw, "Progress:\t%d%%\n", cs.Progress)
	_, _ = fmt.Fprintf(tw, "Priority:\t%s\n", cs.Priority)
	_, _ = fmt.Fprintf(tw, "Category:\t%s\n", dash(cs.Category))
	_, _ = fmt.Fprintf(tw, "College:\t%s\n", dash(cs.College))
	_, _ = fmt.Fprintf(tw, "Assigned to:\t%s\n", dash(cs.AssignedTo))
	_, _ = fmt.Fprintf(tw, "Estimated completion:\t%s\n", dash(cs.EstimatedCompletion))
	_, _ = fmt.Fprintf(tw, "Last updated:\t%s\n", dash(cs.LastUpdated))
	if cs.Notes != "" {
		_, _ = fmt.Fprintf(tw, "Notes:\t%s\n", cs.Notes)
	}
	_ = tw.Flush()

	if len(cs.Escalations) > 0 {
		_, _ = fmt.Fprintf(w, "\nEscalations (%d):\n", cs.EscalationCount)
		etw := newTabWriter(w)
		_, _ = fmt.Fprintln(etw, "  TO\tDATE\tSTATUS\tREASON")
		for _, e := range cs.Escalations {
			_, _ = fmt.Fprintf(etw, "  %s\t%s\t%s\t%s\n", e.To, e.Date, e.Status, e.Reason)
		}
		_ = etw.Flush()
	}
}

// WriteComplaintTable prints the caller's complaints.
func WriteComplaintTable(w io.Writer, complaints []client.Complaint) {
	tw := newTabWriter(w)
	_, _ = fmt.Fprintln(tw, "ID\tCOLLEGE\tAUTHORITY\tSTATUS\tESCALATED\tSUBMITTED")
	for _, cp := range complaints {
		escalated := "-"
		if cp.Escalated {
			escalated = cp.EscalatedTo
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			cp.ID, cp.CollegeName, cp.Authority, statusCell(cp.Status), escalated, cp.CreatedAt.Format("2006-01-02"))
	}
	_ = tw.Flush()
}

// WriteCollegeTable prints college safety statistics.
func WriteCollegeTable(w io.Writer, colleges []client.College) {
	tw := newTabWriter(w)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tLOCATION\tVERIFIED\tCOMPLAINTS\tSOLVED\tSAFETY")
	for _, col := range colleges {
		verified := ""
		if col.Verified {
			verified = color.New(color.FgGreen).Sprint("yes")
		} else {
			verified = "no"
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%s\n",
			col.ID, col.Name, col.Location, verified, col.TotalComplaints, col.SolvedComplaints, scoreCell(col.SafetyScore))
	}
	_ = tw.Flush()
}

// WriteSummary prints the aggregate safety dashboard.
func WriteSummary(w io.Writer, summary *client.SafetySummary) {
	tw := newTabWriter(w)
	_, _ = fmt.Fprintf(tw, "Colleges:\t%d\n", summary.Colleges)
	_, _ = fmt.Fprintf(tw, "Total complaints:\t%d\n", summary.TotalComplaints)
	_, _ = fmt.Fprintf(tw, "Solved complaints:\t%d\n", summary.SolvedComplaints)
	_, _ = fmt.Fprintf(tw, "Average safety score:\t%.2f\n", summary.AverageSafetyScore)
	_, _ = fmt.Fprintf(tw, "Resolution rate:\t%.2f%%\n", summary.ResolutionRate)
	_ = tw.Flush()
}

// WriteList prints plain string items one per line.
func WriteList(w io.Writer, items []string) {
	_, _ = fmt.Fprintln(w, strings.Join(items, "\n"))
}

func scoreCell(score int) string {
	switch {
	case score >= 80:
		return color.New(color.FgGreen).Sprintf("%d", score)
	case score >= 50:
		return color.New(color.FgYellow).Sprintf("%d", score)
	default:
		return color.New(color.FgRed).Sprintf("%d", score)
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
