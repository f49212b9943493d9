package tracking

// Status is the lifecycle state of a tracked case.
type Status string

const (
	StatusNew         Status = "New"
	StatusInProgress  Status = "In Progress"
	StatusUnderReview Status = "Under Review"
	StatusOnHold      Status = "On Hold"
	StatusResolved    Status = "Resolved"
)

// Priority classifies the urgency of a case.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// MaxEscalations is the cap on escalations per case.
const MaxEscalations = 2

// EscalationReviewPending is the initial review status of a new escalation.
const EscalationReviewPending = "Pending Review"

// EstimatedCompletionUndetermined marks a case without a completion estimate.
const EstimatedCompletionUndetermined = "TBD"

// Authorities is the fixed list of escalation targets.
var Authorities = []string{
	"Station Captain",
	"District Supervisor",
	"Internal Affairs",
	"Chief of Police",
	"City Council Representative",
	"Department of Justice",
}

// IsValidAuthority reports whether target is a member of the fixed
// authority list.
func IsValidAuthority(target string) bool {
	for _, a := range Authorities {
		if a == target {
			return true
		}
	}
	return false
}

// Escalation is a single escalation request on a case. Immutable once
// created; appended to the case's escalation sequence.
type Escalation struct {
	To     string `json:"to"`
	Reason string `json:"reason"`
	Date   string `json:"date"` // YYYY-MM-DD
	Status string `json:"status"`
}

// Case is a tracked complaint record.
type Case struct {
	ID                  string       `json:"id"`
	Status              Status       `json:"status"`
	Progress            int          `json:"progress"` // 0-100, 100 only when Resolved
	LastUpdated         string       `json:"lastUpdated"`
	AssignedTo          string       `json:"assignedTo"`
	Priority            Priority     `json:"priority"`
	Category            string       `json:"category"`
	EstimatedCompletion string       `json:"estimatedCompletion"`
	Notes               string       `json:"notes"`
	EscalationCount     int          `json:"escalationCount"`
	Escalations         []Escalation `json:"escalations"`
	AuthorizedUsers     []string     `json:"authorizedUsers,omitempty"`

	// College the underlying complaint was filed against. The numeric ID
	// stays internal; only the display name is exposed.
	College   string `json:"college,omitempty"`
	CollegeID int64  `json:"-"`
}

// Clone returns a deep copy of the case.
func (cs *Case) Clone() *Case {
	out := *cs
	out.Escalations = append([]Escalation(nil), cs.Escalations...)
	out.AuthorizedUsers = append([]string(nil), cs.AuthorizedUsers...)
	return &out
}

// IsAuthorized reports whether identity may view this case.
func (cs *Case) IsAuthorized(identity string) bool {
	for _, u := range cs.AuthorizedUsers {
		if u == identity {
			return true
		}
	}
	return false
}
