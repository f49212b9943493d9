package mail

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/Masterminds/sprig/v3"
)

// EscalationMailParams feeds the notification sent to an authority when
// a case is escalated to them.
type EscalationMailParams struct {
	CaseID           string
	Authority        string
	EscalationNumber int
	Reason           string
	Category         string
	Priority         string
	Status           string
	Progress         int
	College          string
	EscalatedAt      string
	URL              string
	BrandingName     string
}

// ResolvedMailParams feeds the notification sent when a case is resolved.
type ResolvedMailParams struct {
	CaseID       string
	Category     string
	College      string
	ResolvedAt   string
	URL          string
	BrandingName string
}

// ComplaintReceivedMailParams feeds the acknowledgement sent when a new
// complaint has been filed and a case opened for it.
type ComplaintReceivedMailParams struct {
	CaseID       string
	College      string
	Category     string
	SubmittedAt  string
	URL          string
	BrandingName string
}

var (
	escalationTemplate        = template.New("escalation").Funcs(sprig.FuncMap())
	resolvedTemplate          = template.New("resolved").Funcs(sprig.FuncMap())
	complaintReceivedTemplate = template.New("complaintReceived").Funcs(sprig.FuncMap())

	//go:embed templates/escalation.html
	escalationTemplateRaw string
	//go:embed templates/resolved.html
	resolvedTemplateRaw string
	//go:embed templates/complaintReceived.html
	complaintReceivedTemplateRaw string
)

func init() {
	if _, err := escalationTemplate.Parse(escalationTemplateRaw); err != nil {
		panic(err)
	}
	if _, err := resolvedTemplate.Parse(resolvedTemplateRaw); err != nil {
		panic(err)
	}
	if _, err := complaintReceivedTemplate.Parse(complaintReceivedTemplateRaw); err != nil {
		panic(err)
	}
}

func render(t *template.Template, p any) (string, error) {
	b := bytes.Buffer{}
	err := t.Execute(&b, p)
	return b.String(), err
}

func RenderEscalation(p EscalationMailParams) (string, error) {
	return render(escalationTemplate, p)
}

func RenderResolved(p ResolvedMailParams) (string, error) {
	return render(resolvedTemplate, p)
}

func RenderComplaintReceived(p ComplaintReceivedMailParams) (string, error) {
	return render(complaintReceivedTemplate, p)
}
