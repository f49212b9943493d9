package report

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campuswatch/campuswatch/pkg/apiresponses"
	"github.com/campuswatch/campuswatch/pkg/audit"
	"github.com/campuswatch/campuswatch/pkg/identity"
	"github.com/campuswatch/campuswatch/pkg/mail"
	"github.com/campuswatch/campuswatch/pkg/store"
)

// maxEvidenceBytes bounds a single evidence upload.
const maxEvidenceBytes = 10 << 20 // 10 MiB

// Auditor records security-relevant events. Satisfied by audit.Service.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event)
}

// Notifier acknowledges submissions by mail. Satisfied by mail.Service.
type Notifier interface {
	NotifyComplaintReceived(recipients []string, p mail.ComplaintReceivedMailParams) error
}

// Controller exposes complaint intake over HTTP.
type Controller struct {
	service    *Service
	log        *zap.SugaredLogger
	middleware []gin.HandlerFunc
	idp        identity.Provider
	auditor    Auditor
	notifier   Notifier
	baseURL    string
}

func NewController(log *zap.SugaredLogger,
	service *Service,
	middleware []gin.HandlerFunc,
	auditor Auditor,
	notifier Notifier,
	baseURL string,
) *Controller {
	return &Controller{
		service:    service,
		log:        log,
		middleware: middleware,
		idp:        identity.TokenProvider{},
		auditor:    auditor,
		notifier:   notifier,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (rc *Controller) Register(rg *gin.RouterGroup) error {
	rg.POST("", rc.handleSubmit)
	rg.GET("", rc.handleListOwn)
	return nil
}

func (Controller) BasePath() string {
	return "complaints/"
}

func (rc Controller) Handlers() []gin.HandlerFunc {
	return rc.middleware
}

// ComplaintResponse is the JSON shape of a stored complaint.
type ComplaintResponse struct {
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

func toComplaintResponse(c *store.Complaint) ComplaintResponse {
	out := ComplaintResponse{
		ID:          c.ID,
		CollegeName: c.CollegeName,
		Description: c.Description,
		Authority:   c.Authority,
		Status:      c.Status,
		Escalated:   c.Escalated,
		CreatedAt:   c.CreatedAt,
	}
	if c.EscalatedTo.Valid {
		out.EscalatedTo = c.EscalatedTo.String
	}
	if c.EvidenceURL.Valid {
		out.EvidenceURL = c.EvidenceURL.String
	}
	if c.ResolvedAt.Valid {
		out.ResolvedAt = c.ResolvedAt.Time.Format("2006-01-02")
	}
	return out
}

func (rc *Controller) handleSubmit(c *gin.Context) {
	ident := Identity{
		UserID: rc.idp.Identity(c),
		Email:  rc.idp.Email(c),
	}

	var sub Submission
	var evidence *Evidence

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.ShouldBind(&sub); err != nil {
			apiresponses.RespondBadRequest(c, "invalid form data")
			return
		}
		file, err := c.FormFile("evidence")
		if err == nil {
			if file.Size > maxEvidenceBytes {
				apiresponses.RespondBadRequest(c, "evidence file too large")
				return
			}
			f, err := file.Open()
			if err != nil {
				apiresponses.RespondInternalError(c, "reading evidence upload", err, rc.log)
				return
			}
			data, err := io.ReadAll(io.LimitReader(f, maxEvidenceBytes+1))
			_ = f.Close()
			if err != nil {
				apiresponses.RespondInternalError(c, "reading evidence upload", err, rc.log)
				return
			}
			evidence = &Evidence{
				Filename:    file.Filename,
				ContentType: file.Header.Get("Content-Type"),
				Data:        data,
			}
		}
	} else {
		if err := c.BindJSON(&sub); err != nil {
			apiresponses.RespondBadRequest(c, "invalid request body")
			return
		}
	}

	result, err := rc.service.Submit(c.Request.Context(), ident, sub, evidence)
	if err != nil {
		rc.respondSubmitError(c, ident, err)
		return
	}

	rc.auditor.Emit(c.Request.Context(), audit.Event{
		Type: audit.EventComplaintSubmitted,
		Actor: audit.Actor{
			User:      ident.UserID,
			Email:     ident.Email,
			SourceIP:  c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		},
		Target: audit.Target{
			Kind:    "complaint",
			Name:    result.Case.ID,
			College: result.Case.College,
		},
	})
	if evidence != nil {
		rc.auditor.Emit(c.Request.Context(), audit.Event{
			Type:   audit.EventEvidenceUploaded,
			Actor:  audit.Actor{User: ident.UserID, Email: ident.Email, SourceIP: c.ClientIP()},
			Target: audit.Target{Kind: "evidence", Name: result.Case.ID, College: result.Case.College},
		})
	}

	rc.acknowledge(ident, result)

	apiresponses.RespondCreated(c, gin.H{
		"complaint": toComplaintResponse(result.Complaint),
		"case":      result.Case,
	})
}

func (rc *Controller) respondSubmitError(c *gin.Context, ident Identity, err error) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		rc.auditor.Emit(c.Request.Context(), audit.Event{
			Type:    audit.EventComplaintRejected,
			Actor:   audit.Actor{User: ident.UserID, SourceIP: c.ClientIP()},
			Target:  audit.Target{Kind: "complaint", Name: "-"},
			Details: map[string]interface{}{"field": vErr.Field},
		})
		apiresponses.RespondBadRequestWithDetails(c, "missing required field", vErr.Field)
	case errors.Is(err, ErrEvidenceUpload):
		rc.auditor.Emit(c.Request.Context(), audit.Event{
			Type:   audit.EventEvidenceFailed,
			Actor:  audit.Actor{User: ident.UserID, SourceIP: c.ClientIP()},
			Target: audit.Target{Kind: "evidence", Name: "-"},
		})
		apiresponses.RespondBadGateway(c, "evidence upload failed, complaint not submitted")
	default:
		apiresponses.RespondInternalError(c, "complaint submission", err, rc.log)
	}
}

// acknowledge mails the submitter that the complaint was received.
func (rc *Controller) acknowledge(ident Identity, result *Result) {
	if ident.Email == "" {
		return
	}

	url := ""
	if rc.baseURL != "" {
		url = rc.baseURL + "/cases/" + result.Case.ID
	}
	if err := rc.notifier.NotifyComplaintReceived([]string{ident.Email}, mail.ComplaintReceivedMailParams{
		CaseID:      result.Case.ID,
		College:     result.Case.College,
		Category:    result.Case.Category,
		SubmittedAt: result.Case.LastUpdated,
		URL:         url,
	}); err != nil {
		rc.log.Warnw("failed to queue submission acknowledgement",
			"case", result.Case.ID, "error", err)
	}
}

func (rc *Controller) handleListOwn(c *gin.Context) {
	ident := Identity{UserID: rc.idp.Identity(c)}

	complaints, err := rc.service.ListOwn(c.Request.Context(), ident)
	if err != nil {
		apiresponses.RespondInternalError(c, "listing complaints", err, rc.log)
		return
	}

	out := make([]ComplaintResponse, 0, len(complaints))
	for _, cm := range complaints {
		out = append(out, toComplaintResponse(cm))
	}
	apiresponses.RespondOK(c, gin.H{"complaints": out})
}
