package tracking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campuswatch/campuswatch/pkg/apiresponses"
	"github.com/campuswatch/campuswatch/pkg/audit"
	"github.com/campuswatch/campuswatch/pkg/identity"
	"github.com/campuswatch/campuswatch/pkg/mail"
)

// Auditor records security-relevant events. Satisfied by audit.Service.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event)
}

// Notifier sends case notifications. Satisfied by mail.Service.
type Notifier interface {
	NotifyEscalation(p mail.EscalationMailParams) error
	NotifyResolved(recipients []string, p mail.ResolvedMailParams) error
}

// CaseLedger mirrors workflow transitions onto the stored complaint
// and the college counters. Satisfied by the college service.
type CaseLedger interface {
	RecordEscalated(ctx context.Context, caseID, target string) error
	RecordSolved(ctx context.Context, caseID string, collegeID int64) error
}

// Controller exposes the case tracking workflow over HTTP.
type Controller struct {
	service    *Service
	log        *zap.SugaredLogger
	middleware []gin.HandlerFunc
	idp        identity.Provider
	auditor    Auditor
	notifier   Notifier
	directory  identity.Directory
	colleges   CaseLedger
	baseURL    string
}

// NewController wires the tracking controller. notifier, auditor,
// directory and colleges may be nil-free no-ops but not nil.
func NewController(log *zap.SugaredLogger,
	service *Service,
	middleware []gin.HandlerFunc,
	auditor Auditor,
	notifier Notifier,
	directory identity.Directory,
	colleges CaseLedger,
	baseURL string,
) *Controller {
	return &Controller{
		service:    service,
		log:        log,
		middleware: middleware,
		idp:        identity.TokenProvider{},
		auditor:    auditor,
		notifier:   notifier,
		directory:  directory,
		colleges:   colleges,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (tc *Controller) Register(rg *gin.RouterGroup) error {
	rg.GET("/recent", tc.handleRecent)
	rg.GET("/:id", tc.handleGet)
	rg.POST("/:id/escalate", tc.handleEscalate)
	rg.POST("/:id/resolve", tc.handleResolve)
	return nil
}

func (Controller) BasePath() string {
	return "cases/"
}

func (tc Controller) Handlers() []gin.HandlerFunc {
	return tc.middleware
}

func (tc *Controller) caseURL(id string) string {
	if tc.baseURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/cases/%s", tc.baseURL, id)
}

func (tc *Controller) actor(c *gin.Context) audit.Actor {
	return audit.Actor{
		User:      tc.idp.Identity(c),
		Email:     tc.idp.Email(c),
		SourceIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

func (tc *Controller) handleGet(c *gin.Context) {
	id := c.Param("id")
	ident := tc.idp.Identity(c)

	cs, err := tc.service.Track(c.Request.Context(), id, ident)
	if err != nil {
		tc.respondTrackError(c, id, err)
		return
	}

	tc.auditor.Emit(c.Request.Context(), audit.Event{
		Type:   audit.EventCaseTracked,
		Actor:  tc.actor(c),
		Target: audit.Target{Kind: "case", Name: id, College: cs.College},
	})
	apiresponses.RespondOK(c, cs)
}

func (tc *Controller) respondTrackError(c *gin.Context, id string, err error) {
	switch {
	case errors.Is(err, ErrCaseNotFound):
		tc.auditor.Emit(c.Request.Context(), audit.Event{
			Type:    audit.EventCaseTrackDenied,
			Actor:   tc.actor(c),
			Target:  audit.Target{Kind: "case", Name: id},
			Details: map[string]interface{}{"reason": "not_found"},
		})
		apiresponses.RespondNotFound(c, "case", id)
	case errors.Is(err, ErrNotAuthorized):
		tc.auditor.Emit(c.Request.Context(), audit.Event{
			Type:    audit.EventCaseTrackDenied,
			Actor:   tc.actor(c),
			Target:  audit.Target{Kind: "case", Name: id},
			Details: map[string]interface{}{"reason": "not_authorized"},
		})
		apiresponses.RespondForbidden(c, "you are not authorized to view this case")
	default:
		apiresponses.RespondInternalError(c, "case lookup", err, tc.log)
	}
}

func (tc *Controller) handleRecent(c *gin.Context) {
	ident := tc.idp.Identity(c)
	apiresponses.RespondOK(c, gin.H{"recentSearches": tc.service.Recent(ident)})
}

// EscalateRequest is the POST body for case escalation.
type EscalateRequest struct {
	To     string `json:"to"`
	Reason string `json:"reason"`
}

func (tc *Controller) handleEscalate(c *gin.Context) {
	id := c.Param("id")
	ident := tc.idp.Identity(c)

	var req EscalateRequest
	if err := c.BindJSON(&req); err != nil {
		apiresponses.RespondBadRequest(c, "invalid request body")
		return
	}

	cs, err := tc.service.Escalate(c.Request.Context(), id, ident, req.To, req.Reason)
	if err != nil {
		tc.respondEscalateError(c, id, req.To, err)
		return
	}

	tc.auditor.Emit(c.Request.Context(), audit.Event{
		Type:   audit.EventCaseEscalated,
		Actor:  tc.actor(c),
		Target: audit.Target{Kind: "case", Name: id, College: cs.College},
		Details: map[string]interface{}{
			"authority":  req.To,
			"escalation": cs.EscalationCount,
		},
	})

	if err := tc.colleges.RecordEscalated(c.Request.Context(), id, req.To); err != nil {
		tc.log.Warnw("failed to record escalation on complaint", "case", id, "error", err)
	}

	if err := tc.notifier.NotifyEscalation(mail.EscalationMailParams{
		CaseID:           cs.ID,
		Authority:        req.To,
		EscalationNumber: cs.EscalationCount,
		Reason:           req.Reason,
		Category:         cs.Category,
		Priority:         string(cs.Priority),
		Status:           string(cs.Status),
		Progress:         cs.Progress,
		College:          cs.College,
		EscalatedAt:      cs.LastUpdated,
		URL:              tc.caseURL(cs.ID),
	}); err != nil {
		tc.log.Warnw("failed to queue escalation notification", "case", id, "error", err)
	}

	apiresponses.RespondOK(c, cs)
}

func (tc *Controller) respondEscalateError(c *gin.Context, id, target string, err error) {
	denied := func(reason string) {
		tc.auditor.Emit(c.Request.Context(), audit.Event{
			Type:   audit.EventEscalationDenied,
			Actor:  tc.actor(c),
			Target: audit.Target{Kind: "case", Name: id},
			Details: map[string]interface{}{
				"reason":    reason,
				"authority": target,
			},
		})
	}

	switch {
	case errors.Is(err, ErrInvalidInput):
		denied("invalid_input")
		apiresponses.RespondBadRequestWithDetails(c, "invalid escalation request", err.Error())
	case errors.Is(err, ErrNotEscalatable):
		denied("not_escalatable")
		apiresponses.RespondConflict(c, err.Error())
	case errors.Is(err, ErrCaseNotFound):
		apiresponses.RespondNotFound(c, "case", id)
	case errors.Is(err, ErrNotAuthorized):
		denied("not_authorized")
		apiresponses.RespondForbidden(c, "you are not authorized to escalate this case")
	default:
		apiresponses.RespondInternalError(c, "case escalation", err, tc.log)
	}
}

func (tc *Controller) handleResolve(c *gin.Context) {
	id := c.Param("id")
	ident := tc.idp.Identity(c)

	cs, changed, err := tc.service.Resolve(c.Request.Context(), id, ident)
	if err != nil {
		switch {
		case errors.Is(err, ErrCaseNotFound):
			apiresponses.RespondNotFound(c, "case", id)
		case errors.Is(err, ErrNotAuthorized):
			apiresponses.RespondForbidden(c, "you are not authorized to resolve this case")
		default:
			apiresponses.RespondInternalError(c, "case resolution", err, tc.log)
		}
		return
	}

	if changed {
		tc.auditor.Emit(c.Request.Context(), audit.Event{
			Type:   audit.EventCaseResolved,
			Actor:  tc.actor(c),
			Target: audit.Target{Kind: "case", Name: id, College: cs.College},
		})

		if cs.CollegeID != 0 {
			if err := tc.colleges.RecordSolved(c.Request.Context(), id, cs.CollegeID); err != nil {
				tc.log.Warnw("failed to record solved case for college",
					"case", id, "collegeID", cs.CollegeID, "error", err)
			}
		}

		tc.notifyResolved(c, cs, ident)
	}

	apiresponses.RespondOK(c, cs)
}

// notifyResolved mails the resolving user. The token email claim is
// preferred; the directory is the fallback for tokens without one.
func (tc *Controller) notifyResolved(c *gin.Context, cs *Case, ident string) {
	email := tc.idp.Email(c)
	if email == "" {
		var err error
		email, err = tc.directory.UserEmail(c.Request.Context(), ident)
		if err != nil {
			tc.log.Debugw("no mail address for resolving user, skipping notification",
				"case", cs.ID, "identity", ident)
			return
		}
	}

	if err := tc.notifier.NotifyResolved([]string{email}, mail.ResolvedMailParams{
		CaseID:     cs.ID,
		Category:   cs.Category,
		College:    cs.College,
		ResolvedAt: cs.LastUpdated,
		URL:        tc.caseURL(cs.ID),
	}); err != nil {
		tc.log.Warnw("failed to queue resolution notification", "case", cs.ID, "error", err)
	}
}

// AuthorityController serves the fixed escalation authority list. The
// list is public so the complaint form can render it before login.
type AuthorityController struct{}

func (AuthorityController) Register(rg *gin.RouterGroup) error {
	rg.GET("", handleAuthorities)
	return nil
}

func (AuthorityController) BasePath() string {
	return "authorities/"
}

func (AuthorityController) Handlers() []gin.HandlerFunc {
	return []gin.HandlerFunc{}
}

func handleAuthorities(c *gin.Context) {
	apiresponses.RespondOK(c, gin.H{"authorities": Authorities})
}
