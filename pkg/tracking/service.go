package tracking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/campuswatch/campuswatch/pkg/metrics"
)

// escalationProgressBump is added to a case's progress on each successful
// escalation, clamped below 100 because the case is not yet resolved.
const escalationProgressBump = 30

// Service implements the case tracking workflow: lookup with
// authorization, escalation, and resolution. All operations take the
// requesting identity explicitly.
type Service struct {
	store  CaseStore
	recent *RecentSearches
	log    *zap.SugaredLogger

	// now is injectable for tests.
	now func() time.Time

	// Per-case mutual exclusion. The store itself is safe for concurrent
	// use, but escalate/resolve are read-modify-write sequences.
	locks sync.Map
}

// NewService creates a tracking Service backed by the given store.
func NewService(store CaseStore, log *zap.SugaredLogger) *Service {
	return &Service{
		store:  store,
		recent: NewRecentSearches(),
		log:    log.Named("tracking"),
		now:    time.Now,
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) today() string {
	return s.now().Format("2006-01-02")
}

func (s *Service) lockCase(id string) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Track looks up a case on behalf of identity. Returns ErrCaseNotFound
// for unknown IDs and ErrNotAuthorized when identity is not in the
// case's authorized set; case contents are never returned alongside
// either error. On success the case ID is recorded in identity's
// recent searches.
func (s *Service) Track(ctx context.Context, id, identity string) (*Case, error) {
	cs, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCaseNotFound) {
			metrics.CasesTracked.WithLabelValues("not_found").Inc()
		} else {
			metrics.CasesTracked.WithLabelValues("error").Inc()
		}
		return nil, err
	}
	if !cs.IsAuthorized(identity) {
		metrics.CasesTracked.WithLabelValues("not_authorized").Inc()
		s.log.Infow("case lookup denied", "case", id, "identity", identity)
		return nil, ErrNotAuthorized
	}

	s.recent.Record(identity, id)
	metrics.CasesTracked.WithLabelValues("found").Inc()
	return cs, nil
}

// Recent returns identity's recent successful lookups, most recent first.
func (s *Service) Recent(identity string) []string {
	return s.recent.For(identity)
}

// Escalate applies an escalation request to a case.
//
// Input validation runs before any business rule: target must be a
// member of the fixed authority list and reason must be non-empty after
// trimming, otherwise ErrInvalidInput. A Resolved case or a case at the
// escalation cap returns ErrNotEscalatable. The UI hides the escalate
// action in those states already; the engine enforces the rules anyway.
func (s *Service) Escalate(ctx context.Context, id, identity, target, reason string) (*Case, error) {
	if target == "" || !IsValidAuthority(target) {
		metrics.EscalationsRejected.WithLabelValues("invalid_input").Inc()
		return nil, fmt.Errorf("%w: unknown authority %q", ErrInvalidInput, target)
	}
	if strings.TrimSpace(reason) == "" {
		metrics.EscalationsRejected.WithLabelValues("invalid_input").Inc()
		return nil, fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}

	unlock := s.lockCase(id)
	defer unlock()

	cs, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !cs.IsAuthorized(identity) {
		return nil, ErrNotAuthorized
	}
	if cs.Status == StatusResolved {
		metrics.EscalationsRejected.WithLabelValues("not_escalatable").Inc()
		return nil, fmt.Errorf("%w: case is resolved", ErrNotEscalatable)
	}
	if cs.EscalationCount >= MaxEscalations {
		metrics.EscalationsRejected.WithLabelValues("not_escalatable").Inc()
		return nil, fmt.Errorf("%w: maximum of %d escalations reached", ErrNotEscalatable, MaxEscalations)
	}

	today := s.today()
	cs.Escalations = append(cs.Escalations, Escalation{
		To:     target,
		Reason: reason,
		Date:   today,
		Status: EscalationReviewPending,
	})
	cs.EscalationCount++
	cs.Progress += escalationProgressBump
	if cs.Progress > 99 {
		cs.Progress = 99
	}
	cs.LastUpdated = today
	cs.Notes = fmt.Sprintf("%s. Escalated to %s (Escalation #%d)", cs.Notes, target, cs.EscalationCount)
	if cs.Status == StatusNew || cs.Status == StatusOnHold {
		cs.Status = StatusInProgress
	}

	if err := s.store.Save(ctx, cs); err != nil {
		return nil, fmt.Errorf("saving escalated case %s: %w", id, err)
	}

	metrics.CasesEscalated.WithLabelValues(target).Inc()
	s.log.Infow("case escalated",
		"case", id,
		"identity", identity,
		"authority", target,
		"count", cs.EscalationCount)
	return cs, nil
}

// Resolve marks a case resolved on behalf of identity. Resolving an
// already-Resolved case is a no-op and returns the case unchanged with
// changed=false; the audit note is only appended on the actual
// transition.
func (s *Service) Resolve(ctx context.Context, id, identity string) (cs *Case, changed bool, err error) {
	unlock := s.lockCase(id)
	defer unlock()

	cs, err = s.store.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if !cs.IsAuthorized(identity) {
		return nil, false, ErrNotAuthorized
	}
	if cs.Status == StatusResolved {
		return cs, false, nil
	}

	today := s.today()
	cs.Status = StatusResolved
	cs.Progress = 100
	cs.LastUpdated = today
	cs.EstimatedCompletion = today
	cs.Notes = cs.Notes + ". Case marked as resolved by user."

	if err := s.store.Save(ctx, cs); err != nil {
		return nil, false, fmt.Errorf("saving resolved case %s: %w", id, err)
	}

	metrics.CasesResolved.Inc()
	s.log.Infow("case resolved", "case", id, "identity", identity)
	return cs, true, nil
}
