package mail

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/campuswatch/campuswatch/pkg/config"
)

// Service owns the mail queue lifecycle and renders case notifications.
// When no mail host is configured the service stays disabled and every
// notification becomes a no-op, so callers never have to check first.
type Service struct {
	cfg    config.Config
	logger *zap.SugaredLogger

	mu    sync.RWMutex
	queue *Queue
}

// NewService creates a mail Service from static configuration.
func NewService(cfg config.Config, logger *zap.SugaredLogger) *Service {
	return &Service{
		cfg:    cfg,
		logger: logger.Named("mail-service"),
	}
}

// Start initializes the sender and queue when mail is configured.
func (s *Service) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.Mail.Host == "" {
		s.logger.Warn("No mail host configured, notifications disabled")
		return nil
	}

	mailSender := NewSender(s.cfg, s.logger)
	s.queue = NewQueue(mailSender, s.logger, s.cfg.Mail.RetryCount, s.cfg.Mail.RetryBackoffMs, s.cfg.Mail.QueueSize)
	s.queue.Start()

	s.logger.Infow("Mail queue initialized and started",
		"host", s.cfg.Mail.Host,
		"retryCount", s.cfg.Mail.RetryCount,
		"retryBackoffMs", s.cfg.Mail.RetryBackoffMs,
		"queueSize", s.cfg.Mail.QueueSize)

	return nil
}

// IsEnabled returns whether the mail service has an active queue.
func (s *Service) IsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue != nil
}

// Stop gracefully shuts down the mail service.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queue != nil {
		s.logger.Info("Stopping mail service")
		err := s.queue.Stop(ctx)
		s.queue = nil
		return err
	}
	return nil
}

// Enqueue adds an email to the mail queue.
// If the queue is not initialized, the email is silently dropped.
func (s *Service) Enqueue(id string, recipients []string, subject, body string) error {
	s.mu.RLock()
	queue := s.queue
	s.mu.RUnlock()

	if queue == nil {
		s.logger.Debugw("Mail queue not initialized, dropping email",
			"id", id,
			"recipients", len(recipients))
		return nil
	}

	return queue.Enqueue(id, recipients, subject, body)
}

// authorityRecipients resolves the mail addresses for an authority from
// configuration. Unknown authorities get no mail.
func (s *Service) authorityRecipients(authority string) []string {
	addr, ok := s.cfg.Mail.AuthorityAddresses[authority]
	if !ok || addr == "" {
		return nil
	}
	return []string{addr}
}

// NotifyEscalation sends the escalation notification to the target
// authority's configured address.
func (s *Service) NotifyEscalation(p EscalationMailParams) error {
	recipients := s.authorityRecipients(p.Authority)
	if len(recipients) == 0 {
		s.logger.Debugw("No mail address configured for authority, skipping notification",
			"authority", p.Authority,
			"caseID", p.CaseID)
		return nil
	}

	if p.BrandingName == "" {
		p.BrandingName = s.cfg.Frontend.BrandingName
	}

	body, err := RenderEscalation(p)
	if err != nil {
		return fmt.Errorf("render escalation mail: %w", err)
	}

	subject := fmt.Sprintf("[%s] Case %s escalated to %s", p.BrandingName, p.CaseID, p.Authority)
	return s.Enqueue(p.CaseID, recipients, subject, body)
}

// NotifyResolved sends the resolution notification to the given recipients.
func (s *Service) NotifyResolved(recipients []string, p ResolvedMailParams) error {
	if len(recipients) == 0 {
		return nil
	}

	if p.BrandingName == "" {
		p.BrandingName = s.cfg.Frontend.BrandingName
	}

	body, err := RenderResolved(p)
	if err != nil {
		return fmt.Errorf("render resolved mail: %w", err)
	}

	subject := fmt.Sprintf("[%s] Case %s resolved", p.BrandingName, p.CaseID)
	return s.Enqueue(p.CaseID, recipients, subject, body)
}

// NotifyComplaintReceived sends the intake acknowledgement to the given
// recipients, typically a staff distribution list.
func (s *Service) NotifyComplaintReceived(recipients []string, p ComplaintReceivedMailParams) error {
	if len(recipients) == 0 {
		return nil
	}

	if p.BrandingName == "" {
		p.BrandingName = s.cfg.Frontend.BrandingName
	}

	body, err := RenderComplaintReceived(p)
	if err != nil {
		return fmt.Errorf("render complaint received mail: %w", err)
	}

	subject := fmt.Sprintf("[%s] New complaint filed (case %s)", p.BrandingName, p.CaseID)
	return s.Enqueue(p.CaseID, recipients, subject, body)
}
