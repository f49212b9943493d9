package mail

import (
	"crypto/tls"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/campuswatch/campuswatch/pkg/config"
	"github.com/campuswatch/campuswatch/pkg/metrics"
)

// Sender delivers a single message over SMTP. The queue layer owns
// scheduling; Send itself retries transient dial failures a few times
// with a short backoff before giving up.
type Sender interface {
	Send(receivers []string, subject, body string) error
	GetHost() string
	GetPort() int
}

type sender struct {
	dialer         *gomail.Dialer
	log            *zap.SugaredLogger
	senderAddress  string
	senderName     string
	retryCount     int
	retryBackoffMs int
}

func NewSender(cfg config.Config, log *zap.SugaredLogger) Sender {
	log.Infow("Initializing SMTP sender",
		"host", cfg.Mail.Host, "port", cfg.Mail.Port, "user", cfg.Mail.User)

	d := gomail.NewDialer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password)
	if cfg.Mail.InsecureSkipVerify {
		log.Warn("TLS certificate verification disabled for SMTP connection")
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	senderAddr := cfg.Mail.SenderAddress
	if senderAddr == "" {
		senderAddr = "noreply@campuswatch.example.org"
	}
	senderName := cfg.Mail.SenderName
	if senderName == "" {
		senderName = cfg.Frontend.BrandingName
	}
	if senderName == "" {
		senderName = "CampusWatch"
	}

	retryCount := cfg.Mail.RetryCount
	if retryCount <= 0 {
		retryCount = 3
	}
	retryBackoffMs := cfg.Mail.RetryBackoffMs
	if retryBackoffMs <= 0 {
		retryBackoffMs = 100
	}

	return &sender{
		dialer:         d,
		log:            log,
		senderAddress:  senderAddr,
		senderName:     senderName,
		retryCount:     retryCount,
		retryBackoffMs: retryBackoffMs,
	}
}

// Send delivers one message. Recipients go on Bcc so informers never
// see who else was notified about a case.
func (s *sender) Send(receivers []string, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.senderAddress, s.senderName)
	msg.SetHeader("Bcc", receivers...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	var lastErr error
	backoffMs := s.retryBackoffMs

	for attempt := 0; attempt <= s.retryCount; attempt++ {
		if err := s.dialer.DialAndSend(msg); err != nil {
			lastErr = err
			if attempt < s.retryCount {
				s.log.Warnw("SMTP send failed, retrying",
					"attempt", attempt+1, "error", err, "backoffMs", backoffMs)
				time.Sleep(time.Duration(backoffMs) * time.Millisecond)
				backoffMs = min(backoffMs*2, 32000)
			}
			continue
		}
		s.log.Infow("Mail sent", "receivers", len(receivers), "attempt", attempt+1)
		metrics.MailSendSuccess.WithLabelValues(s.GetHost()).Inc()
		return nil
	}

	s.log.Errorw("Failed to send mail after all attempts",
		"attempts", s.retryCount+1, "error", lastErr)
	metrics.MailSendFailure.WithLabelValues(s.GetHost()).Inc()
	return lastErr
}

func (s *sender) GetHost() string {
	return s.dialer.Host
}

func (s *sender) GetPort() int {
	return s.dialer.Port
}
