package mail

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuswatch/campuswatch/pkg/config"
)

func TestServiceDisabledWithoutHost(t *testing.T) {
	svc := NewService(config.Config{}, testLogger(t))

	require.NoError(t, svc.Start(context.Background()))
	assert.False(t, svc.IsEnabled())

	// Notifications are silently dropped when disabled.
	err := svc.NotifyEscalation(EscalationMailParams{
		CaseID:    "CMP-12345",
		Authority: "Station Captain",
	})
	assert.NoError(t, err)
	assert.NoError(t, svc.Stop(context.Background()))
}

func TestServiceNotifyEscalation(t *testing.T) {
	cfg := config.Config{}
	cfg.Mail.AuthorityAddresses = map[string]string{
		"Station Captain": "captain@pd.example.org",
	}
	cfg.Frontend.BrandingName = "CampusWatch"

	s := &fakeSender{}
	svc := NewService(cfg, testLogger(t))
	svc.queue = NewQueue(s, testLogger(t), 3, 10, 10)
	svc.queue.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = svc.Stop(ctx)
	}()

	err := svc.NotifyEscalation(EscalationMailParams{
		CaseID:           "CMP-12345",
		Authority:        "Station Captain",
		EscalationNumber: 1,
		Reason:           "stalled",
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return s.sentCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Equal(t, []string{"captain@pd.example.org"}, s.sent[0])
	assert.Contains(t, s.subjects[0], "CMP-12345")
	assert.Contains(t, s.subjects[0], "Station Captain")
}

func TestServiceNotifyEscalationUnknownAuthority(t *testing.T) {
	cfg := config.Config{}
	cfg.Mail.AuthorityAddresses = map[string]string{}

	s := &fakeSender{}
	svc := NewService(cfg, testLogger(t))
	svc.queue = NewQueue(s, testLogger(t), 3, 10, 10)
	svc.queue.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = svc.Stop(ctx)
	}()

	err := svc.NotifyEscalation(EscalationMailParams{
		CaseID:    "CMP-12345",
		Authority: "City Council Representative",
	})
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, s.sentCount())
}

func TestServiceNotifyResolved(t *testing.T) {
	s := &fakeSender{}
	svc := NewService(config.Config{}, testLogger(t))
	svc.queue = NewQueue(s, testLogger(t), 3, 10, 10)
	svc.queue.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = svc.Stop(ctx)
	}()

	err := svc.NotifyResolved([]string{"staff@campuswatch.example.org"}, ResolvedMailParams{
		CaseID:     "CMP-12345",
		ResolvedAt: "2026-02-15",
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return s.sentCount() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestServiceNotifyResolvedNoRecipients(t *testing.T) {
	svc := NewService(config.Config{}, testLogger(t))
	assert.NoError(t, svc.NotifyResolved(nil, ResolvedMailParams{CaseID: "CMP-12345"}))
}
