package mailer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Payphone-Digital/hospital-registry/config"
	"github.com/Payphone-Digital/hospital-registry/pkg/circuit"
)

type countingSender struct {
	calls int
	err   error
}

func (s *countingSender) Send(context.Context, string, string, string) error {
	s.calls++
	return s.err
}

func TestBuildMessageHeaders(t *testing.T) {
	s := NewSMTPSender(config.MailConfig{
		Host:     "smtp.example.com",
		Port:     587,
		From:     "noreply@hospitalmgmt.com",
		FromName: "Hospital Management System",
	})

	var buf bytes.Buffer
	if _, err := s.buildMessage("ops@b.com", "Registration received", "<p>hello</p>").WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	raw := buf.String()
	for _, want := range []string{
		"To: ops@b.com",
		"Subject: Registration received",
		"noreply@hospitalmgmt.com",
		"Content-Type: text/html",
	} {
		if !strings.Contains(raw, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestNewChoosesLogSenderWhenDisabled(t *testing.T) {
	if _, ok := New(config.MailConfig{Enabled: false}, nil).(LogSender); !ok {
		t.Error("expected LogSender when mail is disabled")
	}
	if _, ok := New(config.MailConfig{Enabled: true}, circuit.NewBreaker("smtp", circuit.DefaultConfig(), nil)).(*BreakerSender); !ok {
		t.Error("expected BreakerSender when mail is enabled")
	}
}

func TestBreakerSenderFailsFast(t *testing.T) {
	next := &countingSender{err: errors.New("421 service not available")}
	breaker := circuit.NewBreaker("smtp", circuit.Config{Threshold: 2, Timeout: time.Hour}, nil)
	sender := NewBreakerSender(next, breaker)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := sender.Send(ctx, "a@b.com", "s", "b"); err == nil {
			t.Fatal("expected upstream error")
		}
	}
	if err := sender.Send(ctx, "a@b.com", "s", "b"); !errors.Is(err, circuit.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if next.calls != 2 {
		t.Errorf("upstream called %d times, want 2", next.calls)
	}
}
