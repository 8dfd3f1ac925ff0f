package mailer

import (
	"context"
	"fmt"

	"github.com/Payphone-Digital/hospital-registry/config"
	"github.com/Payphone-Digital/hospital-registry/pkg/circuit"
	"github.com/Payphone-Digital/hospital-registry/pkg/logger"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Sender delivers one HTML email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender delivers through an SMTP relay.
type SMTPSender struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

func (s *SMTPSender) buildMessage(to, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return m
}

// Send dials per message. gomail has no context support, so a cancelled ctx
// only stops the caller from waiting.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	m := s.buildMessage(to, subject, body)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogSender only logs. Used when mail delivery is disabled.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, to, subject, body string) error {
	logger.InfoWithContext(ctx, "Email delivery disabled, message logged only").
		String("to", to).
		String("subject", subject).
		Int("body_length", len(body)).
		Log()
	return nil
}

// BreakerSender fails fast while the wrapped sender keeps failing.
type BreakerSender struct {
	next    Sender
	breaker *circuit.Breaker
}

func NewBreakerSender(next Sender, breaker *circuit.Breaker) *BreakerSender {
	return &BreakerSender{next: next, breaker: breaker}
}

func (s *BreakerSender) Send(ctx context.Context, to, subject, body string) error {
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.next.Send(ctx, to, subject, body)
	})
	if err == circuit.ErrCircuitOpen || err == circuit.ErrTooManyRequests {
		logger.GetLogger().Warn("Email skipped, mail circuit open",
			zap.String("subject", subject),
			zap.String("breaker_state", s.breaker.State().String()),
		)
	}
	return err
}

// New picks the sender for cfg.
func New(cfg config.MailConfig, breaker *circuit.Breaker) Sender {
	if !cfg.Enabled {
		return LogSender{}
	}
	if breaker == nil {
		breaker = circuit.NewBreaker("smtp", circuit.DefaultConfig(), logger.GetLogger())
	}
	return NewBreakerSender(NewSMTPSender(cfg), breaker)
}
