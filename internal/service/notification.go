package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/Payphone-Digital/hospital-registry/internal/constants"
	"github.com/Payphone-Digital/hospital-registry/internal/dto"
	"github.com/Payphone-Digital/hospital-registry/internal/model"
	ctxutil "github.com/Payphone-Digital/hospital-registry/pkg/context"
	"github.com/Payphone-Digital/hospital-registry/pkg/logger"
	"github.com/Payphone-Digital/hospital-registry/pkg/mailer"
	"github.com/Payphone-Digital/hospital-registry/pkg/metrics"
)

// Notifier is fire-and-forget: implementations never report failure to the caller.
type Notifier interface {
	AdminWelcome(ctx context.Context, admin dto.AdminResponse)
	HospitalRegistered(ctx context.Context, hospital dto.HospitalResponse)
	HospitalApproved(ctx context.Context, hospital dto.HospitalResponse)
	HospitalRejected(ctx context.Context, hospital dto.HospitalResponse, reason string)
}

type mailData struct {
	AppName string
	AppURL  string
	Name    string
	Email   string
	Reason  string
	Date    time.Time
}

type NotificationOptions struct {
	AppName string
	AppURL  string
	// SendTimeout bounds one delivery including the notification log writes.
	SendTimeout time.Duration
}

// NotificationService renders templates, logs each email to email_notifications
// and delivers it on a background goroutine.
type NotificationService struct {
	store   NotificationStore
	sender  mailer.Sender
	tmpl    *template.Template
	opts    NotificationOptions
	metrics *metrics.Metrics
	now     func() time.Time
	wg      sync.WaitGroup
}

func NewNotificationService(store NotificationStore, sender mailer.Sender, opts NotificationOptions, m *metrics.Metrics) (*NotificationService, error) {
	tmpl, err := template.New("email").Funcs(sprig.FuncMap()).Parse(emailTemplates)
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 30 * time.Second
	}
	if opts.AppName == "" {
		opts.AppName = constants.AppName
	}
	return &NotificationService{
		store:   store,
		sender:  sender,
		tmpl:    tmpl,
		opts:    opts,
		metrics: m,
		now:     time.Now,
	}, nil
}

func (s *NotificationService) AdminWelcome(ctx context.Context, admin dto.AdminResponse) {
	s.dispatch(ctx, tmplAdminWelcome, constants.RoleAdmin, admin.ID, admin.Email,
		fmt.Sprintf("Welcome to %s - Administrator Account Created", s.opts.AppName),
		mailData{Name: admin.FullName, Email: admin.Email})
}

func (s *NotificationService) HospitalRegistered(ctx context.Context, hospital dto.HospitalResponse) {
	s.dispatch(ctx, tmplHospitalRegistered, constants.RoleHospital, hospital.ID, hospital.Email,
		fmt.Sprintf("Registration Received - Pending Approval - %s", s.opts.AppName),
		mailData{Name: hospital.HospitalName, Email: hospital.Email})
}

func (s *NotificationService) HospitalApproved(ctx context.Context, hospital dto.HospitalResponse) {
	date := s.now()
	if hospital.ApprovedAt != nil {
		date = *hospital.ApprovedAt
	}
	s.dispatch(ctx, tmplHospitalApproved, constants.RoleHospital, hospital.ID, hospital.Email,
		fmt.Sprintf("Hospital Registration Approved - %s", s.opts.AppName),
		mailData{Name: hospital.HospitalName, Email: hospital.Email, Date: date})
}

func (s *NotificationService) HospitalRejected(ctx context.Context, hospital dto.HospitalResponse, reason string) {
	s.dispatch(ctx, tmplHospitalRejected, constants.RoleHospital, hospital.ID, hospital.Email,
		fmt.Sprintf("Hospital Registration Status Update - %s", s.opts.AppName),
		mailData{Name: hospital.HospitalName, Email: hospital.Email, Reason: reason})
}

// Wait blocks until in-flight deliveries finish or ctx is done.
func (s *NotificationService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *NotificationService) render(name string, data mailData) (string, error) {
	data.AppName = s.opts.AppName
	data.AppURL = s.opts.AppURL
	if data.Date.IsZero() {
		data.Date = s.now()
	}

	var body bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&body, name, data); err != nil {
		return "", err
	}
	return body.String(), nil
}

func (s *NotificationService) dispatch(ctx context.Context, name, recipientType string, recipientID uint, to, subject string, data mailData) {
	ctx = ctxutil.WithFunction(ctx, "service", "Notify")

	body, err := s.render(name, data)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to render email template").
			String("template", name).
			Err(err).
			Log()
		s.metrics.Notification(name, string(model.NotificationStatusFailed))
		return
	}

	// Detach from the request so delivery outlives the response,
	// keeping request values for log correlation.
	base := context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(base, s.opts.SendTimeout)
		defer cancel()

		s.deliver(ctx, name, &model.EmailNotification{
			RecipientEmail: to,
			RecipientType:  recipientType,
			RecipientID:    recipientID,
			Subject:        subject,
			Body:           body,
			Status:         model.NotificationStatusPending,
		})
	}()
}

func (s *NotificationService) deliver(ctx context.Context, name string, n *model.EmailNotification) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
	}()

	logged := true
	if err := s.store.Create(ctx, n); err != nil {
		// still try to deliver; only the log row is lost
		logged = false
		logger.WarnWithContext(ctx, "Failed to log email notification").
			String("template", name).
			Err(err).
			Log()
	}

	start := time.Now()
	sendErr := s.sender.Send(ctx, n.RecipientEmail, n.Subject, n.Body)
	duration := time.Since(start)

	if sendErr != nil {
		logger.ErrorWithContext(ctx, "Email delivery failed").
			String("template", name).
			String("recipient_type", n.RecipientType).
			Uint("recipient_id", n.RecipientID).
			Duration(duration).
			Err(sendErr).
			Log()
		s.metrics.Notification(name, string(model.NotificationStatusFailed))
		if logged {
			if err := s.store.MarkFailed(ctx, n.ID, sendErr.Error()); err != nil {
				s.statusNotRecorded(ctx, name, n.ID, model.NotificationStatusFailed, err)
			}
		}
		return
	}

	logger.InfoWithContext(ctx, "Email delivered").
		String("template", name).
		String("recipient_type", n.RecipientType).
		Uint("recipient_id", n.RecipientID).
		Duration(duration).
		Log()
	s.metrics.Notification(name, string(model.NotificationStatusSent))
	if logged {
		if err := s.store.MarkSent(ctx, n.ID, s.now()); err != nil {
			s.statusNotRecorded(ctx, name, n.ID, model.NotificationStatusSent, err)
		}
	}
}

// statusNotRecorded logs a notification row left in pending.
func (s *NotificationService) statusNotRecorded(ctx context.Context, name string, id uint, status model.NotificationStatus, err error) {
	logger.WarnWithContext(ctx, "Failed to update email notification status").
		String("template", name).
		Uint("notification_id", id).
		String("status", string(status)).
		Err(err).
		Log()
}
