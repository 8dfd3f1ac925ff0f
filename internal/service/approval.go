package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/Payphone-Digital/hospital-registry/internal/constants"
	"github.com/Payphone-Digital/hospital-registry/internal/dto"
	apperrors "github.com/Payphone-Digital/hospital-registry/internal/errors"
	"github.com/Payphone-Digital/hospital-registry/internal/model"
	"github.com/Payphone-Digital/hospital-registry/internal/repository"
	ctxutil "github.com/Payphone-Digital/hospital-registry/pkg/context"
	"github.com/Payphone-Digital/hospital-registry/pkg/logger"
	"github.com/Payphone-Digital/hospital-registry/pkg/metrics"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	decisionApprove = "approve"
	decisionReject  = "reject"
)

// ApprovalService drives the hospital state machine:
//
//	pending --approve--> approved
//	pending --reject---> rejected
//
// Each transition and its audit row commit together; the email goes out after commit.
type ApprovalService struct {
	hospitals    HospitalStore
	audits       AuditStore
	notifier     Notifier
	metrics      *metrics.Metrics
	queryTimeout time.Duration
	now          func() time.Time
}

func NewApprovalService(hospitals HospitalStore, audits AuditStore, notifier Notifier, m *metrics.Metrics, queryTimeout time.Duration) *ApprovalService {
	return &ApprovalService{
		hospitals:    hospitals,
		audits:       audits,
		notifier:     notifier,
		metrics:      m,
		queryTimeout: queryTimeout,
		now:          time.Now,
	}
}

func (s *ApprovalService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

func (s *ApprovalService) ApproveHospital(ctx context.Context, hospitalID, adminID uint) (*dto.HospitalResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "ApproveHospital")

	logger.InfoWithContext(ctx, "Approving hospital").
		Uint("hospital_id", hospitalID).
		Uint("admin_id", adminID).
		Log()

	dbCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.ensurePending(dbCtx, hospitalID); err != nil {
		s.metrics.Decision(decisionApprove, apperrors.GetErrorCode(err))
		return nil, err
	}

	audit := s.decisionAudit(ctx, adminID, constants.AuditActionApproveHospital, nil)
	hospital, err := s.hospitals.Approve(dbCtx, hospitalID, adminID, s.now(), audit)
	if err != nil {
		err = translateDecisionError(err)
		s.metrics.Decision(decisionApprove, apperrors.GetErrorCode(err))
		return nil, err
	}
	s.metrics.Decision(decisionApprove, "ok")

	resp := toHospitalResponse(hospital)
	logger.InfoWithContext(ctx, "Hospital approved").
		Uint("hospital_id", hospitalID).
		Log()

	if s.notifier != nil {
		s.notifier.HospitalApproved(ctx, resp)
	}
	return &resp, nil
}

// RejectHospital stores an empty reason as NULL.
func (s *ApprovalService) RejectHospital(ctx context.Context, hospitalID, adminID uint, reason string) (*dto.HospitalResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "RejectHospital")

	logger.InfoWithContext(ctx, "Rejecting hospital").
		Uint("hospital_id", hospitalID).
		Uint("admin_id", adminID).
		Log()

	var reasonPtr *string
	if trimmed := strings.TrimSpace(reason); trimmed != "" {
		reasonPtr = &trimmed
	}

	dbCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.ensurePending(dbCtx, hospitalID); err != nil {
		s.metrics.Decision(decisionReject, apperrors.GetErrorCode(err))
		return nil, err
	}

	audit := s.decisionAudit(ctx, adminID, constants.AuditActionRejectHospital, map[string]interface{}{"reason": reasonPtr})
	hospital, err := s.hospitals.Reject(dbCtx, hospitalID, adminID, reasonPtr, s.now(), audit)
	if err != nil {
		err = translateDecisionError(err)
		s.metrics.Decision(decisionReject, apperrors.GetErrorCode(err))
		return nil, err
	}
	s.metrics.Decision(decisionReject, "ok")

	resp := toHospitalResponse(hospital)
	logger.InfoWithContext(ctx, "Hospital rejected").
		Uint("hospital_id", hospitalID).
		Bool("has_reason", reasonPtr != nil).
		Log()

	if s.notifier != nil {
		var r string
		if reasonPtr != nil {
			r = *reasonPtr
		}
		s.notifier.HospitalRejected(ctx, resp, r)
	}
	return &resp, nil
}

// ensurePending is the fast-path check. The conditional update in the store
// remains the authority when two decisions race.
func (s *ApprovalService) ensurePending(ctx context.Context, hospitalID uint) error {
	hospital, err := s.hospitals.FindByID(ctx, hospitalID)
	if err != nil {
		return translateDecisionError(err)
	}
	if !hospital.IsPending() {
		logger.WarnWithContext(ctx, "Hospital already processed").
			Uint("hospital_id", hospitalID).
			String("status", string(hospital.Status)).
			Log()
		return apperrors.ErrAlreadyProcessed
	}
	return nil
}

func (s *ApprovalService) decisionAudit(ctx context.Context, adminID uint, action string, details map[string]interface{}) *model.AuditLog {
	entry := &model.AuditLog{
		UserType:   constants.RoleAdmin,
		UserID:     adminID,
		Action:     action,
		EntityType: constants.AuditEntityHospital,
		IPAddress:  ctxutil.GetClientIP(ctx),
		UserAgent:  ctxutil.GetUserAgent(ctx),
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			entry.Details = datatypes.JSON(raw)
		}
	}
	return entry
}

func translateDecisionError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrHospitalNotFound
	case errors.Is(err, repository.ErrAlreadyProcessed):
		return apperrors.ErrAlreadyProcessed
	default:
		return apperrors.WrapError(apperrors.ErrPersistence, err)
	}
}

// ListPending returns pending hospitals, oldest first, with whole hours waited.
func (s *ApprovalService) ListPending(ctx context.Context) ([]dto.PendingHospitalResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "ListPending")

	dbCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	hospitals, err := s.hospitals.ListPending(dbCtx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrPersistence, err)
	}

	now := s.now()
	items := make([]dto.PendingHospitalResponse, 0, len(hospitals))
	for i := range hospitals {
		items = append(items, dto.PendingHospitalResponse{
			HospitalResponse: toHospitalResponse(&hospitals[i]),
			PendingHours:     int64(now.Sub(hospitals[i].CreatedAt) / time.Hour),
		})
	}
	return items, nil
}

func (s *ApprovalService) ListHospitals(ctx context.Context, status string, page constants.PaginationParams) ([]dto.HospitalResponse, int64, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "ListHospitals")

	if status != "" && !model.HospitalStatus(status).IsValid() {
		return nil, 0, apperrors.ErrInvalidInput
	}

	dbCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	hospitals, total, err := s.hospitals.List(dbCtx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, apperrors.WrapError(apperrors.ErrPersistence, err)
	}

	items := make([]dto.HospitalResponse, 0, len(hospitals))
	for i := range hospitals {
		items = append(items, toHospitalResponse(&hospitals[i]))
	}
	return items, total, nil
}

func (s *ApprovalService) GetHospital(ctx context.Context, id uint) (*dto.HospitalResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "GetHospital")

	dbCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	hospital, err := s.hospitals.FindByID(dbCtx, id)
	if err != nil {
		return nil, translateDecisionError(err)
	}
	resp := toHospitalResponse(hospital)
	return &resp, nil
}

// AuditTrail returns the hospital's audit entries, oldest first.
func (s *ApprovalService) AuditTrail(ctx context.Context, hospitalID uint) ([]dto.AuditLogResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "AuditTrail")

	dbCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.hospitals.FindByID(dbCtx, hospitalID); err != nil {
		return nil, translateDecisionError(err)
	}

	entries, err := s.audits.ListByEntity(dbCtx, constants.AuditEntityHospital, hospitalID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrPersistence, err)
	}

	items := make([]dto.AuditLogResponse, 0, len(entries))
	for i := range entries {
		items = append(items, toAuditLogResponse(&entries[i]))
	}
	return items, nil
}
