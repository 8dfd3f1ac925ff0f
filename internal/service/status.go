package service

import (
	"context"

	"github.com/Payphone-Digital/hospital-registry/internal/dto"
	apperrors "github.com/Payphone-Digital/hospital-registry/internal/errors"
)

// StatusService backs GET /api/status.
type StatusService struct {
	admins    AdminStore
	hospitals HospitalStore
}

func NewStatusService(admins AdminStore, hospitals HospitalStore) *StatusService {
	return &StatusService{admins: admins, hospitals: hospitals}
}

func (s *StatusService) Summary(ctx context.Context) (*dto.SystemStatusResponse, error) {
	admins, err := s.admins.Count(ctx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrPersistence, err)
	}
	hospitals, err := s.hospitals.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrPersistence, err)
	}
	return &dto.SystemStatusResponse{Admins: admins, Hospitals: hospitals}, nil
}
