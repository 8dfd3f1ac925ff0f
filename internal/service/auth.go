package service

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/Payphone-Digital/hospital-registry/internal/constants"
	"github.com/Payphone-Digital/hospital-registry/internal/dto"
	apperrors "github.com/Payphone-Digital/hospital-registry/internal/errors"
	ctxutil "github.com/Payphone-Digital/hospital-registry/pkg/context"
	"github.com/Payphone-Digital/hospital-registry/pkg/logger"
	"github.com/Payphone-Digital/hospital-registry/pkg/metrics"
	"go.uber.org/zap"
)

// AuthService is login (authenticate then issue) and logout (revoke).
type AuthService struct {
	credentials *CredentialService
	tokens      TokenService
	authorizer  *Authorizer
	metrics     *metrics.Metrics
}

func NewAuthService(credentials *CredentialService, tokens TokenService, authorizer *Authorizer, m *metrics.Metrics) *AuthService {
	return &AuthService{
		credentials: credentials,
		tokens:      tokens,
		authorizer:  authorizer,
		metrics:     m,
	}
}

func (s *AuthService) LoginAdmin(ctx context.Context, req dto.LoginRequest) (*dto.AdminLoginResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "LoginAdmin")

	admin, err := s.credentials.AuthenticateAdmin(ctx, req.Email, req.Password)
	if err != nil {
		s.loginFailed(constants.RoleAdmin, err)
		return nil, err
	}

	token, expiresAt, err := s.issue(ctx, Subject{ID: admin.ID, Email: admin.Email, Type: constants.RoleAdmin})
	if err != nil {
		return nil, err
	}

	s.metrics.Login(constants.RoleAdmin, "ok")
	logger.LogAuth(strconv.FormatUint(uint64(admin.ID), 10), "login", true,
		zap.String("user_type", constants.RoleAdmin),
		zap.String("request_id", ctxutil.GetRequestID(ctx)),
	)

	return &dto.AdminLoginResponse{
		Admin:     *admin,
		Token:     token,
		ExpiresIn: secondsUntil(expiresAt),
	}, nil
}

func (s *AuthService) LoginHospital(ctx context.Context, req dto.LoginRequest) (*dto.HospitalLoginResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "LoginHospital")

	hospital, err := s.credentials.AuthenticateHospital(ctx, req.Email, req.Password)
	if err != nil {
		s.loginFailed(constants.RoleHospital, err)
		return nil, err
	}

	token, expiresAt, err := s.issue(ctx, Subject{ID: hospital.ID, Email: hospital.Email, Type: constants.RoleHospital})
	if err != nil {
		return nil, err
	}

	s.metrics.Login(constants.RoleHospital, "ok")
	logger.LogAuth(strconv.FormatUint(uint64(hospital.ID), 10), "login", true,
		zap.String("user_type", constants.RoleHospital),
		zap.String("request_id", ctxutil.GetRequestID(ctx)),
	)

	return &dto.HospitalLoginResponse{
		Hospital:  *hospital,
		Token:     token,
		ExpiresIn: secondsUntil(expiresAt),
	}, nil
}

// Logout revokes the presented token's id until it expires.
func (s *AuthService) Logout(ctx context.Context, claims *Claims) error {
	ctx = ctxutil.WithFunction(ctx, "service", "Logout")

	if err := s.authorizer.Revoke(ctx, claims); err != nil {
		logger.ErrorWithContext(ctx, "Failed to revoke token").
			String("jti", claims.ID).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Token revoked on logout").
		String("jti", claims.ID).
		Uint("user_id", claims.UserID).
		Log()
	return nil
}

func (s *AuthService) issue(ctx context.Context, subject Subject) (string, time.Time, error) {
	token, expiresAt, err := s.tokens.Issue(subject)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to issue token").
			Uint("user_id", subject.ID).
			Err(err).
			Log()
		return "", time.Time{}, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return token, expiresAt, nil
}

func (s *AuthService) loginFailed(kind string, err error) {
	s.metrics.Login(kind, apperrors.GetErrorCode(err))
}

func secondsUntil(t time.Time) int64 {
	return int64(math.Round(time.Until(t).Seconds()))
}
