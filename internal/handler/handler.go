package handler

import (
	"context"
	"strconv"

	"github.com/Payphone-Digital/hospital-registry/internal/constants"
	"github.com/Payphone-Digital/hospital-registry/internal/dto"
	apperrors "github.com/Payphone-Digital/hospital-registry/internal/errors"
	"github.com/Payphone-Digital/hospital-registry/internal/middleware"
	"github.com/Payphone-Digital/hospital-registry/internal/service"
	"github.com/gin-gonic/gin"
)

// Registrar creates accounts. Implemented by service.CredentialService.
type Registrar interface {
	CreateAdmin(ctx context.Context, req dto.RegisterAdminRequest) (*dto.AdminResponse, error)
	CreateHospital(ctx context.Context, req dto.RegisterHospitalRequest) (*dto.HospitalResponse, error)
}

// Authenticator is implemented by service.AuthService.
type Authenticator interface {
	LoginAdmin(ctx context.Context, req dto.LoginRequest) (*dto.AdminLoginResponse, error)
	LoginHospital(ctx context.Context, req dto.LoginRequest) (*dto.HospitalLoginResponse, error)
	Logout(ctx context.Context, claims *service.Claims) error
}

// HospitalReviewer is implemented by service.ApprovalService.
type HospitalReviewer interface {
	ApproveHospital(ctx context.Context, hospitalID, adminID uint) (*dto.HospitalResponse, error)
	RejectHospital(ctx context.Context, hospitalID, adminID uint, reason string) (*dto.HospitalResponse, error)
	ListPending(ctx context.Context) ([]dto.PendingHospitalResponse, error)
	ListHospitals(ctx context.Context, status string, page constants.PaginationParams) ([]dto.HospitalResponse, int64, error)
	GetHospital(ctx context.Context, id uint) (*dto.HospitalResponse, error)
	AuditTrail(ctx context.Context, hospitalID uint) ([]dto.AuditLogResponse, error)
}

// StatusReporter is implemented by service.StatusService.
type StatusReporter interface {
	Summary(ctx context.Context) (*dto.SystemStatusResponse, error)
}

func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(
		apperrors.GetErrorMessage(err), apperrors.GetErrorCode(err), nil))
}

// pathID parses a positive numeric path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		respondError(c, apperrors.ErrInvalidInput)
		return 0, false
	}
	return uint(id), true
}

// currentClaims returns the claims placed by the auth middleware. A route
// wired without it answers 401 rather than acting as an anonymous caller.
func currentClaims(c *gin.Context) (*service.Claims, bool) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return nil, false
	}
	return claims, true
}

// bindBody returns the body already validated by middleware.ValidateJSON,
// binding it here when the route was wired without that middleware.
func bindBody[T any](c *gin.Context, ctx context.Context) (*T, bool) {
	if body, ok := middleware.RequestBody[T](c); ok {
		return body, true
	}
	body := new(T)
	if err := c.ShouldBindJSON(body); err != nil {
		middleware.AbortWithBindError(c, ctx, err)
		return nil, false
	}
	return body, true
}

func pageTotal(total int64, limit int) int {
	if limit <= 0 || total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
