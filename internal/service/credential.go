package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Payphone-Digital/hospital-registry/internal/constants"
	"github.com/Payphone-Digital/hospital-registry/internal/dto"
	apperrors "github.com/Payphone-Digital/hospital-registry/internal/errors"
	"github.com/Payphone-Digital/hospital-registry/internal/model"
	"github.com/Payphone-Digital/hospital-registry/internal/repository"
	ctxutil "github.com/Payphone-Digital/hospital-registry/pkg/context"
	"github.com/Payphone-Digital/hospital-registry/pkg/ids"
	"github.com/Payphone-Digital/hospital-registry/pkg/logger"
	"gorm.io/gorm"
)

// CredentialService owns account creation and password authentication for
// both account kinds.
type CredentialService struct {
	admins       AdminStore
	hospitals    HospitalStore
	hasher       PasswordHasher
	notifier     Notifier
	queryTimeout time.Duration
	now          func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewCredentialService accepts a nil notifier.
func NewCredentialService(admins AdminStore, hospitals HospitalStore, hasher PasswordHasher, notifier Notifier, queryTimeout time.Duration) *CredentialService {
	return &CredentialService{
		admins:       admins,
		hospitals:    hospitals,
		hasher:       hasher,
		notifier:     notifier,
		queryTimeout: queryTimeout,
		now:          time.Now,
	}
}

func (s *CredentialService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

func registrationAudit(ctx context.Context, userType string) *model.AuditLog {
	return &model.AuditLog{
		UserType:   userType,
		Action:     constants.AuditActionRegister,
		EntityType: userType,
		IPAddress:  ctxutil.GetClientIP(ctx),
		UserAgent:  ctxutil.GetUserAgent(ctx),
	}
}

// CreateAdmin registers an administrator. The email pre-check is a fast path;
// the unique index is what actually enforces uniqueness.
func (s *CredentialService) CreateAdmin(ctx context.Context, req dto.RegisterAdminRequest) (*dto.AdminResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "CreateAdmin")
	email := normalizeEmail(req.Email)

	logger.InfoWithContext(ctx, "Creating new admin").
		String("email", email).
		Log()

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to hash password").
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	dbCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	exists, err := s.admins.ExistsByEmail(dbCtx, email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrPersistence, err)
	}
	if exists {
		logger.WarnWithContext(ctx, "Admin email already registered").
			String("email", email).
			Log()
		return nil, apperrors.ErrDuplicateEmail
	}

	admin := &model.Admin{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.admins.Create(dbCtx, admin, registrationAudit(ctx, constants.RoleAdmin)); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, apperrors.WrapError(apperrors.ErrPersistence, err)
	}

	resp := toAdminResponse(admin)
	logger.InfoWithContext(ctx, "Admin created successfully").
		Uint("admin_id", admin.ID).
		Log()

	if s.notifier != nil {
		s.notifier.AdminWelcome(ctx, resp)
	}
	return &resp, nil
}

// CreateHospital registers a hospital in pending status.
func (s *CredentialService) CreateHospital(ctx context.Context, req dto.RegisterHospitalRequest) (*dto.HospitalResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "CreateHospital")
	email := normalizeEmail(req.Email)

	logger.InfoWithContext(ctx, "Creating new hospital").
		String("email", email).
		String("hospital_name", req.HospitalName).
		Log()

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to hash password").
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	dbCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	exists, err := s.hospitals.ExistsByEmail(dbCtx, email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrPersistence, err)
	}
	if exists {
		logger.WarnWithContext(ctx, "Hospital email already registered").
			String("email", email).
			Log()
		return nil, apperrors.ErrDuplicateEmail
	}

	hospital := &model.Hospital{
		HospitalName:    strings.TrimSpace(req.HospitalName),
		HospitalAddress: strings.TrimSpace(req.HospitalAddress),
		Email:           email,
		PhoneNumber:     strings.TrimSpace(req.PhoneNumber),
		PasswordHash:    hash,
		Status:          model.HospitalStatusPending,
		IsActive:        true,
	}
	if err := s.hospitals.Create(dbCtx, hospital, registrationAudit(ctx, constants.RoleHospital)); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, apperrors.WrapError(apperrors.ErrPersistence, err)
	}

	resp := toHospitalResponse(hospital)
	logger.InfoWithContext(ctx, "Hospital registered, awaiting approval").
		Uint("hospital_id", hospital.ID).
		Log()

	if s.notifier != nil {
		s.notifier.HospitalRegistered(ctx, resp)
	}
	return &resp, nil
}

// AuthenticateAdmin checks the password first and only then the account gate,
// so the disabled message is never shown to someone without the password.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *CredentialService) AuthenticateAdmin(ctx context.Context, email, password string) (*dto.AdminResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "AuthenticateAdmin")
	email = normalizeEmail(email)

	dbCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	admin, err := s.admins.FindByEmail(dbCtx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.burnVerify(password)
			logger.InfoWithContext(ctx, "Authentication failed: admin not found").Log()
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.WrapError(apperrors.ErrPersistence, err)
	}

	if !s.checkPassword(ctx, password, admin.PasswordHash, admin.ID) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !admin.IsActive {
		logger.WarnWithContext(ctx, "Authentication blocked: admin disabled").
			Uint("admin_id", admin.ID).
			Log()
		return nil, apperrors.ErrAccountDisabled
	}

	now := s.now()
	if err := s.admins.UpdateLastLogin(dbCtx, admin.ID, now); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrPersistence, err)
	}
	admin.LastLogin = &now

	if s.hasher.NeedsRehash(admin.PasswordHash) {
		s.rehash(dbCtx, password, admin.ID, s.admins.UpdatePasswordHash)
	}

	logger.InfoWithContext(ctx, "Admin authenticated successfully").
		Uint("admin_id", admin.ID).
		Log()

	resp := toAdminResponse(admin)
	return &resp, nil
}

// AuthenticateHospital applies the same policy plus the approval gate.
func (s *CredentialService) AuthenticateHospital(ctx context.Context, email, password string) (*dto.HospitalResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "AuthenticateHospital")
	email = normalizeEmail(email)

	dbCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	hospital, err := s.hospitals.FindByEmail(dbCtx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.burnVerify(password)
			logger.InfoWithContext(ctx, "Authentication failed: hospital not found").Log()
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.WrapError(apperrors.ErrPersistence, err)
	}

	if !s.checkPassword(ctx, password, hospital.PasswordHash, hospital.ID) {
		return nil, apperrors.ErrInvalidCredentials
	}

	switch {
	case !hospital.IsActive:
		return nil, s.blocked(ctx, hospital, apperrors.ErrAccountDisabled)
	case hospital.Status == model.HospitalStatusPending:
		return nil, s.blocked(ctx, hospital, apperrors.ErrAccountPending)
	case hospital.Status == model.HospitalStatusRejected:
		return nil, s.blocked(ctx, hospital, apperrors.ErrAccountRejected)
	}

	now := s.now()
	if err := s.hospitals.UpdateLastLogin(dbCtx, hospital.ID, now); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrPersistence, err)
	}
	hospital.LastLogin = &now

	if s.hasher.NeedsRehash(hospital.PasswordHash) {
		s.rehash(dbCtx, password, hospital.ID, s.hospitals.UpdatePasswordHash)
	}

	logger.InfoWithContext(ctx, "Hospital authenticated successfully").
		Uint("hospital_id", hospital.ID).
		Log()

	resp := toHospitalResponse(hospital)
	return &resp, nil
}

func (s *CredentialService) blocked(ctx context.Context, hospital *model.Hospital, err error) error {
	logger.WarnWithContext(ctx, "Authentication blocked by account state").
		Uint("hospital_id", hospital.ID).
		String("status", string(hospital.Status)).
		Bool("is_active", hospital.IsActive).
		Log()
	return err
}

func (s *CredentialService) checkPassword(ctx context.Context, password, hash string, id uint) bool {
	ok, err := s.hasher.Verify(password, hash)
	if err != nil {
		logger.ErrorWithContext(ctx, "Stored password hash is unusable").
			Uint("account_id", id).
			Err(err).
			Log()
		return false
	}
	if !ok {
		logger.WarnWithContext(ctx, "Authentication failed: incorrect password").
			Uint("account_id", id).
			Log()
	}
	return ok
}

// burnVerify spends the same hashing work as a real verification so that
// unknown emails are not distinguishable by response time.
func (s *CredentialService) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(ids.New())
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(password, s.dummyHash)
	}
}

func (s *CredentialService) rehash(ctx context.Context, password string, id uint, update func(context.Context, uint, string) error) {
	hash, err := s.hasher.Hash(password)
	if err == nil {
		err = update(ctx, id, hash)
	}
	if err != nil {
		logger.WarnWithContext(ctx, "Password rehash skipped").
			Uint("account_id", id).
			Err(err).
			Log()
		return
	}
	logger.InfoWithContext(ctx, "Password rehashed with current parameters").
		Uint("account_id", id).
		Log()
}
