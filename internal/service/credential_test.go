package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Payphone-Digital/hospital-registry/internal/constants"
	"github.com/Payphone-Digital/hospital-registry/internal/dto"
	apperrors "github.com/Payphone-Digital/hospital-registry/internal/errors"
	"github.com/Payphone-Digital/hospital-registry/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func registerHospital(t *testing.T, f *fixture, email string) *dto.HospitalResponse {
	t.Helper()
	h, err := f.credentials.CreateHospital(context.Background(), dto.RegisterHospitalRequest{
		HospitalName:    "St. Mary General",
		HospitalAddress: "12 Harbour Road, Springfield",
		Email:           email,
		PhoneNumber:     "+1-555-0100",
		Password:        "Secret123!",
	})
	require.NoError(t, err)
	return h
}

func registerAdmin(t *testing.T, f *fixture, email string) *dto.AdminResponse {
	t.Helper()
	a, err := f.credentials.CreateAdmin(context.Background(), dto.RegisterAdminRequest{
		FullName: "Root Admin",
		Email:    email,
		Password: "Secret123!",
	})
	require.NoError(t, err)
	return a
}

func TestCreateHospital(t *testing.T) {
	f := newFixture()

	h := registerHospital(t, f, "  Contact@StMary.org ")

	assert.NotZero(t, h.ID)
	assert.Equal(t, "contact@stmary.org", h.Email)
	assert.Equal(t, string(model.HospitalStatusPending), h.Status)
	assert.True(t, h.IsActive)
	assert.Nil(t, h.ApprovedBy)
	assert.Nil(t, h.LastLogin)

	stored := f.db.hospitals[h.ID]
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$argon2id$"))
	assert.NotContains(t, stored.PasswordHash, "Secret123!")

	require.Len(t, f.db.audits, 1)
	audit := f.db.audits[0]
	assert.Equal(t, constants.AuditActionRegister, audit.Action)
	assert.Equal(t, constants.AuditEntityHospital, audit.EntityType)
	assert.Equal(t, h.ID, audit.EntityID)

	assert.Equal(t, []string{"hospital_registered:contact@stmary.org"}, f.notifier.Events())
}

func TestEmailUniquenessIsCaseInsensitive(t *testing.T) {
	f := newFixture()
	registerHospital(t, f, "a@b.com")
	registerAdmin(t, f, "a@b.com")

	_, err := f.credentials.CreateHospital(context.Background(), dto.RegisterHospitalRequest{
		HospitalName:    "Other",
		HospitalAddress: "34 Other Street, Springfield",
		Email:           "A@B.COM",
		PhoneNumber:     "+1-555-0101",
		Password:        "Secret123!",
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	_, err = f.credentials.CreateAdmin(context.Background(), dto.RegisterAdminRequest{
		FullName: "Second",
		Email:    "A@b.Com",
		Password: "Secret123!",
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	assert.Len(t, f.db.hospitals, 1)
	assert.Len(t, f.db.admins, 1)
}

func TestHospitalLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := registerAdmin(t, f, "root@b.com")
	h := registerHospital(t, f, "h@b.com")

	_, err := f.credentials.AuthenticateHospital(ctx, "h@b.com", "Secret123!")
	assert.ErrorIs(t, err, apperrors.ErrAccountPending)

	_, err = f.approvals.ApproveHospital(ctx, h.ID, admin.ID)
	require.NoError(t, err)

	before := time.Now()
	logged, err := f.credentials.AuthenticateHospital(ctx, "H@B.com", "Secret123!")
	require.NoError(t, err)
	require.NotNil(t, logged.LastLogin)
	assert.False(t, logged.LastLogin.Before(before))
	assert.Equal(t, string(model.HospitalStatusApproved), logged.Status)

	require.NotNil(t, f.db.hospitals[h.ID].LastLogin)
}

func TestAuthenticateHospitalGates(t *testing.T) {
	tests := []struct {
		name     string
		status   model.HospitalStatus
		active   bool
		password string
		wantErr  error
	}{
		{"pending", model.HospitalStatusPending, true, "Secret123!", apperrors.ErrAccountPending},
		{"rejected", model.HospitalStatusRejected, true, "Secret123!", apperrors.ErrAccountRejected},
		{"disabled", model.HospitalStatusApproved, false, "Secret123!", apperrors.ErrAccountDisabled},
		{"disabled and pending", model.HospitalStatusPending, false, "Secret123!", apperrors.ErrAccountDisabled},
		{"wrong password on rejected", model.HospitalStatusRejected, true, "nope", apperrors.ErrInvalidCredentials},
		{"wrong password on disabled", model.HospitalStatusApproved, false, "nope", apperrors.ErrInvalidCredentials},
		{"approved", model.HospitalStatusApproved, true, "Secret123!", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			h := registerHospital(t, f, "h@b.com")
			f.db.hospitals[h.ID].Status = tt.status
			f.db.hospitals[h.ID].IsActive = tt.active

			resp, err := f.credentials.AuthenticateHospital(context.Background(), "h@b.com", tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
				assert.Nil(t, f.db.hospitals[h.ID].LastLogin, "failed login must not touch last_login")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, h.ID, resp.ID)
		})
	}
}

func TestAuthenticateAdmin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := registerAdmin(t, f, "root@b.com")

	resp, err := f.credentials.AuthenticateAdmin(ctx, "ROOT@b.com", "Secret123!")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, resp.ID)
	assert.NotNil(t, resp.LastLogin)

	_, err = f.credentials.AuthenticateAdmin(ctx, "root@b.com", "secret123!")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.credentials.AuthenticateAdmin(ctx, "nobody@b.com", "Secret123!")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Equal(t, apperrors.GetErrorMessage(apperrors.ErrInvalidCredentials), apperrors.GetErrorMessage(err))

	f.db.admins[admin.ID].IsActive = false
	_, err = f.credentials.AuthenticateAdmin(ctx, "root@b.com", "Secret123!")
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestAuthenticateAcrossKinds(t *testing.T) {
	f := newFixture()
	registerAdmin(t, f, "root@b.com")

	// an admin identity is not a hospital identity
	_, err := f.credentials.AuthenticateHospital(context.Background(), "root@b.com", "Secret123!")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthenticateStoreFailure(t *testing.T) {
	f := newFixture()
	registerAdmin(t, f, "root@b.com")
	f.db.failNext = errors.New("connection reset by peer")

	_, err := f.credentials.AuthenticateAdmin(context.Background(), "root@b.com", "Secret123!")
	assert.ErrorIs(t, err, apperrors.ErrPersistence)
	assert.NotContains(t, apperrors.GetErrorMessage(err), "connection reset")
}

func TestLegacyBcryptIsUpgradedOnLogin(t *testing.T) {
	f := newFixture()
	admin := registerAdmin(t, f, "root@b.com")

	legacy, err := bcrypt.GenerateFromPassword([]byte("Legacy123!"), bcrypt.MinCost)
	require.NoError(t, err)
	f.db.admins[admin.ID].PasswordHash = string(legacy)

	_, err = f.credentials.AuthenticateAdmin(context.Background(), "root@b.com", "Legacy123!")
	require.NoError(t, err)

	upgraded := f.db.admins[admin.ID].PasswordHash
	assert.True(t, strings.HasPrefix(upgraded, "$argon2id$"), upgraded)

	_, err = f.credentials.AuthenticateAdmin(context.Background(), "root@b.com", "Legacy123!")
	assert.NoError(t, err)
}

func TestConcurrentRegistrationsHaveOneWinner(t *testing.T) {
	f := newFixture()
	const racers = 8

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// mixed casing must still collide
			email := "A@b.com"
			if i%2 == 0 {
				email = "a@B.COM"
			}
			_, err := f.credentials.CreateHospital(context.Background(), dto.RegisterHospitalRequest{
				HospitalName:    "St. Mary General",
				HospitalAddress: "12 Harbour Road, Springfield",
				Email:           email,
				PhoneNumber:     "+1-555-0100",
				Password:        "Secret123!",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, apperrors.ErrDuplicateEmail):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, racers-1, duplicates)
	assert.Len(t, f.db.hospitals, 1)
	assert.Len(t, f.db.audits, 1, "losers must not leave audit rows")
}

func TestDuplicateCaughtByUniqueConstraint(t *testing.T) {
	f := newFixture()
	registerHospital(t, f, "h@b.com")
	registerAdmin(t, f, "a@b.com")

	// the pre-check loses the race; the store's constraint decides
	f.db.skipExists = true

	_, err := f.credentials.CreateHospital(context.Background(), dto.RegisterHospitalRequest{
		HospitalName:    "Other",
		HospitalAddress: "34 Other Street, Springfield",
		Email:           "H@B.com",
		PhoneNumber:     "+1-555-0101",
		Password:        "Secret123!",
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	_, err = f.credentials.CreateAdmin(context.Background(), dto.RegisterAdminRequest{
		FullName: "Second Admin",
		Email:    "a@b.com",
		Password: "Secret123!",
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	assert.Len(t, f.db.hospitals, 1)
	assert.Len(t, f.db.admins, 1)
	assert.Len(t, f.db.audits, 2)
}
