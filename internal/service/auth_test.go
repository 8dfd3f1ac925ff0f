package service

import (
	"context"
	"testing"
	"time"

	"github.com/Payphone-Digital/hospital-registry/internal/constants"
	"github.com/Payphone-Digital/hospital-registry/internal/dto"
	apperrors "github.com/Payphone-Digital/hospital-registry/internal/errors"
	"github.com/Payphone-Digital/hospital-registry/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*fixture, *AuthService, *Authorizer) {
	t.Helper()
	f := newFixture()
	denylist := cache.NewCache()
	t.Cleanup(denylist.Close)

	tokens := newTestJWT(t, 24*time.Hour)
	authz := NewAuthorizer(tokens, denylist)
	return f, NewAuthService(f.credentials, tokens, authz, nil), authz
}

func TestLoginAdminAndLogout(t *testing.T) {
	f, auth, authz := newAuthFixture(t)
	ctx := context.Background()
	admin := registerAdmin(t, f, "root@b.com")

	resp, err := auth.LoginAdmin(ctx, dto.LoginRequest{Email: "root@b.com", Password: "Secret123!"})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, resp.Admin.ID)
	assert.InDelta(t, 86400, resp.ExpiresIn, 2)

	claims, err := authz.RequireRole(ctx, resp.Token, constants.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.UserID)
	assert.Equal(t, "root@b.com", claims.Email)

	_, err = authz.RequireRole(ctx, resp.Token, constants.RoleHospital)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, auth.Logout(ctx, claims))

	_, err = authz.RequireRole(ctx, resp.Token, constants.RoleAdmin)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestLoginHospitalRequiresApproval(t *testing.T) {
	f, auth, authz := newAuthFixture(t)
	ctx := context.Background()
	admin := registerAdmin(t, f, "root@b.com")
	h := registerHospital(t, f, "h@b.com")

	resp, err := auth.LoginHospital(ctx, dto.LoginRequest{Email: "h@b.com", Password: "Secret123!"})
	assert.ErrorIs(t, err, apperrors.ErrAccountPending)
	assert.Nil(t, resp)

	_, err = f.approvals.ApproveHospital(ctx, h.ID, admin.ID)
	require.NoError(t, err)

	resp, err = auth.LoginHospital(ctx, dto.LoginRequest{Email: "h@b.com", Password: "Secret123!"})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Hospital.Status)

	claims, err := authz.RequireRole(ctx, resp.Token, constants.RoleHospital)
	require.NoError(t, err)
	assert.Equal(t, h.ID, claims.UserID)
	assert.Equal(t, constants.RoleHospital, claims.UserType)
}

func TestLoginWrongKind(t *testing.T) {
	f, auth, _ := newAuthFixture(t)
	registerHospital(t, f, "h@b.com")

	_, err := auth.LoginAdmin(context.Background(), dto.LoginRequest{Email: "h@b.com", Password: "Secret123!"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
