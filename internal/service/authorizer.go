package service

import (
	"context"
	"time"

	apperrors "github.com/Payphone-Digital/hospital-registry/internal/errors"
	ctxutil "github.com/Payphone-Digital/hospital-registry/pkg/context"
	"github.com/Payphone-Digital/hospital-registry/pkg/logger"
)

// Revoker is a denylist of token ids. Entries may expire once the token has.
type Revoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Authorizer is the single gate protected endpoints go through.
type Authorizer struct {
	tokens  TokenService
	revoker Revoker
}

// NewAuthorizer accepts a nil revoker, in which case logout has no server-side effect.
func NewAuthorizer(tokens TokenService, revoker Revoker) *Authorizer {
	return &Authorizer{tokens: tokens, revoker: revoker}
}

// RequireRole verifies token, rejects revoked token ids, then checks the
// subject type against roles. With no roles any authenticated subject passes.
func (a *Authorizer) RequireRole(ctx context.Context, token string, roles ...string) (*Claims, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "RequireRole")

	if token == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	claims, err := a.tokens.Verify(token)
	if err != nil {
		logger.DebugWithContext(ctx, "Token rejected").
			Int("token_length", len(token)).
			Err(err).
			Log()
		return nil, apperrors.ErrUnauthenticated
	}

	if a.revoker != nil {
		revoked, err := a.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			// fail closed
			logger.ErrorWithContext(ctx, "Revocation check failed").
				String("jti", claims.ID).
				Err(err).
				Log()
			return nil, apperrors.WrapError(apperrors.ErrPersistence, err)
		}
		if revoked {
			logger.InfoWithContext(ctx, "Revoked token presented").
				String("jti", claims.ID).
				Uint("user_id", claims.UserID).
				Log()
			return nil, apperrors.ErrUnauthenticated
		}
	}

	if len(roles) == 0 {
		return claims, nil
	}
	for _, role := range roles {
		if claims.UserType == role {
			return claims, nil
		}
	}

	logger.WarnWithContext(ctx, "Role check failed").
		Uint("user_id", claims.UserID).
		String("user_type", claims.UserType).
		Any("required_roles", roles).
		Log()
	return nil, apperrors.ErrForbidden
}

// Revoke denylists the token id until the token's own expiry.
func (a *Authorizer) Revoke(ctx context.Context, claims *Claims) error {
	if a.revoker == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	if err := a.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return apperrors.WrapError(apperrors.ErrPersistence, err)
	}
	return nil
}
