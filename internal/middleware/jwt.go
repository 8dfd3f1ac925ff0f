package middleware

import (
	"strings"

	"github.com/Payphone-Digital/hospital-registry/internal/constants"
	apperrors "github.com/Payphone-Digital/hospital-registry/internal/errors"
	"github.com/Payphone-Digital/hospital-registry/internal/service"
	ctxutil "github.com/Payphone-Digital/hospital-registry/pkg/context"
	"github.com/Payphone-Digital/hospital-registry/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	authorizer *service.Authorizer
}

func NewAuthMiddleware(authorizer *service.Authorizer) *AuthMiddleware {
	return &AuthMiddleware{authorizer: authorizer}
}

// RequireRole authenticates the bearer token and admits only the given
// roles. With no roles any authenticated subject is admitted.
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "middleware", "RequireRole")

		claims, err := m.authorizer.RequireRole(ctx, bearerToken(c.GetHeader(constants.HeaderAuthorization)), roles...)
		if err != nil {
			logger.WarnWithContext(ctx, "Request not authorized").
				String("path", c.Request.URL.Path).
				String("method", c.Request.Method).
				String("code", apperrors.GetErrorCode(err)).
				Log()
			c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(
				apperrors.GetErrorMessage(err), apperrors.GetErrorCode(err), nil))
			c.Abort()
			return
		}

		c.Set(constants.GinKeyClaims, claims)
		c.Set(constants.GinKeyUserID, claims.UserID)
		c.Set(constants.GinKeyUserType, claims.UserType)
		c.Set(constants.GinKeyEmail, claims.Email)
		c.Request = c.Request.WithContext(ctxutil.WithUser(c.Request.Context(), claims.UserID, claims.UserType))

		c.Next()
	}
}

// ClaimsFrom returns the claims stored by RequireRole.
func ClaimsFrom(c *gin.Context) (*service.Claims, bool) {
	v, ok := c.Get(constants.GinKeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*service.Claims)
	return claims, ok && claims != nil
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], constants.BearerPrefix) {
		return ""
	}
	return parts[1]
}
