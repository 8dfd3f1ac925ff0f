package handler

import (
	"net/http"

	"github.com/Payphone-Digital/hospital-registry/internal/constants"
	ctxutil "github.com/Payphone-Digital/hospital-registry/pkg/context"
	"github.com/Payphone-Digital/hospital-registry/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth Authenticator
}

func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{
		auth: auth,
	}
}

// Logout revokes the presented token until it expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Logout")

	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	if err := h.auth.Logout(ctx, claims); err != nil {
		logger.ErrorWithContext(ctx, "Failed to logout").
			Uint("user_id", claims.UserID).
			String("jti", claims.ID).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgLogoutSuccessful, nil))
}
