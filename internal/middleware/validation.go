package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/Payphone-Digital/hospital-registry/internal/constants"
	apperrors "github.com/Payphone-Digital/hospital-registry/internal/errors"
	ctxutil "github.com/Payphone-Digital/hospital-registry/pkg/context"
	"github.com/Payphone-Digital/hospital-registry/pkg/logger"
	"github.com/Payphone-Digital/hospital-registry/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ValidateJSON binds the body into a fresh value from factory and runs the
// binding rules. Malformed JSON is a 400, rule failures a 422 with
// {field: [messages]}. On success the value is stored under
// constants.GinKeyRequestBody; read it with RequestBody.
func ValidateJSON(factory func() interface{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "middleware", "ValidateJSON")
		request := factory()

		if err := c.ShouldBindJSON(request); err != nil {
			AbortWithBindError(c, ctx, err)
			return
		}

		c.Set(constants.GinKeyRequestBody, request)
		c.Next()
	}
}

// AbortWithBindError writes the 400 or 422 response for a failed bind.
func AbortWithBindError(c *gin.Context, ctx context.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := validation.FormatErrors(verrs)
		logger.InfoWithContext(ctx, "Request validation failed").
			String("path", c.Request.URL.Path).
			Int("error_count", len(fields)).
			Log()
		c.JSON(http.StatusUnprocessableEntity, constants.BuildErrorResponse(
			constants.MsgValidationFailed, apperrors.CodeValidation, fields))
		c.Abort()
		return
	}

	// never echo the body back; it may carry a password
	logger.WarnWithContext(ctx, "Malformed request body").
		String("path", c.Request.URL.Path).
		Err(err).
		Log()
	c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(
		constants.MsgInvalidPayload, apperrors.CodeInvalidInput, nil))
	c.Abort()
}

// RequestBody returns the value stored by ValidateJSON.
func RequestBody[T any](c *gin.Context) (*T, bool) {
	v, ok := c.Get(constants.GinKeyRequestBody)
	if !ok {
		return nil, false
	}
	body, ok := v.(*T)
	return body, ok
}
