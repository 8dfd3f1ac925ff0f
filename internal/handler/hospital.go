package handler

import (
	"net/http"

	"github.com/Payphone-Digital/hospital-registry/internal/constants"
	"github.com/Payphone-Digital/hospital-registry/internal/dto"
	ctxutil "github.com/Payphone-Digital/hospital-registry/pkg/context"
	"github.com/Payphone-Digital/hospital-registry/pkg/logger"
	"github.com/gin-gonic/gin"
)

type HospitalHandler struct {
	registrar Registrar
	auth      Authenticator
	reviewer  HospitalReviewer
}

func NewHospitalHandler(registrar Registrar, auth Authenticator, reviewer HospitalReviewer) *HospitalHandler {
	return &HospitalHandler{
		registrar: registrar,
		auth:      auth,
		reviewer:  reviewer,
	}
}

// Register handles POST /hospital/register. New hospitals start pending.
func (h *HospitalHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "RegisterHospital")

	req, ok := bindBody[dto.RegisterHospitalRequest](c, ctx)
	if !ok {
		return
	}

	hospital, err := h.registrar.CreateHospital(ctx, *req)
	if err != nil {
		logger.WarnWithContext(ctx, "Hospital registration failed").
			String("email", req.Email).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, constants.BuildSuccessResponse(constants.MsgHospitalRegistered, hospital))
}

// Login handles POST /hospital/login
func (h *HospitalHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "HospitalLogin")

	req, ok := bindBody[dto.LoginRequest](c, ctx)
	if !ok {
		return
	}

	response, err := h.auth.LoginHospital(ctx, *req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgLoginSuccessful, response))
}

// Me handles GET /hospital/me
func (h *HospitalHandler) Me(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "HospitalProfile")

	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	hospital, err := h.reviewer.GetHospital(ctx, claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgProfileRetrieved, hospital))
}
