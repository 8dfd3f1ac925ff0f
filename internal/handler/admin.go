package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/Payphone-Digital/hospital-registry/internal/constants"
	"github.com/Payphone-Digital/hospital-registry/internal/dto"
	"github.com/Payphone-Digital/hospital-registry/internal/middleware"
	ctxutil "github.com/Payphone-Digital/hospital-registry/pkg/context"
	"github.com/Payphone-Digital/hospital-registry/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	registrar Registrar
	auth      Authenticator
	reviewer  HospitalReviewer
}

func NewAdminHandler(registrar Registrar, auth Authenticator, reviewer HospitalReviewer) *AdminHandler {
	return &AdminHandler{
		registrar: registrar,
		auth:      auth,
		reviewer:  reviewer,
	}
}

// Register handles POST /admin/register
func (h *AdminHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "RegisterAdmin")

	req, ok := bindBody[dto.RegisterAdminRequest](c, ctx)
	if !ok {
		return
	}

	admin, err := h.registrar.CreateAdmin(ctx, *req)
	if err != nil {
		logger.WarnWithContext(ctx, "Admin registration failed").
			String("email", req.Email).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, constants.BuildSuccessResponse(constants.MsgAdminRegistered, admin))
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "AdminLogin")

	req, ok := bindBody[dto.LoginRequest](c, ctx)
	if !ok {
		return
	}

	response, err := h.auth.LoginAdmin(ctx, *req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgLoginSuccessful, response))
}

// ListPending handles GET /admin/hospitals/pending
func (h *AdminHandler) ListPending(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ListPending")

	hospitals, err := h.reviewer.ListPending(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgPendingRetrieved, hospitals))
}

// ListHospitals handles GET /admin/hospitals?status=&page=&limit=
func (h *AdminHandler) ListHospitals(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ListHospitals")

	var filter dto.HospitalFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.AbortWithBindError(c, ctx, err)
		return
	}
	page := constants.ParsePaginationParams(c)

	hospitals, total, err := h.reviewer.ListHospitals(ctx, filter.Status, page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgHospitalsRetrieved,
		constants.BuildListResponse(total, page.Page, pageTotal(total, page.Limit), hospitals)))
}

// GetHospital handles GET /admin/hospitals/:id
func (h *AdminHandler) GetHospital(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetHospital")

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	hospital, err := h.reviewer.GetHospital(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgHospitalRetrieved, hospital))
}

// AuditTrail handles GET /admin/hospitals/:id/audit
func (h *AdminHandler) AuditTrail(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "AuditTrail")

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	entries, err := h.reviewer.AuditTrail(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgAuditRetrieved, entries))
}

// Approve handles POST /admin/hospitals/:id/approve
func (h *AdminHandler) Approve(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ApproveHospital")

	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	hospital, err := h.reviewer.ApproveHospital(ctx, id, claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgHospitalApproved, hospital))
}

// Reject handles POST /admin/hospitals/:id/reject. The body is optional.
func (h *AdminHandler) Reject(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "RejectHospital")

	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req dto.RejectHospitalRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			middleware.AbortWithBindError(c, ctx, err)
			return
		}
	}

	hospital, err := h.reviewer.RejectHospital(ctx, id, claims.UserID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgHospitalRejected, hospital))
}
