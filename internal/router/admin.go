package router

import (
	"github.com/Payphone-Digital/hospital-registry/internal/constants"
	"github.com/Payphone-Digital/hospital-registry/internal/dto"
	"github.com/Payphone-Digital/hospital-registry/internal/middleware"
	"github.com/gin-gonic/gin"
)

func (r *Router) adminRoutes(version *gin.RouterGroup) {
	admin := version.Group("/admin")
	{
		// Public routes
		admin.POST("/register",
			middleware.ValidateJSON(func() interface{} { return &dto.RegisterAdminRequest{} }),
			r.adminHandler.Register)
		admin.POST("/login",
			middleware.ValidateJSON(func() interface{} { return &dto.LoginRequest{} }),
			r.adminHandler.Login)

		// Hospital review, admin role required
		hospitals := admin.Group("/hospitals")
		hospitals.Use(r.authMw.RequireRole(constants.RoleAdmin))
		{
			hospitals.GET("/pending", r.adminHandler.ListPending)
			hospitals.GET("", r.adminHandler.ListHospitals)
			hospitals.GET("/:id", r.adminHandler.GetHospital)
			hospitals.GET("/:id/audit", r.adminHandler.AuditTrail)
			hospitals.POST("/:id/approve", r.adminHandler.Approve)
			hospitals.POST("/:id/reject", r.adminHandler.Reject)
		}
	}
}
