package router

import (
	"github.com/Payphone-Digital/hospital-registry/internal/constants"
	"github.com/Payphone-Digital/hospital-registry/internal/dto"
	"github.com/Payphone-Digital/hospital-registry/internal/middleware"
	"github.com/gin-gonic/gin"
)

func (r *Router) hospitalRoutes(version *gin.RouterGroup) {
	hospital := version.Group("/hospital")
	{
		hospital.POST("/register",
			middleware.ValidateJSON(func() interface{} { return &dto.RegisterHospitalRequest{} }),
			r.hospitalHandler.Register)
		hospital.POST("/login",
			middleware.ValidateJSON(func() interface{} { return &dto.LoginRequest{} }),
			r.hospitalHandler.Login)

		hospital.GET("/me", r.authMw.RequireRole(constants.RoleHospital), r.hospitalHandler.Me)
	}
}
