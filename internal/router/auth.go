package router

import "github.com/gin-gonic/gin"

func (r *Router) authRoutes(version *gin.RouterGroup) {
	auth := version.Group("/auth")
	{
		// Any authenticated subject may revoke its own token
		auth.POST("/logout", r.authMw.RequireRole(), r.authHandler.Logout)
	}
}
