package additionalsalary

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	entries := r.Group("/additional-salaries")
	entries.Use(middleware.TenantContext(), middleware.ContextLogger())
	{
		entries.GET("", middleware.RateLimitByTenant(5, 10), handler.GetAll)
		entries.GET("/:id", middleware.RateLimitByTenant(5, 10), handler.GetById)
		entries.POST("", middleware.RateLimitByTenant(1, 3), handler.Create)
		entries.POST("/:id/activate", middleware.RateLimitByTenant(1, 3), handler.Activate)
		entries.POST("/:id/cancel", middleware.RateLimitByTenant(1, 3), handler.Cancel)
	}
}
