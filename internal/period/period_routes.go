package period

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	periods := r.Group("/payroll-periods")
	periods.Use(middleware.TenantContext(), middleware.ContextLogger())
	{
		periods.GET("", middleware.RateLimitByTenant(5, 10), handler.GetAll)
		periods.GET("/:id", middleware.RateLimitByTenant(5, 10), handler.GetById)
		periods.POST("", middleware.RateLimitByTenant(1, 3), handler.Create)
		periods.POST("/:id/refresh-summary", middleware.RateLimitByTenant(1, 3), handler.RefreshSummary)
		periods.POST("/:id/close", middleware.RateLimitByTenant(0.5, 1), handler.Close)
	}
}
