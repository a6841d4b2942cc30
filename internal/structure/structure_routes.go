package structure

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	structures := r.Group("/salary-structures")
	structures.Use(middleware.TenantContext(), middleware.ContextLogger())
	{
		structures.GET("", middleware.RateLimitByTenant(5, 10), handler.GetAll)
		structures.GET("/:id", middleware.RateLimitByTenant(5, 10), handler.GetById)
		structures.POST("", middleware.RateLimitByTenant(1, 3), handler.Create)
		structures.PUT("/:id", middleware.RateLimitByTenant(1, 3), handler.Update)
		structures.POST("/:id/submit", middleware.RateLimitByTenant(1, 3), handler.Submit)
	}

	assignments := r.Group("/structure-assignments")
	assignments.Use(middleware.TenantContext(), middleware.ContextLogger())
	{
		assignments.GET("", middleware.RateLimitByTenant(5, 10), handler.GetAssignments)
		assignments.POST("", middleware.RateLimitByTenant(1, 3), handler.CreateAssignment)
		assignments.DELETE("/:id", middleware.RateLimitByTenant(0.5, 1), handler.DeactivateAssignment)
	}
}
