package component

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	components := r.Group("/salary-components")
	components.Use(middleware.TenantContext(), middleware.ContextLogger())
	{
		components.GET("",
			middleware.RateLimitByTenant(5, 10),
			handler.GetAll,
		)
		components.GET("/:id",
			middleware.RateLimitByTenant(5, 10),
			handler.GetById,
		)
		components.POST("",
			middleware.RateLimitByTenant(1, 3),
			handler.Create,
		)
		components.PUT("/:id",
			middleware.RateLimitByTenant(1, 3),
			handler.Update,
		)
		components.DELETE("/:id",
			middleware.RateLimitByTenant(0.5, 1),
			handler.Delete,
		)
	}
}
