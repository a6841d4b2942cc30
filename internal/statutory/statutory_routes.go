package statutory

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	slabs := r.Group("/tax-slabs")
	slabs.Use(middleware.TenantContext(), middleware.ContextLogger())
	{
		slabs.GET("", middleware.RateLimitByTenant(5, 10), handler.GetTaxSlabs)
		slabs.POST("", middleware.RateLimitByTenant(1, 3), handler.CreateTaxSlab)
		slabs.DELETE("/:id", middleware.RateLimitByTenant(0.5, 1), handler.DeactivateTaxSlab)
	}

	nssf := r.Group("/nssf-configurations")
	nssf.Use(middleware.TenantContext(), middleware.ContextLogger())
	{
		nssf.GET("", middleware.RateLimitByTenant(5, 10), handler.GetNSSFConfigs)
		nssf.POST("", middleware.RateLimitByTenant(1, 3), handler.CreateNSSFConfig)
		nssf.DELETE("/:id", middleware.RateLimitByTenant(0.5, 1), handler.DeactivateNSSFConfig)
	}
}
