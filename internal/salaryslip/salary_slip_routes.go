package salaryslip

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	slips := r.Group("/salary-slips")
	slips.Use(middleware.TenantContext(), middleware.ContextLogger())
	{
		slips.GET("", middleware.RateLimitByTenant(5, 10), handler.GetAll)
		slips.GET("/:id", middleware.RateLimitByTenant(5, 10), handler.GetById)
		slips.GET("/:id/breakdown", middleware.RateLimitByTenant(5, 10), handler.GetBreakdown)
		slips.GET("/:id/payslip/download", middleware.RateLimitByTenant(5, 10), handler.DownloadPayslip)

		if redisClient != nil {
			slips.POST("/calculate", middleware.Idempotency(redisClient), middleware.RateLimitByTenant(1, 3), handler.Calculate)
		} else {
			slips.POST("/calculate", middleware.RateLimitByTenant(1, 3), handler.Calculate)
		}

		slips.POST("/:id/approve", middleware.RateLimitByTenant(1, 3), handler.Approve)
		slips.POST("/:id/mark-paid", middleware.RateLimitByTenant(1, 3), handler.MarkAsPaid)
		slips.DELETE("/:id", middleware.RateLimitByTenant(1, 3), handler.Delete)
	}

	runs := r.Group("/payroll-periods")
	runs.Use(middleware.TenantContext(), middleware.ContextLogger())
	{
		if redisClient != nil {
			runs.POST("/:id/generate", middleware.Idempotency(redisClient), middleware.RateLimitByTenant(1, 2), handler.GenerateForPeriod)
		} else {
			runs.POST("/:id/generate", middleware.RateLimitByTenant(1, 2), handler.GenerateForPeriod)
		}
	}
}
