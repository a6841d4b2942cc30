package middleware

import (
	"go-payroll/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger menempelkan logger ber-metadata ke request context. Dipasang
// setelah TenantContext agar company_id dan actor sudah terisi.
func ContextLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetString("request_id")
		actor := c.GetString("employee_id")

		reqLogger := zap.L().With(
			zap.String("request_id", rid),
			zap.String("company_id", c.GetString("company_id")),
			zap.String("actor_id", actor),
		)

		// Propagasi ke standard context agar service/repo bisa ambil via
		// contextutil tanpa tahu Gin.
		ctx := c.Request.Context()
		ctx = contextutil.WithUserID(ctx, actor)
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
