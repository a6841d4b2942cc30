package middleware

import (
	"net/http"

	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TenantContext mengambil identitas tenant dari header. Company ID wajib ada
// di setiap request; employee ID opsional dan dipakai sebagai actor untuk
// audit. Validasi identitas sendiri dilakukan oleh gateway di depan service.
func TenantContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID := c.GetHeader("X-Company-ID")
		if companyID == "" {
			response.Error(c, http.StatusBadRequest, "MISSING_COMPANY", "X-Company-ID header is required", nil)
			c.Abort()
			return
		}
		if _, err := uuid.Parse(companyID); err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_COMPANY", "X-Company-ID must be a valid UUID", nil)
			c.Abort()
			return
		}

		c.Set("company_id", companyID)

		if employeeID := c.GetHeader("X-Employee-ID"); employeeID != "" {
			c.Set("employee_id", employeeID)
		}

		c.Next()
	}
}
