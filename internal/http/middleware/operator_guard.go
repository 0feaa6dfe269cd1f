package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/chainmarket/internal/models"
)

// OperatorOnly пускает дальше только пользователей с ролью operator.
// Ставится после AuthMiddleware.
func OperatorOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get(ContextRoleKey)
		role, ok := raw.(string)
		if !exists || !ok || role != models.RoleOperator {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "доступно только операторам"})
			return
		}
		c.Next()
	}
}
