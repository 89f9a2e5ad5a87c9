// api/handlers/health_handlers.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports liveness plus whether the AI proxy endpoints are
// usable (an API key is configured).
func HealthCheck(hasAPIKey bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ok":        true,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"hasApiKey": hasAPIKey,
		})
	}
}
