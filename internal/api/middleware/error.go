package middleware

import (
	"net/http"

	"ev-charge-planner/internal/api/models"
	"ev-charge-planner/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler middleware recovers panics into a JSON INTERNAL_ERROR response.
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Errorf("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		message := "An unexpected error occurred"
		if err, ok := recovered.(string); ok {
			message = err
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: message,
			},
		})
	})
}
