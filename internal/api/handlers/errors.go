package handlers

import (
	"errors"
	"net/http"

	"ev-charge-planner/internal/api/models"
	"ev-charge-planner/internal/data"
	"ev-charge-planner/internal/planner"

	"github.com/gin-gonic/gin"
)

func writeError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// writeFetchError maps market data errors onto HTTP responses.
func writeFetchError(c *gin.Context, err error) {
	var apiErr *data.APIError
	if errors.As(err, &apiErr) {
		status := http.StatusBadGateway
		if apiErr.StatusCode == http.StatusTooManyRequests {
			status = http.StatusTooManyRequests
		}
		details := map[string]interface{}{"status_code": apiErr.StatusCode}
		if apiErr.RetryAfter != "" {
			details["retry_after"] = apiErr.RetryAfter
		}
		writeError(c, status, apiErr.Code, apiErr.Message, details)
		return
	}
	writeError(c, http.StatusBadGateway, "DATA_FETCH_ERROR", err.Error(), nil)
}

// writeNotReady reports a planner without usable market data.
func writeNotReady(c *gin.Context, err error) {
	var nr *planner.NotReadyError
	if !errors.As(err, &nr) {
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}
	if nr.Status == planner.StatusError {
		writeError(c, http.StatusServiceUnavailable, "MARKET_DATA_ERROR", nr.Message, nil)
		return
	}
	writeError(c, http.StatusServiceUnavailable, "MARKET_DATA_LOADING", "Market data is still loading", nil)
}
