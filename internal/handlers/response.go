package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"landlord-service/internal/services"
	"landlord-service/internal/store"
)

// ErrorResponse sends a standardized error response
// Internal errors are logged but not exposed to clients
func ErrorResponse(c *gin.Context, statusCode int, message string, err error) {
	requestID := getRequestID(c)

	// Log internal error details
	if err != nil {
		log.Printf("[ERROR] [%s] %s: %v", requestID, message, err)
	}

	// Send user-friendly response (don't expose internal errors)
	response := gin.H{
		"success":    false,
		"message":    message,
		"request_id": requestID,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}

	// Only include error details in development mode
	if gin.Mode() == gin.DebugMode && err != nil {
		response["error_details"] = err.Error()
	}

	c.JSON(statusCode, response)
}

// SuccessResponse sends a standardized success response
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	requestID := getRequestID(c)

	response := gin.H{
		"success":    true,
		"message":    message,
		"request_id": requestID,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}

	if data != nil {
		response["data"] = data
	}

	c.JSON(statusCode, response)
}

// ServiceErrorResponse maps orchestration-layer errors onto HTTP statuses:
// validation failures become 400, missing records 404, backend outages 503.
func ServiceErrorResponse(c *gin.Context, resource string, err error) {
	if verr, ok := services.IsValidationError(err); ok {
		requestID := getRequestID(c)
		c.JSON(http.StatusBadRequest, gin.H{
			"success":    false,
			"message":    "Validation failed",
			"errors":     map[string]string{verr.Field: verr.Message},
			"request_id": requestID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, resource+" not found", nil)
	case errors.Is(err, store.ErrReauthRequired):
		ErrorResponse(c, http.StatusServiceUnavailable, "Storage backend needs re-authorization", err)
	case errors.Is(err, store.ErrNotConnected):
		ErrorResponse(c, http.StatusServiceUnavailable, "Storage backend unavailable", err)
	default:
		ErrorResponse(c, http.StatusInternalServerError, "Failed to process "+resource, err)
	}
}

// getRequestID retrieves or generates a request ID
func getRequestID(c *gin.Context) string {
	// Check if request ID was set by middleware
	if requestID, exists := c.Get("request_id"); exists {
		return requestID.(string)
	}
	// Fallback to X-Request-ID header
	if requestID := c.GetHeader("X-Request-ID"); requestID != "" {
		return requestID
	}
	// Generate a simple ID (in production, use UUID)
	return time.Now().Format("20060102150405")
}
