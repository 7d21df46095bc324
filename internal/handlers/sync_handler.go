package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"landlord-service/internal/services"
)

// SyncHandler handles manual sync HTTP requests
type SyncHandler struct {
	sync *services.SyncService
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(sync *services.SyncService) *SyncHandler {
	return &SyncHandler{sync: sync}
}

// Trigger godoc
// @Summary Trigger a manual sync
// @Description Pulls all records from the durable backend and replaces the in-memory collections. Only one sync runs at a time.
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/sync [post]
func (h *SyncHandler) Trigger(c *gin.Context) {
	result, err := h.sync.SyncNow(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoDurableBackend):
			ErrorResponse(c, http.StatusBadRequest, "No durable backend configured", nil)
		case errors.Is(err, services.ErrSyncInProgress):
			ErrorResponse(c, http.StatusConflict, "Sync already in progress", nil)
		default:
			ServiceErrorResponse(c, "sync", err)
		}
		return
	}

	SuccessResponse(c, http.StatusOK, "Sync completed successfully", result)
}

// Status godoc
// @Summary Sync status
// @Description Reports whether a sync is running and the outcome of the last run
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/sync/status [get]
func (h *SyncHandler) Status(c *gin.Context) {
	status := gin.H{"in_progress": h.sync.Busy()}

	last, err := h.sync.LastSync(c.Request.Context())
	if err == nil && last != nil {
		status["last_sync"] = last
	}

	SuccessResponse(c, http.StatusOK, "Sync status retrieved", status)
}
