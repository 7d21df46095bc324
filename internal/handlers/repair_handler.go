package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"landlord-service/internal/models"
	"landlord-service/internal/services"
)

// RepairHandler handles repair request HTTP requests
type RepairHandler struct {
	data *services.DataService
}

// NewRepairHandler creates a new repair handler
func NewRepairHandler(data *services.DataService) *RepairHandler {
	return &RepairHandler{data: data}
}

// CreateRepairRequest represents the request to file a repair
type CreateRepairRequest struct {
	PropertyID  string `json:"property_id" binding:"required"`
	TenantID    string `json:"tenant_id"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
	Notes       string `json:"notes"`
}

// List godoc
// @Summary List repair requests
// @Tags repairs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/repairs [get]
func (h *RepairHandler) List(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Repair requests retrieved", h.data.Repairs())
}

// Get godoc
// @Summary Get a repair request
// @Tags repairs
// @Produce json
// @Param id path string true "Repair ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/repairs/{id} [get]
func (h *RepairHandler) Get(c *gin.Context) {
	repair, ok := h.data.RepairByID(c.Param("id"))
	if !ok {
		ErrorResponse(c, http.StatusNotFound, "Repair request not found", nil)
		return
	}
	SuccessResponse(c, http.StatusOK, "Repair request retrieved", repair)
}

// Create godoc
// @Summary File a repair request
// @Description Creates a repair request, defaulting status to pending and stamping the submission date
// @Tags repairs
// @Accept json
// @Produce json
// @Param request body CreateRepairRequest true "Repair details"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/repairs [post]
func (h *RepairHandler) Create(c *gin.Context) {
	var req CreateRepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	created, err := h.data.AddRepair(c.Request.Context(), models.RepairRequest{
		PropertyID:  req.PropertyID,
		TenantID:    req.TenantID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
		Notes:       req.Notes,
	})
	if err != nil {
		ServiceErrorResponse(c, "repair request", err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Repair request created successfully", created)
}

// Update godoc
// @Summary Update a repair request
// @Description Applies a partial update; completing a request stamps the resolution date
// @Tags repairs
// @Accept json
// @Produce json
// @Param id path string true "Repair ID"
// @Param request body services.RepairUpdate true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/repairs/{id} [put]
func (h *RepairHandler) Update(c *gin.Context) {
	var upd services.RepairUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	updated, err := h.data.UpdateRepair(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		ServiceErrorResponse(c, "repair request", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Repair request updated successfully", updated)
}

// Delete godoc
// @Summary Delete a repair request
// @Tags repairs
// @Produce json
// @Param id path string true "Repair ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/repairs/{id} [delete]
func (h *RepairHandler) Delete(c *gin.Context) {
	if err := h.data.DeleteRepair(c.Request.Context(), c.Param("id")); err != nil {
		ServiceErrorResponse(c, "repair request", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Repair request deleted successfully", nil)
}
