package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"landlord-service/internal/models"
	"landlord-service/internal/services"
)

// PropertyHandler handles property-related HTTP requests
type PropertyHandler struct {
	data *services.DataService
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(data *services.DataService) *PropertyHandler {
	return &PropertyHandler{data: data}
}

// CreatePropertyRequest represents the request to register a property
type CreatePropertyRequest struct {
	Address string  `json:"address" binding:"required"`
	City    string  `json:"city"`
	State   string  `json:"state"`
	ZipCode string  `json:"zip_code"`
	Rent    float64 `json:"rent"`
	Status  string  `json:"status"`
}

// List godoc
// @Summary List properties
// @Description Returns all registered properties
// @Tags properties
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/properties [get]
func (h *PropertyHandler) List(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Properties retrieved", h.data.Properties())
}

// Get godoc
// @Summary Get a property
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/properties/{id} [get]
func (h *PropertyHandler) Get(c *gin.Context) {
	prop, ok := h.data.PropertyByID(c.Param("id"))
	if !ok {
		ErrorResponse(c, http.StatusNotFound, "Property not found", nil)
		return
	}
	SuccessResponse(c, http.StatusOK, "Property retrieved", prop)
}

// Create godoc
// @Summary Register a property
// @Tags properties
// @Accept json
// @Produce json
// @Param request body CreatePropertyRequest true "Property details"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/properties [post]
func (h *PropertyHandler) Create(c *gin.Context) {
	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	created, err := h.data.AddProperty(c.Request.Context(), models.Property{
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
		Rent:    req.Rent,
		Status:  models.PropertyStatus(req.Status),
	})
	if err != nil {
		ServiceErrorResponse(c, "property", err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Property created successfully", created)
}

// Update godoc
// @Summary Update a property
// @Description Applies a partial update; omitted fields keep their value
// @Tags properties
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param request body services.PropertyUpdate true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/properties/{id} [put]
func (h *PropertyHandler) Update(c *gin.Context) {
	var upd services.PropertyUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	updated, err := h.data.UpdateProperty(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		ServiceErrorResponse(c, "property", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Property updated successfully", updated)
}

// Delete godoc
// @Summary Delete a property
// @Description Removes the property together with its tenants and payments
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/properties/{id} [delete]
func (h *PropertyHandler) Delete(c *gin.Context) {
	if err := h.data.DeleteProperty(c.Request.Context(), c.Param("id")); err != nil {
		ServiceErrorResponse(c, "property", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Property deleted successfully", nil)
}
