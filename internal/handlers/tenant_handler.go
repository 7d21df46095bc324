package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"landlord-service/internal/models"
	"landlord-service/internal/services"
)

// TenantHandler handles tenant-related HTTP requests
type TenantHandler struct {
	data *services.DataService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(data *services.DataService) *TenantHandler {
	return &TenantHandler{data: data}
}

// CreateTenantRequest represents the request to register a tenant
type CreateTenantRequest struct {
	Name          string  `json:"name" binding:"required,min=2"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	PropertyID    string  `json:"property_id"`
	LeaseStart    string  `json:"lease_start"`
	LeaseEnd      string  `json:"lease_end"`
	RentAmount    float64 `json:"rent_amount"`
	PaymentMethod string  `json:"payment_method"`
	LeaseType     string  `json:"lease_type"`
}

// List godoc
// @Summary List tenants
// @Tags tenants
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/tenants [get]
func (h *TenantHandler) List(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Tenants retrieved", h.data.Tenants())
}

// Get godoc
// @Summary Get a tenant
// @Tags tenants
// @Produce json
// @Param id path string true "Tenant ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/tenants/{id} [get]
func (h *TenantHandler) Get(c *gin.Context) {
	tenant, ok := h.data.TenantByID(c.Param("id"))
	if !ok {
		ErrorResponse(c, http.StatusNotFound, "Tenant not found", nil)
		return
	}
	SuccessResponse(c, http.StatusOK, "Tenant retrieved", tenant)
}

// Create godoc
// @Summary Register a tenant
// @Description Creates the tenant and marks the referenced property occupied
// @Tags tenants
// @Accept json
// @Produce json
// @Param request body CreateTenantRequest true "Tenant details"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/tenants [post]
func (h *TenantHandler) Create(c *gin.Context) {
	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	created, err := h.data.AddTenant(c.Request.Context(), models.Tenant{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		PropertyID:    req.PropertyID,
		LeaseStart:    req.LeaseStart,
		LeaseEnd:      req.LeaseEnd,
		RentAmount:    req.RentAmount,
		PaymentMethod: req.PaymentMethod,
		LeaseType:     req.LeaseType,
	})
	if err != nil {
		ServiceErrorResponse(c, "tenant", err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Tenant created successfully", created)
}

// Update godoc
// @Summary Update a tenant
// @Description Applies a partial update; changing the lease end recomputes the renewal reminder
// @Tags tenants
// @Accept json
// @Produce json
// @Param id path string true "Tenant ID"
// @Param request body services.TenantUpdate true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/tenants/{id} [put]
func (h *TenantHandler) Update(c *gin.Context) {
	var upd services.TenantUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	updated, err := h.data.UpdateTenant(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		ServiceErrorResponse(c, "tenant", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Tenant updated successfully", updated)
}

// Delete godoc
// @Summary Delete a tenant
// @Description Removes the tenant and their payments, and marks the property vacant
// @Tags tenants
// @Produce json
// @Param id path string true "Tenant ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/tenants/{id} [delete]
func (h *TenantHandler) Delete(c *gin.Context) {
	if err := h.data.DeleteTenant(c.Request.Context(), c.Param("id")); err != nil {
		ServiceErrorResponse(c, "tenant", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Tenant deleted successfully", nil)
}
