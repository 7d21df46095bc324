package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"landlord-service/internal/models"
	"landlord-service/internal/payments"
	"landlord-service/internal/services"
)

// monthLayout parses the from/to bounds of a range generation request.
const monthLayout = "2006-01"

// PaymentHandler handles rent payment HTTP requests
type PaymentHandler struct {
	data *services.DataService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(data *services.DataService) *PaymentHandler {
	return &PaymentHandler{data: data}
}

// CreatePaymentRequest represents a manually recorded payment
type CreatePaymentRequest struct {
	PropertyID    string  `json:"property_id" binding:"required"`
	TenantID      string  `json:"tenant_id"`
	Amount        float64 `json:"amount"`
	AmountPaid    float64 `json:"amount_paid"`
	RentMonth     string  `json:"rent_month"`
	PaymentDate   string  `json:"payment_date"`
	PaymentMethod string  `json:"payment_method"`
}

// GeneratePaymentsRequest selects which months to generate records for.
// With an empty body the generator covers the current and next month.
type GeneratePaymentsRequest struct {
	Month       int    `json:"month"`
	Year        int    `json:"year"`
	From        string `json:"from"`
	To          string `json:"to"`
	MonthsAhead int    `json:"months_ahead"`
	Force       bool   `json:"force"`
}

// List godoc
// @Summary List payments
// @Tags payments
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Payments retrieved", h.data.Payments())
}

// Get godoc
// @Summary Get a payment
// @Tags payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, ok := h.data.PaymentByID(c.Param("id"))
	if !ok {
		ErrorResponse(c, http.StatusNotFound, "Payment not found", nil)
		return
	}
	SuccessResponse(c, http.StatusOK, "Payment retrieved", payment)
}

// Create godoc
// @Summary Record a payment
// @Description Records a manually entered payment; status is derived from the amounts
// @Tags payments
// @Accept json
// @Produce json
// @Param request body CreatePaymentRequest true "Payment details"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	rentMonth := req.RentMonth
	if rentMonth == "" {
		rentMonth = models.RentMonthLabel(time.Now())
	}

	created, err := h.data.AddPayment(c.Request.Context(), models.Payment{
		PropertyID:    req.PropertyID,
		TenantID:      req.TenantID,
		Amount:        req.Amount,
		AmountPaid:    req.AmountPaid,
		RentMonth:     rentMonth,
		PaymentDate:   req.PaymentDate,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		ServiceErrorResponse(c, "payment", err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Payment created successfully", created)
}

// Update godoc
// @Summary Update a payment
// @Description Applies a partial update and re-derives the payment status
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param request body services.PaymentUpdate true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/payments/{id} [put]
func (h *PaymentHandler) Update(c *gin.Context) {
	var upd services.PaymentUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	updated, err := h.data.UpdatePayment(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		ServiceErrorResponse(c, "payment", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Payment updated successfully", updated)
}

// Delete godoc
// @Summary Delete a payment
// @Tags payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/payments/{id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	if err := h.data.DeletePayment(c.Request.Context(), c.Param("id")); err != nil {
		ServiceErrorResponse(c, "payment", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Payment deleted successfully", nil)
}

// Generate godoc
// @Summary Generate rent payments
// @Description Synthesizes pending payment records for occupied properties. An empty body covers the current and next month; month/year, from/to or months_ahead select other windows. Months that already have a record for a property are skipped.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body GeneratePaymentsRequest false "Generation window"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/payments/generate [post]
func (h *PaymentHandler) Generate(c *gin.Context) {
	var req GeneratePaymentsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			ErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
			return
		}
	}

	ctx := c.Request.Context()

	var (
		summaries []payments.Summary
		err       error
	)
	switch {
	case req.From != "" || req.To != "":
		from, perr := time.Parse(monthLayout, req.From)
		if perr != nil {
			ErrorResponse(c, http.StatusBadRequest, "Invalid from month, expected YYYY-MM", perr)
			return
		}
		to, perr := time.Parse(monthLayout, req.To)
		if perr != nil {
			ErrorResponse(c, http.StatusBadRequest, "Invalid to month, expected YYYY-MM", perr)
			return
		}
		if to.Before(from) {
			ErrorResponse(c, http.StatusBadRequest, "Range end precedes range start", nil)
			return
		}
		summaries, err = h.data.GenerateForRange(ctx, from, to, req.Force)

	case req.MonthsAhead > 0:
		summaries, err = h.data.GenerateForMonthsAhead(ctx, time.Now(), req.MonthsAhead, req.Force)

	case req.Month != 0 || req.Year != 0:
		if req.Month < 1 || req.Month > 12 {
			ErrorResponse(c, http.StatusBadRequest, "Month must be between 1 and 12", nil)
			return
		}
		if req.Year < 1 {
			ErrorResponse(c, http.StatusBadRequest, "Year is required with month", nil)
			return
		}
		var summary payments.Summary
		summary, err = h.data.GenerateForMonthYear(ctx, time.Month(req.Month), req.Year, req.Force)
		summaries = []payments.Summary{summary}

	default:
		summaries, err = h.data.GenerateCurrentAndNext(ctx, time.Now(), req.Force)
	}

	if err != nil {
		ServiceErrorResponse(c, "payments", err)
		return
	}

	total := 0
	for _, s := range summaries {
		total += s.Generated
	}

	SuccessResponse(c, http.StatusOK, "Payment generation completed", gin.H{
		"generated": total,
		"months":    summaries,
	})
}
