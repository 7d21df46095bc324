package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"landlord-service/internal/models"
	redisClient "landlord-service/internal/redis"
	"landlord-service/internal/services"
)

// summaryTTL bounds how stale a cached dashboard summary may get.
const summaryTTL = time.Minute

// DashboardHandler serves aggregate portfolio figures
type DashboardHandler struct {
	data  *services.DataService
	cache *redisClient.Client
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(data *services.DataService) *DashboardHandler {
	return &DashboardHandler{data: data}
}

// SetCache wires the optional Redis cache for summary responses
func (h *DashboardHandler) SetCache(c *redisClient.Client) { h.cache = c }

// Summary godoc
// @Summary Dashboard summary
// @Description Returns occupancy, outstanding rent and open repair counts across the portfolio
// @Tags dashboard
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	if h.cache != nil {
		if cached, err := h.cache.GetDashboardSummary(ctx); err == nil && cached != nil {
			SuccessResponse(c, http.StatusOK, "Dashboard summary retrieved", cached)
			return
		}
	}

	summary := h.build()

	if h.cache != nil {
		if err := h.cache.SaveDashboardSummary(ctx, summary, summaryTTL); err != nil {
			log.Printf("[WARN] failed to cache dashboard summary: %v", err)
		}
	}

	SuccessResponse(c, http.StatusOK, "Dashboard summary retrieved", summary)
}

func (h *DashboardHandler) build() *redisClient.DashboardSummary {
	summary := &redisClient.DashboardSummary{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for _, p := range h.data.Properties() {
		summary.Properties++
		switch p.Status {
		case models.PropertyOccupied:
			summary.Occupied++
		case models.PropertyMaintenance:
			summary.Maintenance++
		default:
			summary.Vacant++
		}
	}

	summary.Tenants = len(h.data.Tenants())

	for _, p := range h.data.Payments() {
		if outstanding := p.Amount - p.AmountPaid; outstanding > 0 {
			summary.OutstandingRent += outstanding
		}
	}

	for _, r := range h.data.Repairs() {
		if r.Status != models.RepairCompleted {
			summary.OpenRepairs++
		}
	}

	return summary
}
