package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tidynest/service-booking/internal/application"
	"github.com/tidynest/service-booking/internal/pkg/response"
)

// AvailabilityHandler handles HTTP requests for zones and time slots.
type AvailabilityHandler struct {
	service *application.AvailabilityService
}

// NewAvailabilityHandler creates a new AvailabilityHandler.
func NewAvailabilityHandler(service *application.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// RegisterRoutes registers availability routes on the given router group.
func (h *AvailabilityHandler) RegisterRoutes(r *gin.RouterGroup) {
	api := r.Group("/api/v1")
	{
		api.GET("/zones", h.ListZones)
		api.GET("/zones/resolve", h.ResolveZone)
		api.GET("/availability", h.GetAvailability)
	}
}

// ListZones handles GET /api/v1/zones.
func (h *AvailabilityHandler) ListZones(c *gin.Context) {
	response.Success(c, h.service.Zones())
}

// ResolveZone handles GET /api/v1/zones/resolve. Takes either lat/lng query
// params or a postal code; with neither it resolves to the default zone.
func (h *AvailabilityHandler) ResolveZone(c *gin.Context) {
	var lat, lng *float64
	if latStr := c.Query("lat"); latStr != "" {
		v, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			response.BadRequest(c, "invalid lat")
			return
		}
		lat = &v
	}
	if lngStr := c.Query("lng"); lngStr != "" {
		v, err := strconv.ParseFloat(lngStr, 64)
		if err != nil {
			response.BadRequest(c, "invalid lng")
			return
		}
		lng = &v
	}

	result := h.service.ResolveZone(c.Query("postal_code"), lat, lng)
	response.Success(c, result)
}

// GetAvailability handles GET /api/v1/availability?zone_id=...&date=YYYY-MM-DD.
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.BadRequest(c, "date is required")
		return
	}

	result, err := h.service.Slots(c.Query("zone_id"), date)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
