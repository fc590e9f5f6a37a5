package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tidynest/service-booking/internal/application"
	"github.com/tidynest/service-booking/internal/pkg/response"
)

// BookingHandler handles the public booking lookup used by confirmation pages.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/api/v1/bookings")
	{
		bookings.GET("/:number", h.GetBooking)
	}
}

// GetBooking handles GET /api/v1/bookings/:number.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	result, err := h.service.GetBookingByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
