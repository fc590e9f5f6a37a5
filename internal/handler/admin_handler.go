package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tidynest/service-booking/internal/application"
	"github.com/tidynest/service-booking/internal/pkg/auth"
	"github.com/tidynest/service-booking/internal/pkg/middleware"
	"github.com/tidynest/service-booking/internal/pkg/response"
)

// AdminBookingHandler handles admin HTTP requests for booking management.
type AdminBookingHandler struct {
	service *application.BookingService
}

// NewAdminBookingHandler creates a new AdminBookingHandler.
func NewAdminBookingHandler(service *application.BookingService) *AdminBookingHandler {
	return &AdminBookingHandler{service: service}
}

// RegisterRoutes registers admin booking routes.
func (h *AdminBookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW, adminRole)
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/bookings/:number", h.GetBooking)
		admin.GET("/schedule", h.Schedule)
		admin.GET("/stats/bookings", h.BookingStats)
		admin.POST("/bookings/:number/confirm", h.ConfirmBooking)
		admin.POST("/bookings/:number/start", h.StartVisit)
		admin.POST("/bookings/:number/complete", h.CompleteVisit)
		admin.POST("/bookings/:number/cancel", h.CancelBooking)
	}
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminBookingHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetBooking handles GET /api/v1/admin/bookings/:number.
func (h *AdminBookingHandler) GetBooking(c *gin.Context) {
	result, err := h.service.GetBookingByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Schedule handles GET /api/v1/admin/schedule?date=YYYY-MM-DD.
func (h *AdminBookingHandler) Schedule(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.BadRequest(c, "date is required")
		return
	}

	result, err := h.service.GetBookingsForDate(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// BookingStats handles GET /api/v1/admin/stats/bookings.
func (h *AdminBookingHandler) BookingStats(c *gin.Context) {
	stats, err := h.service.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// ConfirmBooking handles POST /api/v1/admin/bookings/:number/confirm.
func (h *AdminBookingHandler) ConfirmBooking(c *gin.Context) {
	var req struct {
		CRMReference string `json:"crm_reference"`
	}
	_ = c.ShouldBindJSON(&req) // body is optional

	result, err := h.service.ConfirmBooking(c.Request.Context(), c.Param("number"), req.CRMReference)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// StartVisit handles POST /api/v1/admin/bookings/:number/start.
func (h *AdminBookingHandler) StartVisit(c *gin.Context) {
	result, err := h.service.StartVisit(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CompleteVisit handles POST /api/v1/admin/bookings/:number/complete.
func (h *AdminBookingHandler) CompleteVisit(c *gin.Context) {
	result, err := h.service.CompleteVisit(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CancelBooking handles POST /api/v1/admin/bookings/:number/cancel.
func (h *AdminBookingHandler) CancelBooking(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req) // body is optional

	result, err := h.service.CancelBooking(c.Request.Context(), c.Param("number"), req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// parsePagination reads page/limit query params with sane bounds.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
