package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tidynest/service-booking/internal/application"
	"github.com/tidynest/service-booking/internal/domain/wizard"
	"github.com/tidynest/service-booking/internal/gateway"
	"github.com/tidynest/service-booking/internal/pkg/response"
)

// WizardHandler handles HTTP requests for the booking wizard.
type WizardHandler struct {
	service *application.WizardService
}

// NewWizardHandler creates a new WizardHandler.
func NewWizardHandler(service *application.WizardService) *WizardHandler {
	return &WizardHandler{service: service}
}

// RegisterRoutes registers wizard routes on the given router group.
func (h *WizardHandler) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/api/v1/wizard/sessions")
	{
		sessions.POST("", h.StartSession)
		sessions.GET("/:id", h.GetSession)
		sessions.PUT("/:id/property-location", h.ApplyPropertyLocation)
		sessions.PUT("/:id/service-schedule", h.ApplyServiceSchedule)
		sessions.PUT("/:id/addons", h.ApplyAddons)
		sessions.PUT("/:id/contact", h.ApplyContact)
		sessions.POST("/:id/next", h.Next)
		sessions.POST("/:id/back", h.Back)
		sessions.POST("/:id/reset", h.Reset)
		sessions.POST("/:id/submit", h.Submit)
	}
}

// StartSession handles POST /api/v1/wizard/sessions.
func (h *WizardHandler) StartSession(c *gin.Context) {
	result, err := h.service.StartSession(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// GetSession handles GET /api/v1/wizard/sessions/:id.
func (h *WizardHandler) GetSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	result, err := h.service.GetSession(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ApplyPropertyLocation handles PUT /api/v1/wizard/sessions/:id/property-location.
func (h *WizardHandler) ApplyPropertyLocation(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var in wizard.PropertyLocationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ApplyPropertyLocation(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ApplyServiceSchedule handles PUT /api/v1/wizard/sessions/:id/service-schedule.
func (h *WizardHandler) ApplyServiceSchedule(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var in wizard.ServiceScheduleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ApplyServiceSchedule(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ApplyAddons handles PUT /api/v1/wizard/sessions/:id/addons.
func (h *WizardHandler) ApplyAddons(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var in wizard.AddonsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ApplyAddons(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ApplyContact handles PUT /api/v1/wizard/sessions/:id/contact.
func (h *WizardHandler) ApplyContact(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var in wizard.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ApplyContact(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Next handles POST /api/v1/wizard/sessions/:id/next.
func (h *WizardHandler) Next(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	result, err := h.service.Next(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Back handles POST /api/v1/wizard/sessions/:id/back.
func (h *WizardHandler) Back(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	result, err := h.service.Back(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Reset handles POST /api/v1/wizard/sessions/:id/reset.
func (h *WizardHandler) Reset(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	result, err := h.service.Reset(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Submit handles POST /api/v1/wizard/sessions/:id/submit. A gateway failure
// is reported with the upstream message verbatim plus a retry hint and the
// phone fallback; the session is untouched so the client can try again.
func (h *WizardHandler) Submit(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	result, err := h.service.Submit(c.Request.Context(), id)
	if err != nil {
		var subErr *gateway.SubmissionError
		if errors.As(err, &subErr) {
			c.JSON(http.StatusBadGateway, gin.H{
				"success":        false,
				"error":          subErr.Message,
				"retryable":      subErr.Retryable,
				"fallback_phone": subErr.FallbackPhone,
			})
			return
		}
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid session ID")
		return uuid.Nil, false
	}
	return id, true
}
