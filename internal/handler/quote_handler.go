package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tidynest/service-booking/internal/application"
	"github.com/tidynest/service-booking/internal/pkg/response"
)

// QuoteHandler handles HTTP requests for instant price quotes.
type QuoteHandler struct {
	service *application.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(service *application.QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

// RegisterRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterRoutes(r *gin.RouterGroup) {
	quotes := r.Group("/api/v1")
	{
		quotes.POST("/quotes", h.CreateQuote)
		quotes.GET("/catalog", h.GetCatalog)
	}
}

// CreateQuote handles POST /api/v1/quotes.
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var req application.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Quote(req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetCatalog handles GET /api/v1/catalog.
func (h *QuoteHandler) GetCatalog(c *gin.Context) {
	response.Success(c, h.service.Catalog())
}
