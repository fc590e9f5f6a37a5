package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tidynest/service-booking/internal/pkg/domain"
)

// envelope is the standard response body shape.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *errorBody  `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type paginatedEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
}

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

// Paginated writes a 200 response with paging metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, paginatedEnvelope{Success: true, Data: items, Total: total, Page: page, Limit: limit})
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, envelope{Success: false, Error: &errorBody{
		Code:    string(domain.CodeValidation),
		Message: message,
	}})
}

// Error maps a domain error to its HTTP status. Unrecognized errors become 500s
// with a generic message so internals never leak to the client.
func Error(c *gin.Context, err error) {
	if de, ok := domain.AsDomainError(err); ok {
		c.JSON(statusFor(de.Code), envelope{Success: false, Error: &errorBody{
			Code:    string(de.Code),
			Message: de.Message,
			Field:   de.Field,
		}})
		return
	}

	c.JSON(http.StatusInternalServerError, envelope{Success: false, Error: &errorBody{
		Code:    "internal_error",
		Message: "internal server error",
	}})
}

func statusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeValidation:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeConflict:
		return http.StatusConflict
	case domain.CodeInvalidState:
		return http.StatusUnprocessableEntity
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
