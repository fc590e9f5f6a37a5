package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/tidynest/service-booking/internal/config"
)

// SubmissionPayload is the exact JSON body posted to the CRM when a wizard
// draft is confirmed. Field order and names are part of the external contract.
type SubmissionPayload struct {
	IdempotencyKey      string   `json:"idempotency_key"`
	CustomerName        string   `json:"customer_name"`
	Email               string   `json:"email"`
	Phone               string   `json:"phone"`
	Address             string   `json:"address"`
	PostalCode          string   `json:"postal_code,omitempty"`
	Bedrooms            int      `json:"bedrooms"`
	Bathrooms           float64  `json:"bathrooms"`
	SquareFeet          int      `json:"square_feet"`
	ServiceType         string   `json:"service_type"`
	Frequency           string   `json:"frequency"`
	AddOnIDs            []string `json:"add_ons"`
	ZoneName            string   `json:"zone"`
	ZoneMultiplier      float64  `json:"zone_multiplier"`
	Date                string   `json:"date"`
	TimeSlot            string   `json:"time"`
	TotalCents          int64    `json:"total_cents"`
	Currency            string   `json:"currency"`
	SpecialInstructions string   `json:"special_instructions,omitempty"`
	BookingNumber       string   `json:"booking_number"`
}

// Confirmation is the CRM's success response.
type Confirmation struct {
	Reference string `json:"reference"`
}

// SubmissionError is a failed gateway call. The draft survives it; the caller
// surfaces the message verbatim with a retry affordance and the fallback phone
// channel.
type SubmissionError struct {
	StatusCode    int
	Message       string
	Retryable     bool
	FallbackPhone string
}

// Error implements the error interface.
func (e *SubmissionError) Error() string {
	return fmt.Sprintf("booking submission failed (status %d): %s", e.StatusCode, e.Message)
}

// SubmissionGateway is the boundary to the external booking-processing system.
type SubmissionGateway interface {
	// Submit posts the payload and returns the CRM's booking reference.
	Submit(ctx context.Context, payload SubmissionPayload) (*Confirmation, error)
}

// CRMClient is the HTTP SubmissionGateway implementation.
type CRMClient struct {
	submitURL     string
	fallbackPhone string
	client        *http.Client
	logger        *zap.Logger
}

// NewCRMClient creates a CRMClient with a bounded request timeout.
func NewCRMClient(cfg config.GatewayConfig, logger *zap.Logger) *CRMClient {
	return &CRMClient{
		submitURL:     cfg.SubmitURL,
		fallbackPhone: cfg.FallbackPhone,
		client:        &http.Client{Timeout: cfg.Timeout},
		logger:        logger,
	}
}

// Submit posts the payload to the CRM endpoint.
func (c *CRMClient) Submit(ctx context.Context, payload SubmissionPayload) (*Confirmation, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal submission payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.submitURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", payload.IdempotencyKey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("CRM submission transport failure", zap.Error(err))
		return nil, &SubmissionError{
			StatusCode:    0,
			Message:       "the booking service could not be reached",
			Retryable:     true,
			FallbackPhone: c.fallbackPhone,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &SubmissionError{
			StatusCode:    resp.StatusCode,
			Message:       "the booking service returned an unreadable response",
			Retryable:     true,
			FallbackPhone: c.fallbackPhone,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &SubmissionError{
			StatusCode:    resp.StatusCode,
			Message:       crmErrorMessage(raw, resp.StatusCode),
			Retryable:     resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests,
			FallbackPhone: c.fallbackPhone,
		}
	}

	var conf Confirmation
	if err := json.Unmarshal(raw, &conf); err != nil || conf.Reference == "" {
		return nil, &SubmissionError{
			StatusCode:    resp.StatusCode,
			Message:       "the booking service returned no booking reference",
			Retryable:     true,
			FallbackPhone: c.fallbackPhone,
		}
	}

	return &conf, nil
}

// crmErrorMessage extracts the CRM's human-readable message, which is shown to
// the user verbatim.
func crmErrorMessage(raw []byte, status int) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return fmt.Sprintf("the booking service rejected the request (status %d)", status)
}
