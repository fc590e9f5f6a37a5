package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tidynest/service-booking/internal/config"
	"github.com/tidynest/service-booking/internal/gateway"
)

func newClient(t *testing.T, handler http.HandlerFunc) *gateway.CRMClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return gateway.NewCRMClient(config.GatewayConfig{
		SubmitURL:     server.URL,
		Timeout:       2 * time.Second,
		FallbackPhone: "(604) 555-0100",
	}, zap.NewNop())
}

func testPayload() gateway.SubmissionPayload {
	return gateway.SubmissionPayload{
		IdempotencyKey: "0d1c3a52-9b6a-4f0e-8a3d-1f2e3d4c5b6a",
		CustomerName:   "Dana Reyes",
		Email:          "dana@example.com",
		Phone:          "(604) 555-0134",
		Address:        "300 Seymour St",
		Bedrooms:       2,
		Bathrooms:      2,
		SquareFeet:     1200,
		ServiceType:    "standard",
		Frequency:      "biweekly",
		ZoneName:       "Downtown",
		ZoneMultiplier: 1.25,
		Date:           "2026-09-08",
		TimeSlot:       "10:00 AM",
		TotalCents:     14100,
		Currency:       "USD",
		BookingNumber:  "BK-QX7N2M",
	}
}

func TestCRMClient_Submit(t *testing.T) {
	var gotKey string
	var gotBody gateway.SubmissionPayload
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"reference":"CRM-20331"}`))
	})

	payload := testPayload()
	conf, err := client.Submit(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, "CRM-20331", conf.Reference)
	assert.Equal(t, payload.IdempotencyKey, gotKey)
	assert.Equal(t, payload.BookingNumber, gotBody.BookingNumber)
	assert.Equal(t, payload.TotalCents, gotBody.TotalCents)
}

func TestCRMClient_ServerErrorIsRetryable(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"maintenance window until 6pm"}`))
	})

	_, err := client.Submit(context.Background(), testPayload())
	var subErr *gateway.SubmissionError
	require.ErrorAs(t, err, &subErr)

	assert.Equal(t, http.StatusServiceUnavailable, subErr.StatusCode)
	assert.Equal(t, "maintenance window until 6pm", subErr.Message)
	assert.True(t, subErr.Retryable)
	assert.Equal(t, "(604) 555-0100", subErr.FallbackPhone)
}

func TestCRMClient_ClientErrorIsNotRetryable(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"postal code outside service area"}`))
	})

	_, err := client.Submit(context.Background(), testPayload())
	var subErr *gateway.SubmissionError
	require.ErrorAs(t, err, &subErr)

	assert.Equal(t, "postal code outside service area", subErr.Message)
	assert.False(t, subErr.Retryable)
}

func TestCRMClient_RateLimitIsRetryable(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Submit(context.Background(), testPayload())
	var subErr *gateway.SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.True(t, subErr.Retryable)
	assert.Contains(t, subErr.Message, "status 429")
}

func TestCRMClient_MissingReference(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := client.Submit(context.Background(), testPayload())
	var subErr *gateway.SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.True(t, subErr.Retryable)
}

func TestCRMClient_TransportFailure(t *testing.T) {
	client := gateway.NewCRMClient(config.GatewayConfig{
		SubmitURL:     "http://127.0.0.1:1/submit",
		Timeout:       time.Second,
		FallbackPhone: "(604) 555-0100",
	}, zap.NewNop())

	_, err := client.Submit(context.Background(), testPayload())
	var subErr *gateway.SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, 0, subErr.StatusCode)
	assert.True(t, subErr.Retryable)
}
