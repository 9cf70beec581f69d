package ratelimit

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestRateLimitExceededResponse(t *testing.T) {
	tests := []struct {
		name           string
		retryAfter     time.Duration
		wantRetryAfter string
	}{
		{
			name:           "sub-second retry rounds up to one second",
			retryAfter:     300 * time.Millisecond,
			wantRetryAfter: "1",
		},
		{
			name:           "multi-second retry",
			retryAfter:     30 * time.Second,
			wantRetryAfter: "30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return rateLimitExceeded(c, &Result{RetryAfter: tt.retryAfter})
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != fiber.StatusTooManyRequests {
				t.Errorf("expected status %d, got %d", fiber.StatusTooManyRequests, resp.StatusCode)
			}
			if got := resp.Header.Get("Retry-After"); got != tt.wantRetryAfter {
				t.Errorf("expected Retry-After %q, got %q", tt.wantRetryAfter, got)
			}

			var body struct {
				Error      string `json:"error"`
				RetryAfter int    `json:"retry_after"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body.Error != "RATE_LIMITED" {
				t.Errorf("expected error code %q, got %q", "RATE_LIMITED", body.Error)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.RequestsPerWindow != 100 {
		t.Errorf("expected 100 requests per window, got %d", config.RequestsPerWindow)
	}
	if config.WindowSize != time.Minute {
		t.Errorf("expected one minute window, got %v", config.WindowSize)
	}
}
