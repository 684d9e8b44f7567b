package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Default settings used when the config leaves them unset.
const (
	DefaultTimeout    = 10 * time.Second
	DefaultMaxRetries = 3
)

// Signature and event headers attached to every delivery.
const (
	SignatureHeader = "X-Saral-Signature"
	EventHeader     = "X-Saral-Event"
)

// Dispatcher delivers event payloads to registered endpoints over HTTP.
type Dispatcher struct {
	client     *http.Client
	maxRetries int
}

// NewDispatcher creates a dispatcher with the given timeout and retry count
func NewDispatcher(timeout time.Duration, maxRetries int) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Dispatcher{
		client:     &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
	}
}

// Envelope is the JSON body POSTed to the endpoint.
type Envelope struct {
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Deliver POSTs the event to the URL, signing the body with the endpoint
// secret. It retries on network errors and 5xx responses with a short
// backoff. A 4xx response is treated as permanent and not retried.
func (d *Dispatcher) Deliver(ctx context.Context, url, secret, event string, payload interface{}) error {
	body, err := json.Marshal(Envelope{
		Event:     event,
		Timestamp: time.Now().UTC(),
		Data:      payload,
	})
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	signature := Sign(secret, body)

	var lastErr error
	for attempt := 1; attempt <= d.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to build webhook request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(SignatureHeader, signature)
		req.Header.Set(EventHeader, event)

		resp, err := d.client.Do(req)
		if err != nil {
			lastErr = err
		} else {
			resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return nil
			}
			lastErr = fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return lastErr
			}
		}

		if attempt < d.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
	}

	log.Printf("Webhook delivery to %s failed after %d attempts: %v", url, d.maxRetries, lastErr)
	return lastErr
}

// Sign computes the hex-encoded HMAC-SHA256 of the body with the secret
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether the signature matches the body. Useful
// for consumers validating incoming deliveries.
func VerifySignature(secret string, body []byte, signature string) bool {
	return hmac.Equal([]byte(Sign(secret, body)), []byte(signature))
}
