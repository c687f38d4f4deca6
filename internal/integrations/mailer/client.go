package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Glenne01/sneakers-sub000/internal/config"

	"github.com/google/uuid"
)

// OrderConfirmation is the notification payload for a fulfilled order.
// Content and templating live in the notification service, not here.
type OrderConfirmation struct {
	IdempotencyKey string `json:"idempotency_key"`
	Email          string `json:"email"`
	OrderID        int    `json:"order_id"`
	OrderNumber    string `json:"order_number"`
}

// Client posts order confirmations to the external notification service.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(cfg config.NotifierConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{},
	}
}

// SendOrderConfirmation delivers one confirmation. A missing idempotency key
// is filled in so retries of the same payload stay deduplicated downstream.
func (c *Client) SendOrderConfirmation(ctx context.Context, msg OrderConfirmation) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if msg.IdempotencyKey == "" {
		msg.IdempotencyKey = uuid.NewString()
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notifications/order-confirmation", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification service returned %s", resp.Status)
	}

	return nil
}
