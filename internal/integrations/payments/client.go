package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Glenne01/sneakers-sub000/internal/config"
)

// Client queries the external payment provider for the state of a checkout
// session. The provider is an already-verified trust boundary: this client
// only reads a confirmed/not-confirmed fact, it never touches payment data.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(cfg config.PaymentsConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{},
	}
}

// Verify reports whether the payment reference denotes a confirmed payment.
// The call is bounded by the configured timeout regardless of the caller's
// deadline.
func (c *Client) Verify(ctx context.Context, paymentRef string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/payments/%s", c.baseURL, url.PathEscape(paymentRef))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("payment provider returned %s", resp.Status)
	}

	var status paymentStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return false, err
	}

	return status.Status == statusConfirmed, nil
}
