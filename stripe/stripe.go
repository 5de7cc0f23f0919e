package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultBaseURL = "https://api.stripe.com"

// PaymentIntent is the slice of Stripe's payment-intent object the
// server cares about.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// Client talks to the Stripe payment-intent API. Calls are not retried;
// a gateway failure fails the request that triggered it.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func New(secretKey string) *Client {
	return &Client{
		secretKey:  secretKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// NewWithBaseURL points the client at a non-default endpoint, used by
// tests against a stub server.
func NewWithBaseURL(secretKey, baseURL string) *Client {
	c := New(secretKey)
	c.baseURL = baseURL
	return c
}

// CreatePaymentIntent opens a card-only intent for amount minor units.
func (c *Client) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	form.Add("payment_method_types[]", "card")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return PaymentIntent{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PaymentIntent{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
				Type    string `json:"type"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return PaymentIntent{}, fmt.Errorf("stripe: %s (%s)", apiErr.Error.Message, apiErr.Error.Type)
		}
		return PaymentIntent{}, fmt.Errorf("stripe: unexpected status %d", resp.StatusCode)
	}

	var intent PaymentIntent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return PaymentIntent{}, fmt.Errorf("stripe: decoding response: %w", err)
	}
	return intent, nil
}
