package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrPaymentUnavailable = errors.New("payment service not available")

type CreateSessionParams struct {
	AmountCents int64
	Currency    string
	ProductName string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

type CheckoutSession struct {
	SessionID string
	URL       string
}

type SessionStatus struct {
	Status        string
	PaymentStatus string
	AmountTotal   int64
	Currency      string
}

// CheckoutProvider is the hosted-checkout SaaS the bridge talks to.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, params CreateSessionParams) (*CheckoutSession, error)
	GetStatus(ctx context.Context, sessionID string) (*SessionStatus, error)
}

// StripeClient implements CheckoutProvider against the Stripe Checkout
// Sessions API.
type StripeClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewStripeClient(apiKey, baseURL string) *StripeClient {
	return &StripeClient{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type stripeSessionResponse struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
}

func (c *StripeClient) CreateSession(ctx context.Context, params CreateSessionParams) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", strings.ToLower(params.Currency))
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.AmountCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", params.ProductName)
	for k, v := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	var out stripeSessionResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	return &CheckoutSession{SessionID: out.ID, URL: out.URL}, nil
}

func (c *StripeClient) GetStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/checkout/sessions/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	var out stripeSessionResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	return &SessionStatus{
		Status:        out.Status,
		PaymentStatus: out.PaymentStatus,
		AmountTotal:   out.AmountTotal,
		Currency:      strings.ToUpper(out.Currency),
	}, nil
}

func (c *StripeClient) do(req *http.Request, out interface{}) error {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}

	if res.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrPaymentUnavailable, res.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: bad response: %v", ErrPaymentUnavailable, err)
	}

	return nil
}
