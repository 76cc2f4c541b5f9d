package utils

import (
	"coursehub/config"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// CheckoutSessionRequest carries everything the provider needs to open
// a hosted checkout page for one course purchase.
type CheckoutSessionRequest struct {
	Amount          float64 // decimal dollars, converted to cents on the wire
	Currency        string
	Description     string
	ImageURL        string
	ClientReference string // stable idempotency reference for this attempt
	Metadata        map[string]string
}

// CheckoutSession is the provider's view of a checkout transaction.
type CheckoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentStatus string            `json:"payment_status"` // "paid", "unpaid", "no_payment_required"
	Metadata      map[string]string `json:"metadata"`
}

// Paid reports whether the provider confirmed the payment.
func (s *CheckoutSession) Paid() bool {
	return s.PaymentStatus == "paid"
}

// CheckoutClient talks to the hosted-checkout payment provider
// (Stripe-compatible API surface).
type CheckoutClient struct {
	client *resty.Client
}

// NewCheckoutClient builds a client from application config. All calls
// are bounded by the configured timeout; expiry surfaces as an error
// instead of hanging the enrollment request.
func NewCheckoutClient() *CheckoutClient {
	client := resty.New().
		SetBaseURL(config.AppConfig.CheckoutApiURL).
		SetAuthToken(config.AppConfig.CheckoutSecretKey).
		SetTimeout(time.Duration(config.AppConfig.CheckoutTimeoutSec) * time.Second)

	return &CheckoutClient{client: client}
}

// CreateCheckoutSession opens a hosted checkout session and returns its
// id and redirect URL.
func (cc *CheckoutClient) CreateCheckoutSession(req CheckoutSessionRequest) (*CheckoutSession, error) {
	form := map[string]string{
		"mode":                                           "payment",
		"payment_method_types[0]":                        "card",
		"line_items[0][quantity]":                        "1",
		"line_items[0][price_data][currency]":            req.Currency,
		"line_items[0][price_data][unit_amount]":         strconv.Itoa(int(math.Round(req.Amount * 100))),
		"line_items[0][price_data][product_data][name]":  req.Description,
		"success_url":                                    config.AppConfig.CheckoutSuccessURL,
		"cancel_url":                                     config.AppConfig.CheckoutCancelURL,
		"client_reference_id":                            req.ClientReference,
	}
	if req.ImageURL != "" {
		form["line_items[0][price_data][product_data][images][0]"] = req.ImageURL
	}
	for key, value := range req.Metadata {
		form["metadata["+key+"]"] = value
	}

	resp, err := cc.client.R().
		SetFormData(form).
		Post("/checkout/sessions")
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %v", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("checkout API error (%d): %s", resp.StatusCode(), resp.String())
	}

	var session CheckoutSession
	if err := json.Unmarshal(resp.Body(), &session); err != nil {
		return nil, fmt.Errorf("failed to parse checkout session response: %v", err)
	}
	if session.ID == "" || session.URL == "" {
		return nil, fmt.Errorf("checkout session response missing id or url")
	}

	return &session, nil
}

// GetCheckoutSession retrieves a session's payment status by id.
func (cc *CheckoutClient) GetCheckoutSession(sessionID string) (*CheckoutSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	resp, err := cc.client.R().Get("/checkout/sessions/" + sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch checkout session: %v", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("checkout API error (%d): %s", resp.StatusCode(), resp.String())
	}

	var session CheckoutSession
	if err := json.Unmarshal(resp.Body(), &session); err != nil {
		return nil, fmt.Errorf("failed to parse checkout session response: %v", err)
	}

	return &session, nil
}
