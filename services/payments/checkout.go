package payments

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

// SessionCreator creates hosted checkout sessions.
type SessionCreator interface {
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type stripeSessions struct {
	client session.Client
}

// NewStripeSessions returns a SessionCreator backed by the Stripe API.
func NewStripeSessions(secretKey string) SessionCreator {
	return &stripeSessions{client: session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey}}
}

func (s *stripeSessions) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	params.Context = ctx
	return s.client.New(params)
}

// ProviderError is a failure reported by the payment provider.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string { return e.Message }

func (e *ProviderError) Code() string { return "payment_provider_error" }

func (e *ProviderError) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

type CheckoutInput struct {
	PlanID string
	Mode   string
	UserID string
	Email  string
}

type Checkout struct {
	catalog  *Catalog
	sessions SessionCreator
	siteURL  string
}

// NewCheckout builds the checkout flow. sessions may be nil when no Stripe
// key is configured; CreateURL then fails with 503.
func NewCheckout(catalog *Catalog, sessions SessionCreator, siteURL string) *Checkout {
	return &Checkout{
		catalog:  catalog,
		sessions: sessions,
		siteURL:  strings.TrimRight(siteURL, "/"),
	}
}

// CreateURL resolves the plan and asks Stripe for a hosted checkout page.
func (c *Checkout) CreateURL(ctx context.Context, in CheckoutInput) (string, error) {
	plan, err := c.catalog.Resolve(strings.TrimSpace(in.PlanID), in.Mode)
	if err != nil {
		return "", err
	}
	if c.sessions == nil {
		return "", &ProviderError{Status: http.StatusServiceUnavailable, Message: "Payments are not configured"}
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(plan.Mode)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(plan.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(c.siteURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(c.siteURL + "/pricing"),
	}
	if in.UserID != "" {
		params.ClientReferenceID = stripe.String(in.UserID)
	}
	if in.Email != "" {
		params.CustomerEmail = stripe.String(in.Email)
	}
	params.AddMetadata("plan_id", plan.ID)

	s, err := c.sessions.CreateCheckoutSession(ctx, params)
	if err != nil {
		return "", providerError(err)
	}
	if s == nil || s.URL == "" {
		return "", &ProviderError{Status: http.StatusBadGateway, Message: "Payment provider returned no checkout URL"}
	}
	return s.URL, nil
}

func providerError(err error) *ProviderError {
	var se *stripe.Error
	if errors.As(err, &se) {
		msg := se.Msg
		if msg == "" {
			msg = se.Error()
		}
		return &ProviderError{Status: se.HTTPStatusCode, Message: msg}
	}
	return &ProviderError{Message: err.Error()}
}
