package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"PartyHub/utils/apperror"
	"PartyHub/utils/logger"
)

// ProActivator grants pro access after a purchase. Renewals only carry the
// Stripe customer, so the user is looked up by the id stored at checkout.
type ProActivator interface {
	ActivatePro(ctx context.Context, userID uuid.UUID, expiresAt *time.Time, stripeCustomerID string) error
	UserByStripeCustomer(ctx context.Context, stripeCustomerID string) (uuid.UUID, error)
}

type Webhooks struct {
	secret   string
	profiles ProActivator
	now      func() time.Time
}

func NewWebhooks(secret string, profiles ProActivator) *Webhooks {
	return &Webhooks{secret: secret, profiles: profiles, now: time.Now}
}

// ParseEvent verifies the Stripe-Signature header and decodes the event.
func ParseEvent(payload []byte, signature, secret string) (stripe.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return stripe.Event{}, apperror.Wrap(http.StatusBadRequest, "bad_signature", "Invalid webhook signature", err)
	}
	return event, nil
}

// Handle processes one webhook delivery. It reports whether the event changed
// anything; events it doesn't care about are acknowledged and ignored.
func (w *Webhooks) Handle(ctx context.Context, payload []byte, signature string) (bool, error) {
	event, err := ParseEvent(payload, signature, w.secret)
	if err != nil {
		return false, err
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted, stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return false, apperror.Wrap(http.StatusBadRequest, "bad_event", "Malformed checkout session", err)
		}
		return w.checkoutCompleted(ctx, &cs)

	case stripe.EventTypeInvoicePaid:
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return false, apperror.Wrap(http.StatusBadRequest, "bad_event", "Malformed invoice", err)
		}
		return w.invoicePaid(ctx, &inv)
	}

	logger.Debugf("[STRIPE] ignoring event %s (%s)", event.ID, event.Type)
	return false, nil
}

func (w *Webhooks) checkoutCompleted(ctx context.Context, cs *stripe.CheckoutSession) (bool, error) {
	if cs.PaymentStatus == stripe.CheckoutSessionPaymentStatusUnpaid {
		logger.Infof("[STRIPE] checkout %s completed unpaid, waiting for async payment", cs.ID)
		return false, nil
	}

	planID := cs.Metadata["plan_id"]
	period, grants := ProDuration(planID)
	if !grants {
		return false, nil
	}

	userID, err := uuid.Parse(cs.ClientReferenceID)
	if err != nil {
		logger.Warnf("[STRIPE] checkout %s for %s has no user reference", cs.ID, planID)
		return false, nil
	}

	customerID := ""
	if cs.Customer != nil {
		customerID = cs.Customer.ID
	}

	if err := w.profiles.ActivatePro(ctx, userID, period.ExpiresAt(w.now()), customerID); err != nil {
		return false, fmt.Errorf("activate pro for %s: %w", userID, err)
	}
	logger.Infof("[STRIPE] activated %s for user %s", planID, userID)
	return true, nil
}

// invoicePaid extends pro to the end of the period a subscription invoice
// paid for. A cancelled subscription stops sending these, so access lapses at
// the end of the last paid period.
func (w *Webhooks) invoicePaid(ctx context.Context, inv *stripe.Invoice) (bool, error) {
	if !strings.HasPrefix(string(inv.BillingReason), "subscription") {
		return false, nil
	}
	if inv.Customer == nil || inv.Customer.ID == "" {
		logger.Warnf("[STRIPE] invoice %s has no customer", inv.ID)
		return false, nil
	}

	periodEnd := invoicePeriodEnd(inv)
	if periodEnd == 0 {
		logger.Warnf("[STRIPE] invoice %s has no billing period", inv.ID)
		return false, nil
	}

	userID, err := w.profiles.UserByStripeCustomer(ctx, inv.Customer.ID)
	if err != nil {
		if isNotFound(err) {
			// the first invoice can arrive before checkout.session.completed stored the customer
			logger.Infof("[STRIPE] invoice %s for unknown customer %s", inv.ID, inv.Customer.ID)
			return false, nil
		}
		return false, fmt.Errorf("find customer %s: %w", inv.Customer.ID, err)
	}

	expiresAt := time.Unix(periodEnd, 0).UTC()
	if err := w.profiles.ActivatePro(ctx, userID, &expiresAt, inv.Customer.ID); err != nil {
		return false, fmt.Errorf("renew pro for %s: %w", userID, err)
	}
	logger.Infof("[STRIPE] renewed pro for user %s until %s", userID, expiresAt.Format(time.RFC3339))
	return true, nil
}

// invoicePeriodEnd is the latest service period end among the invoice lines.
// The invoice's own period_end refers to the period before it was issued.
func invoicePeriodEnd(inv *stripe.Invoice) int64 {
	var end int64
	if inv.Lines != nil {
		for _, line := range inv.Lines.Data {
			if line != nil && line.Period != nil && line.Period.End > end {
				end = line.Period.End
			}
		}
	}
	return end
}

func isNotFound(err error) bool {
	var coded interface{ HTTPStatus() int }
	return errors.As(err, &coded) && coded.HTTPStatus() == http.StatusNotFound
}
