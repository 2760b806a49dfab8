// Package payments turns plan ids into Stripe Checkout sessions and applies
// the result of completed checkouts.
package payments

import (
	"strings"
	"time"

	"PartyHub/utils/apperror"
)

type Mode string

const (
	ModeSubscription Mode = "subscription"
	ModePayment      Mode = "payment"
)

var (
	ErrUnknownPlan  = apperror.BadRequest("unknown_plan", "Unknown plan")
	ErrInvalidMode  = apperror.BadRequest("invalid_mode", "Checkout mode must be subscription or payment")
	ErrModeMismatch = apperror.BadRequest("mode_mismatch", "Checkout mode does not match the plan")
)

// Plan is a purchasable item resolved against the configured price table.
type Plan struct {
	ID      string
	PriceID string
	Mode    Mode
}

// Plan id prefixes and the checkout flow they use. Order matters: the first
// matching prefix wins.
var planModes = []struct {
	prefix string
	mode   Mode
}{
	{"pro_monthly", ModeSubscription},
	{"pro_yearly", ModeSubscription},
	{"pro_lifetime", ModePayment},
	{"pack_", ModePayment},
	{"gift_", ModePayment},
}

// ModeForPlan returns the checkout mode a plan id implies.
func ModeForPlan(planID string) (Mode, bool) {
	for _, pm := range planModes {
		if strings.HasPrefix(planID, pm.prefix) {
			return pm.mode, true
		}
	}
	return "", false
}

// ParseMode accepts "" (infer from the plan), "subscription" and "payment".
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", ModeSubscription, ModePayment:
		return m, nil
	}
	return "", ErrInvalidMode
}

// Catalog maps plan ids to Stripe price ids.
type Catalog struct {
	prices map[string]string
}

func NewCatalog(prices map[string]string) *Catalog {
	c := &Catalog{prices: make(map[string]string, len(prices))}
	for plan, price := range prices {
		plan, price = strings.TrimSpace(plan), strings.TrimSpace(price)
		if plan != "" && price != "" {
			c.prices[plan] = price
		}
	}
	return c
}

// Resolve finds the price for planID and checks the requested mode against
// the one the plan implies. An empty mode always matches.
func (c *Catalog) Resolve(planID, mode string) (Plan, error) {
	want, err := ParseMode(mode)
	if err != nil {
		return Plan{}, err
	}

	planMode, ok := ModeForPlan(planID)
	if !ok {
		return Plan{}, ErrUnknownPlan
	}
	price, ok := c.prices[planID]
	if !ok {
		return Plan{}, ErrUnknownPlan
	}
	if want != "" && want != planMode {
		return Plan{}, ErrModeMismatch
	}

	return Plan{ID: planID, PriceID: price, Mode: planMode}, nil
}

// ProDuration reports how a completed purchase of planID changes pro access.
// grants is false for plans that don't touch pro; a zero duration with
// grants true means pro never expires. Gifts credit the buyer, the
// checkout's client reference; there is no separate recipient.
func ProDuration(planID string) (d ProPeriod, grants bool) {
	switch {
	case strings.HasPrefix(planID, "pro_monthly"), strings.HasPrefix(planID, "gift_"):
		return ProPeriod{Months: 1}, true
	case strings.HasPrefix(planID, "pro_yearly"):
		return ProPeriod{Years: 1}, true
	case strings.HasPrefix(planID, "pro_lifetime"):
		return ProPeriod{}, true
	}
	return ProPeriod{}, false
}

// ProPeriod is a calendar period; months and years don't have a fixed length.
type ProPeriod struct {
	Years  int
	Months int
}

func (p ProPeriod) Lifetime() bool {
	return p.Years == 0 && p.Months == 0
}

// ExpiresAt returns when access bought at from ends, or nil for lifetime.
func (p ProPeriod) ExpiresAt(from time.Time) *time.Time {
	if p.Lifetime() {
		return nil
	}
	t := from.AddDate(p.Years, p.Months, 0)
	return &t
}
