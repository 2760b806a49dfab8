package controllers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"PartyHub/middleware"
	"PartyHub/services/payments"
	"PartyHub/utils"
	"PartyHub/utils/apperror"
)

// Stripe recommends accepting webhook bodies up to 64KB.
const maxWebhookBody = 65536

type CheckoutCreator interface {
	CreateURL(ctx context.Context, in payments.CheckoutInput) (string, error)
}

type WebhookHandler interface {
	Handle(ctx context.Context, payload []byte, signature string) (bool, error)
}

type checkoutRequest struct {
	PlanID string `json:"planId"`
	Mode   string `json:"mode"`
}

// @Summary Start a checkout
// @Description Resolves the plan to a Stripe price and returns the hosted checkout URL. The mode is inferred from the plan when omitted.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body checkoutRequest true "Plan and optional mode (subscription or payment)"
// @Success 200 {object} object{url=string}
// @Failure 400 {object} object{message=string}
// @Failure 500 {object} object{message=string}
// @Router /api/checkout [post]
func CreateCheckout(checkout CheckoutCreator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, apperror.BadRequest("bad_request", "Invalid request body"))
			return
		}
		if strings.TrimSpace(req.PlanID) == "" {
			utils.Fail(c, apperror.BadRequest("missing_plan", "planId is required"))
			return
		}

		in := payments.CheckoutInput{PlanID: req.PlanID, Mode: req.Mode}
		if user, ok := middleware.GetCurrentUser(c); ok {
			in.UserID = user.ID.String()
			in.Email = user.Email
		}

		url, err := checkout.CreateURL(c.Request.Context(), in)
		if err != nil {
			utils.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": url})
	}
}

// @Summary Stripe webhook
// @Description Receives Stripe events. Completed checkouts for pro plans activate pro on the buyer's profile.
// @Tags payments
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Stripe signature"
// @Success 200 {object} object{received=boolean}
// @Failure 400 {object} object{message=string}
// @Router /api/stripe/webhook [post]
func StripeWebhook(webhooks WebhookHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if webhooks == nil {
			utils.Fail(c, apperror.New(http.StatusServiceUnavailable, "payments_disabled", "Payments are not configured"))
			return
		}

		payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			utils.Fail(c, apperror.Wrap(http.StatusServiceUnavailable, "read_body", "Error reading request body", err))
			return
		}

		if _, err := webhooks.Handle(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
			utils.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}
