// Package app sells PRO licenses through Stripe Checkout. A completed
// checkout mints a license key; cancelling the subscription revokes it.
package app

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/kimyoel/auto-cs-backend/app/config"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"
)

type checkoutRequest struct {
	ClientID string `json:"clientId"`
}

// CreateCheckoutSession starts a Stripe Checkout Session for the PRO plan.
// The extension's clientId rides along as metadata so the webhook can tie
// the issued license back to the install that bought it.
func CreateCheckoutSession(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("stripe checkout config load failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "billing not configured"})
		return
	}

	priceID := cfg.Stripe.PriceIDPro
	frontendURL := strings.TrimRight(cfg.Stripe.FrontendURL, "/")
	if priceID == "" || frontendURL == "" {
		log.Printf("missing Stripe config: price_id=%t frontend_url=%t", priceID != "", frontendURL != "")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "billing not configured"})
		return
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"client_id": req.ClientID,
		},
		SuccessURL: stripe.String(frontendURL + "/billing/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(frontendURL + "/billing/cancel"),
	}

	sess, err := session.New(params)
	if err != nil {
		log.Printf("stripe checkout session failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": sess.URL})
}

// StripeWebhook issues and revokes PRO licenses from Stripe events.
func StripeWebhook(licenses *LicenseStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const maxBodyBytes = int64(65536)
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
		if err != nil {
			log.Printf("stripe webhook read failed: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		sigHeader := c.GetHeader("Stripe-Signature")
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Printf("stripe webhook config load failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "webhook not configured"})
			return
		}

		endpointSecret := cfg.Stripe.WebhookSecret
		if endpointSecret == "" {
			log.Printf("stripe webhook secret missing")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "webhook not configured"})
			return
		}

		event, err := webhook.ConstructEventWithOptions(
			body,
			sigHeader,
			endpointSecret,
			webhook.ConstructEventOptions{
				IgnoreAPIVersionMismatch: true,
			},
		)
		if err != nil {
			log.Printf("stripe webhook signature failed: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "signature verification failed"})
			return
		}

		switch event.Type {
		case "checkout.session.completed":
			var sess stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
				log.Printf("stripe session unmarshal failed: %v", err)
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session payload"})
				return
			}
			customerID := ""
			if sess.Customer != nil {
				customerID = sess.Customer.ID
			}

			lic, err := licenses.Issue(c.Request.Context(), sess.Metadata["client_id"], customerID, sess.ID)
			if err != nil {
				log.Printf("license issue failed session=%s err=%v", sess.ID, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue license"})
				return
			}
			log.Printf("issued PRO license for session=%s client=%s", sess.ID, lic.ClientID)
		case "customer.subscription.deleted":
			var sub stripe.Subscription
			if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
				log.Printf("stripe subscription unmarshal failed: %v", err)
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscription payload"})
				return
			}
			customerID := ""
			if sub.Customer != nil {
				customerID = sub.Customer.ID
			}
			if customerID == "" {
				log.Printf("stripe subscription missing customer id")
				c.JSON(http.StatusBadRequest, gin.H{"error": "missing customer id"})
				return
			}

			if err := licenses.RevokeByCustomer(c.Request.Context(), customerID); err != nil {
				log.Printf("license revoke failed customer=%s err=%v", customerID, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke license"})
				return
			}
		default:
			// Intentionally ignore unhandled events.
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// GetIssuedLicense lets the success page fetch the key minted for its
// checkout session. The webhook may lag the redirect, hence the 404 retry
// contract.
func GetIssuedLicense(licenses *LicenseStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Query("session_id")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing session_id"})
			return
		}

		lic, ok := licenses.BySession(c.Request.Context(), sessionID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "license not issued yet"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"licenseKey": lic.Key,
			"issuedAt":   lic.IssuedAt,
		})
	}
}
