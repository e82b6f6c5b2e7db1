// Package app wires shared HTTP routes for both local and Lambda execution.
package app

import (
	"context"
	"time"

	"github.com/kimyoel/auto-cs-backend/app/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the shared HTTP router for both local and Lambda
// execution. The CORS policy is deliberately allow-all: the caller is a
// browser extension whose origin varies per install.
func NewRouter() (*gin.Engine, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	licenses := NewLicenseStore(cfg.License.ProKey)
	deps := ReplyDeps{
		Gate: &EntitlementGate{
			Licenses: licenses,
			Usage:    NewUsageStore(),
		},
		Generator: NewOpenAIClient(cfg.OpenAI),
		Events:    NewEventPublisher(context.Background(), cfg.QueueURL),
	}

	return newRouterWith(deps, licenses), nil
}

// newRouterWith lets tests assemble the router around fakes.
func newRouterWith(deps ReplyDeps, licenses *LicenseStore) *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	router.GET("/health", Health)
	router.POST("/api/reply", GenerateReply(deps))
	router.POST("/api/billing/create-checkout-session", CreateCheckoutSession)
	router.POST("/api/stripe/webhook", StripeWebhook(licenses))
	router.GET("/api/billing/license", GetIssuedLicense(licenses))

	return router
}
