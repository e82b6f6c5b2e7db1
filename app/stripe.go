package app

import (
	"log"

	"github.com/kimyoel/auto-cs-backend/app/config"

	"github.com/stripe/stripe-go/v79"
)

// InitStripe wires the Stripe API key from the environment.
func InitStripe() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config for stripe: %v", err)
	}
	if cfg.Stripe.SecretKey == "" {
		log.Println("STRIPE_SECRET_KEY not set; billing endpoints will be unavailable")
		return
	}
	stripe.Key = cfg.Stripe.SecretKey
}
