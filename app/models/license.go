package models

import "time"

type License struct {
	Key              string    `db:"license_key"`
	ClientID         string    `db:"client_id"`
	StripeCustomerID string    `db:"stripe_customer_id"`
	CheckoutSession  string    `db:"checkout_session_id"`
	IssuedAt         time.Time `db:"issued_at"`
	Revoked          bool      `db:"revoked"`
}
