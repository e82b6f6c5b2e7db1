package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/kimyoel/auto-cs-backend/app/config"
	"github.com/kimyoel/auto-cs-backend/app/models"

	_ "github.com/lib/pq"
)

var db *sql.DB

// InitDB connects to Postgres when configured. Without POSTGRES_URL the
// server runs with the in-memory license store only, which is fine for
// local development and tests.
func InitDB() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if cfg.DB.URL == "" {
		log.Println("POSTGRES_URL not set; issued licenses will not survive restarts")
		return
	}

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s",
		cfg.DB.Username,
		cfg.DB.Password,
		cfg.DB.URL,
		cfg.DB.Port,
	)

	d, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("sql.Open: %v", err)
	}

	if err := d.Ping(); err != nil {
		log.Fatalf("db.Ping: %v", err)
	}

	log.Println("Connected to Postgres")
	db = d
}

func insertLicense(ctx context.Context, lic models.License) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO licenses (license_key, client_id, stripe_customer_id, checkout_session_id, issued_at, revoked)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (checkout_session_id) DO NOTHING;
	`, lic.Key, lic.ClientID, lic.StripeCustomerID, lic.CheckoutSession, lic.IssuedAt, lic.Revoked)
	return err
}

func getLicenseByKey(ctx context.Context, key string) (models.License, error) {
	var lic models.License
	err := db.QueryRowContext(ctx, `
		SELECT license_key, client_id, stripe_customer_id, checkout_session_id, issued_at, revoked
		FROM licenses
		WHERE license_key = $1;
	`, key).Scan(&lic.Key, &lic.ClientID, &lic.StripeCustomerID, &lic.CheckoutSession, &lic.IssuedAt, &lic.Revoked)
	if err != nil {
		return models.License{}, err
	}
	return lic, nil
}

func getLicenseBySession(ctx context.Context, sessionID string) (models.License, error) {
	var lic models.License
	err := db.QueryRowContext(ctx, `
		SELECT license_key, client_id, stripe_customer_id, checkout_session_id, issued_at, revoked
		FROM licenses
		WHERE checkout_session_id = $1;
	`, sessionID).Scan(&lic.Key, &lic.ClientID, &lic.StripeCustomerID, &lic.CheckoutSession, &lic.IssuedAt, &lic.Revoked)
	if err != nil {
		return models.License{}, err
	}
	return lic, nil
}

func revokeLicenseByCustomer(ctx context.Context, customerID string) error {
	_, err := db.ExecContext(ctx, `
		UPDATE licenses
		SET revoked = TRUE
		WHERE stripe_customer_id = $1;
	`, customerID)
	return err
}
