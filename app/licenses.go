// Package app tracks PRO license keys: the fixed master key plus keys
// issued through Stripe checkout.
package app

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/kimyoel/auto-cs-backend/app/models"

	"github.com/google/uuid"
)

// LicenseStore answers "does this credential grant PRO". The master key is
// checked first; issued keys are kept in memory and, when Postgres is
// configured, mirrored there so they survive restarts.
type LicenseStore struct {
	proKey string

	mu         sync.RWMutex
	byKey      map[string]models.License
	bySession  map[string]string // checkout session id -> license key
	byCustomer map[string]string // stripe customer id -> license key
}

func NewLicenseStore(proKey string) *LicenseStore {
	return &LicenseStore{
		proKey:     proKey,
		byKey:      make(map[string]models.License),
		bySession:  make(map[string]string),
		byCustomer: make(map[string]string),
	}
}

// IsPro reports whether the credential grants PRO status. Empty input is
// always free tier.
func (s *LicenseStore) IsPro(ctx context.Context, key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	if key == s.proKey {
		return true
	}

	s.mu.RLock()
	lic, ok := s.byKey[key]
	s.mu.RUnlock()
	if ok {
		return !lic.Revoked
	}

	// Memory miss: another instance may have issued the key.
	if db != nil {
		lic, err := getLicenseByKey(ctx, key)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				log.Printf("license lookup failed key=%s err=%v", key, err)
			}
			return false
		}
		s.cache(lic)
		return !lic.Revoked
	}

	return false
}

// Issue mints a new license key for a completed checkout. Calling it twice
// for the same session returns the already-issued license.
func (s *LicenseStore) Issue(ctx context.Context, clientID, customerID, sessionID string) (models.License, error) {
	s.mu.Lock()
	if key, ok := s.bySession[sessionID]; ok {
		lic := s.byKey[key]
		s.mu.Unlock()
		return lic, nil
	}
	lic := models.License{
		Key:              "GS-" + strings.ToUpper(uuid.NewString()),
		ClientID:         clientID,
		StripeCustomerID: customerID,
		CheckoutSession:  sessionID,
		IssuedAt:         time.Now().UTC(),
	}
	s.byKey[lic.Key] = lic
	s.bySession[sessionID] = lic.Key
	if customerID != "" {
		s.byCustomer[customerID] = lic.Key
	}
	s.mu.Unlock()

	if db != nil {
		if err := insertLicense(ctx, lic); err != nil {
			return models.License{}, err
		}
	}
	return lic, nil
}

// RevokeByCustomer marks the customer's license revoked (subscription ended).
func (s *LicenseStore) RevokeByCustomer(ctx context.Context, customerID string) error {
	s.mu.Lock()
	if key, ok := s.byCustomer[customerID]; ok {
		lic := s.byKey[key]
		lic.Revoked = true
		s.byKey[key] = lic
	}
	s.mu.Unlock()

	if db != nil {
		return revokeLicenseByCustomer(ctx, customerID)
	}
	return nil
}

// BySession returns the license issued for a checkout session, if any.
func (s *LicenseStore) BySession(ctx context.Context, sessionID string) (models.License, bool) {
	s.mu.RLock()
	key, ok := s.bySession[sessionID]
	var lic models.License
	if ok {
		lic = s.byKey[key]
	}
	s.mu.RUnlock()
	if ok {
		return lic, true
	}

	if db != nil {
		lic, err := getLicenseBySession(ctx, sessionID)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				log.Printf("license session lookup failed session=%s err=%v", sessionID, err)
			}
			return models.License{}, false
		}
		s.cache(lic)
		return lic, true
	}

	return models.License{}, false
}

func (s *LicenseStore) cache(lic models.License) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byKey[lic.Key] = lic
	if lic.CheckoutSession != "" {
		s.bySession[lic.CheckoutSession] = lic.Key
	}
	if lic.StripeCustomerID != "" {
		s.byCustomer[lic.StripeCustomerID] = lic.Key
	}
}
