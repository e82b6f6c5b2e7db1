// Package app decides whether a request may generate a reply.
package app

import (
	"context"
	"time"
)

// Decision is the outcome of one admission check. Used reflects the count
// after any increment performed for this request.
type Decision struct {
	Admitted bool
	Used     int
	Limit    int
	IsPro    bool
}

// EntitlementGate combines license lookup and daily usage accounting.
type EntitlementGate struct {
	Licenses *LicenseStore
	Usage    *UsageStore
}

// Admit checks the credential, then consumes one unit of the day's quota.
// The consume happens before the provider is ever called, so a failed
// generation still costs a unit. That is intentional: refunding on failure
// would let a client farm retries against a flaky upstream for free.
func (g *EntitlementGate) Admit(ctx context.Context, licenseKey, clientID string, now time.Time) Decision {
	isPro := g.Licenses.IsPro(ctx, licenseKey)
	limit := FreeDailyLimit
	if isPro {
		limit = ProDailyLimit
	}

	key := DayKey(clientID, now)
	used, admitted := g.Usage.Consume(key, limit, isPro)
	return Decision{
		Admitted: admitted,
		Used:     used,
		Limit:    limit,
		IsPro:    isPro,
	}
}
