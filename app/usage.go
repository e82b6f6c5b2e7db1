// Package app enforces daily generation limits per extension install.
package app

import (
	"fmt"
	"sync"
	"time"
)

const (
	FreeDailyLimit = 5
	// ProDailyLimit is reported to the extension for display. PRO requests
	// are never rejected regardless of this number.
	ProDailyLimit = 999
)

// DayKey identifies one client's usage bucket for one UTC calendar day.
// Two requests share a bucket iff same clientId and same day; the boundary
// is UTC midnight.
func DayKey(clientID string, now time.Time) string {
	if clientID == "" {
		clientID = "anon"
	}
	return fmt.Sprintf("%s:%s", clientID, now.UTC().Format("2006-01-02"))
}

// UsageStore counts admitted generations per DayKey. It is in-process and
// restart-volatile on purpose: the product accepts losing counts on deploy.
// Stale day buckets are never evicted; the whole map dies with the process.
type UsageStore struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewUsageStore() *UsageStore {
	return &UsageStore{counts: make(map[string]int)}
}

// Get returns the current count for a key, 0 when absent.
func (s *UsageStore) Get(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[key]
}

// IncrementAndGet adds one to the key's count and returns the new value.
func (s *UsageStore) IncrementAndGet(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key]
}

// Consume performs the read-check-increment as one atomic step so two
// concurrent requests for the same key cannot both squeeze past the last
// free slot. When unlimited is true the limit check is skipped but the
// count still advances, so PRO usage is reported accurately.
// The returned count is post-increment on admit, unchanged on reject.
func (s *UsageStore) Consume(key string, limit int, unlimited bool) (used int, admitted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !unlimited && s.counts[key] >= limit {
		return s.counts[key], false
	}
	s.counts[key]++
	return s.counts[key], true
}
