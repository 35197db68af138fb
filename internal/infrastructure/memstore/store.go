// Package memstore holds OTP verification records in process memory.
//
// The backing cache evicts stale entries for storage hygiene only; every
// read path in the verification service still checks the record's own
// ExpiresAt, so expiry stays correct even if eviction lags. The store does
// not survive restarts or span instances — the 10-minute code TTL bounds
// what that can cost.
package memstore

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/inspection-api/internal/domain"
)

// Store is a TTL-aware credential store keyed by phone number.
type Store struct {
	cache *expirable.LRU[string, domain.PhoneVerification]
}

// New creates a Store. sweepAfter should be at least the verification TTL so
// the cache never evicts a record the service still considers live.
func New(maxEntries int, sweepAfter time.Duration) *Store {
	return &Store{
		cache: expirable.NewLRU[string, domain.PhoneVerification](maxEntries, nil, sweepAfter),
	}
}

// Set writes the record for a phone number, replacing any existing one.
// The latest issuance always wins.
func (s *Store) Set(phoneNumber string, v domain.PhoneVerification) {
	s.cache.Add(phoneNumber, v)
}

// Get returns the live record for a phone number, if any.
func (s *Store) Get(phoneNumber string) (domain.PhoneVerification, bool) {
	return s.cache.Get(phoneNumber)
}

// Delete purges the record for a phone number.
func (s *Store) Delete(phoneNumber string) {
	s.cache.Remove(phoneNumber)
}
