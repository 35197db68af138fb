package token

import "github.com/google/uuid"

// NewInspectionToken generates the opaque capability token embedded in an
// inspection link. UUIDv4 carries 122 bits from crypto/rand, enough to make
// guessing infeasible over the link's 14-day lifetime.
func NewInspectionToken() string {
	return uuid.NewString()
}

// IsWellFormed reports whether s parses as a UUID. Used to reject garbage
// before it reaches the database; a false result is a client error, not an
// authorization decision.
func IsWellFormed(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
