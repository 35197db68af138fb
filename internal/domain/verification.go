package domain

import "time"

// MaxVerificationAttempts caps how many wrong codes may be tried against one record.
const MaxVerificationAttempts = 3

// PhoneVerification is an ephemeral OTP record keyed by phone number.
// It lives only in the credential store and is purged on every terminal
// outcome (verified, expired, exhausted). The code never leaves the process
// except through the SMS gateway.
type PhoneVerification struct {
	PhoneNumber string
	Code        string
	ExpiresAt   time.Time
	Attempts    int
}
