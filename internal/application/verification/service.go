package verification

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/inspection-api/internal/domain"
)

// codeTTL is how long an issued code stays valid.
const codeTTL = 10 * time.Minute

type RequestCodeRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
}

type ValidateCodeRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
}

// RequestCodeResult is what issuance reveals to the caller: when the code
// expires and the gateway's delivery acknowledgment. Never the code itself.
type RequestCodeResult struct {
	ExpiresAt time.Time `json:"expires_at"`
	MessageID string    `json:"message_id"`
}

type ValidateCodeResult struct {
	PhoneNumber string `json:"phone_number"`
	Bearer      string `json:"-"`
}

// WrongCodeError is the mismatch outcome. It carries how many attempts are
// left before the record is exhausted.
type WrongCodeError struct {
	Remaining int
}

func (e *WrongCodeError) Error() string {
	return fmt.Sprintf("incorrect code, attempts remaining: %d", e.Remaining)
}

func (e *WrongCodeError) Unwrap() error { return domain.ErrBadRequest }

// CredentialStore is the ephemeral table holding one live verification
// record per phone number. Expiry is enforced by the service at read time;
// the store only needs get/set/delete semantics, so it can later be backed
// by a distributed cache without touching this package's callers.
type CredentialStore interface {
	Get(phoneNumber string) (domain.PhoneVerification, bool)
	Set(phoneNumber string, v domain.PhoneVerification)
	Delete(phoneNumber string)
}

// SMSSender delivers the code out of band.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) (string, error)
}

// BearerSigner mints the session token handed out on successful verification.
type BearerSigner interface {
	Sign(phoneNumber string) (string, error)
}

type Service interface {
	RequestCode(ctx context.Context, req RequestCodeRequest) (*RequestCodeResult, error)
	ValidateCode(ctx context.Context, req ValidateCodeRequest) (*ValidateCodeResult, error)
}

type ServiceDeps struct {
	Store     CredentialStore
	SMSSender SMSSender
	Signer    BearerSigner
}

type service struct {
	store     CredentialStore
	smsSender SMSSender
	signer    BearerSigner
}

func NewService(deps ServiceDeps) Service {
	return &service{
		store:     deps.Store,
		smsSender: deps.SMSSender,
		signer:    deps.Signer,
	}
}

// RequestCode issues a fresh 6-digit code for the phone number, overwriting
// any record a previous issuance left behind, and sends it by SMS. A
// delivery failure is propagated, not retried.
func (s *service) RequestCode(ctx context.Context, req RequestCodeRequest) (*RequestCodeResult, error) {
	code, err := generateCode()
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().UTC().Add(codeTTL)
	s.store.Set(req.PhoneNumber, domain.PhoneVerification{
		PhoneNumber: req.PhoneNumber,
		Code:        code,
		ExpiresAt:   expiresAt,
		Attempts:    0,
	})

	msgID, err := s.smsSender.SendSMS(ctx, req.PhoneNumber,
		fmt.Sprintf("Your verification code is: %s. Valid for 10 minutes.", code))
	if err != nil {
		slog.Error("verification SMS delivery failed", "phone_number", req.PhoneNumber, "err", err)
		return nil, fmt.Errorf("send verification code: %w", domain.ErrDependency)
	}

	return &RequestCodeResult{ExpiresAt: expiresAt, MessageID: msgID}, nil
}

// ValidateCode checks a candidate code against the stored record. Every
// terminal outcome (match, expiry, exhaustion) purges the record; the only
// recovery from exhaustion is a fresh RequestCode.
func (s *service) ValidateCode(ctx context.Context, req ValidateCodeRequest) (*ValidateCodeResult, error) {
	stored, ok := s.store.Get(req.PhoneNumber)
	if !ok {
		return nil, fmt.Errorf("verification code not found: %w", domain.ErrNotFound)
	}

	if time.Now().After(stored.ExpiresAt) {
		s.store.Delete(req.PhoneNumber)
		return nil, fmt.Errorf("verification code has expired: %w", domain.ErrExpired)
	}

	if stored.Attempts >= domain.MaxVerificationAttempts {
		s.store.Delete(req.PhoneNumber)
		return nil, fmt.Errorf("request a new code: %w", domain.ErrExhausted)
	}

	if stored.Code != req.Code {
		stored.Attempts++
		remaining := domain.MaxVerificationAttempts - stored.Attempts
		if remaining <= 0 {
			s.store.Delete(req.PhoneNumber)
			return nil, fmt.Errorf("request a new code: %w", domain.ErrExhausted)
		}
		s.store.Set(req.PhoneNumber, stored)
		return nil, &WrongCodeError{Remaining: remaining}
	}

	s.store.Delete(req.PhoneNumber)

	bearer, err := s.signer.Sign(req.PhoneNumber)
	if err != nil {
		slog.Error("bearer signing failed", "phone_number", req.PhoneNumber, "err", err)
		return nil, fmt.Errorf("sign bearer: %w", domain.ErrDependency)
	}

	return &ValidateCodeResult{PhoneNumber: req.PhoneNumber, Bearer: bearer}, nil
}

// generateCode draws a uniform 6-digit code from crypto/rand.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
