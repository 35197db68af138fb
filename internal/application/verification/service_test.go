package verification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/inspection-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

// fakeStore is a real in-memory map; the OTP state machine is easier to
// exercise against actual state than against mock expectations.
type fakeStore struct {
	records map[string]domain.PhoneVerification
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]domain.PhoneVerification)}
}

func (f *fakeStore) Get(phone string) (domain.PhoneVerification, bool) {
	v, ok := f.records[phone]
	return v, ok
}
func (f *fakeStore) Set(phone string, v domain.PhoneVerification) { f.records[phone] = v }
func (f *fakeStore) Delete(phone string)                          { delete(f.records, phone) }

type mockSMSSender struct{ mock.Mock }

func (m *mockSMSSender) SendSMS(ctx context.Context, to, msg string) (string, error) {
	args := m.Called(ctx, to, msg)
	return args.String(0), args.Error(1)
}

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(phone string) (string, error) {
	args := m.Called(phone)
	return args.String(0), args.Error(1)
}

const testPhone = "+15551234567"

func newTestService(store CredentialStore, sms *mockSMSSender, signer *mockSigner) Service {
	return NewService(ServiceDeps{Store: store, SMSSender: sms, Signer: signer})
}

// issueCode drives RequestCode, then pins the stored code to a known value
// so mismatch tests stay deterministic.
func issueCode(t *testing.T, svc Service, store *fakeStore, sms *mockSMSSender) string {
	t.Helper()
	sms.On("SendSMS", mock.Anything, testPhone, mock.Anything).Return("SM123", nil).Once()
	_, err := svc.RequestCode(context.Background(), RequestCodeRequest{PhoneNumber: testPhone})
	require.NoError(t, err)
	rec, ok := store.Get(testPhone)
	require.True(t, ok)
	rec.Code = "123456"
	store.Set(testPhone, rec)
	return rec.Code
}

// --- RequestCode ---

func TestRequestCode_StoresRecordAndSends(t *testing.T) {
	store := newFakeStore()
	sms := &mockSMSSender{}
	sms.On("SendSMS", mock.Anything, testPhone, mock.Anything).Return("SM123", nil)

	svc := newTestService(store, sms, nil)
	result, err := svc.RequestCode(context.Background(), RequestCodeRequest{PhoneNumber: testPhone})

	require.NoError(t, err)
	assert.Equal(t, "SM123", result.MessageID)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), result.ExpiresAt, 5*time.Second)

	rec, ok := store.Get(testPhone)
	require.True(t, ok)
	assert.Len(t, rec.Code, 6)
	assert.Equal(t, 0, rec.Attempts)
	sms.AssertExpectations(t)
}

func TestRequestCode_NeverRevealsCode(t *testing.T) {
	store := newFakeStore()
	sms := &mockSMSSender{}
	sms.On("SendSMS", mock.Anything, testPhone, mock.Anything).Return("SM123", nil)

	svc := newTestService(store, sms, nil)
	result, err := svc.RequestCode(context.Background(), RequestCodeRequest{PhoneNumber: testPhone})

	require.NoError(t, err)
	rec, _ := store.Get(testPhone)
	assert.NotContains(t, result.MessageID, rec.Code)
}

func TestRequestCode_OverwritesPriorRecord(t *testing.T) {
	store := newFakeStore()
	store.Set(testPhone, domain.PhoneVerification{Code: "000000", Attempts: 2})
	sms := &mockSMSSender{}
	sms.On("SendSMS", mock.Anything, testPhone, mock.Anything).Return("SM123", nil)

	svc := newTestService(store, sms, nil)
	_, err := svc.RequestCode(context.Background(), RequestCodeRequest{PhoneNumber: testPhone})

	require.NoError(t, err)
	rec, _ := store.Get(testPhone)
	assert.NotEqual(t, "000000", rec.Code)
	assert.Equal(t, 0, rec.Attempts)
}

func TestRequestCode_DeliveryFailurePropagates(t *testing.T) {
	store := newFakeStore()
	sms := &mockSMSSender{}
	sms.On("SendSMS", mock.Anything, testPhone, mock.Anything).Return("", errors.New("invalid phone number"))

	svc := newTestService(store, sms, nil)
	_, err := svc.RequestCode(context.Background(), RequestCodeRequest{PhoneNumber: testPhone})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDependency))
}

// --- ValidateCode ---

func TestValidateCode_NoRecord_ReturnsNotFound(t *testing.T) {
	svc := newTestService(newFakeStore(), nil, nil)
	_, err := svc.ValidateCode(context.Background(), ValidateCodeRequest{PhoneNumber: testPhone, Code: "123456"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestValidateCode_HappyPath_PurgesRecord(t *testing.T) {
	store := newFakeStore()
	sms := &mockSMSSender{}
	signer := &mockSigner{}
	signer.On("Sign", testPhone).Return("bearer-token", nil)

	svc := newTestService(store, sms, signer)
	code := issueCode(t, svc, store, sms)

	result, err := svc.ValidateCode(context.Background(), ValidateCodeRequest{PhoneNumber: testPhone, Code: code})
	require.NoError(t, err)
	assert.Equal(t, "bearer-token", result.Bearer)

	// Single use: the record is gone, a replay is NotFound.
	_, err = svc.ValidateCode(context.Background(), ValidateCodeRequest{PhoneNumber: testPhone, Code: code})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestValidateCode_Expired_PurgesEvenWithZeroAttempts(t *testing.T) {
	store := newFakeStore()
	store.Set(testPhone, domain.PhoneVerification{
		PhoneNumber: testPhone,
		Code:        "123456",
		ExpiresAt:   time.Now().Add(-time.Minute),
		Attempts:    0,
	})

	svc := newTestService(store, nil, nil)
	_, err := svc.ValidateCode(context.Background(), ValidateCodeRequest{PhoneNumber: testPhone, Code: "123456"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExpired))

	_, ok := store.Get(testPhone)
	assert.False(t, ok)
}

func TestValidateCode_AttemptBudget(t *testing.T) {
	store := newFakeStore()
	sms := &mockSMSSender{}
	svc := newTestService(store, sms, nil)
	issueCode(t, svc, store, sms)

	// First two wrong codes count down the budget.
	var wrong *WrongCodeError
	_, err := svc.ValidateCode(context.Background(), ValidateCodeRequest{PhoneNumber: testPhone, Code: "000000"})
	require.ErrorAs(t, err, &wrong)
	assert.Equal(t, 2, wrong.Remaining)

	_, err = svc.ValidateCode(context.Background(), ValidateCodeRequest{PhoneNumber: testPhone, Code: "000000"})
	require.ErrorAs(t, err, &wrong)
	assert.Equal(t, 1, wrong.Remaining)

	// Third wrong code exhausts and purges the record.
	_, err = svc.ValidateCode(context.Background(), ValidateCodeRequest{PhoneNumber: testPhone, Code: "000000"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExhausted))

	// Fourth call before reissue finds nothing.
	_, err = svc.ValidateCode(context.Background(), ValidateCodeRequest{PhoneNumber: testPhone, Code: "000000"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestValidateCode_ReissueResetsBudget(t *testing.T) {
	store := newFakeStore()
	sms := &mockSMSSender{}
	signer := &mockSigner{}
	signer.On("Sign", testPhone).Return("bearer-token", nil)
	svc := newTestService(store, sms, signer)

	issueCode(t, svc, store, sms)
	_, err := svc.ValidateCode(context.Background(), ValidateCodeRequest{PhoneNumber: testPhone, Code: "000000"})
	var wrong *WrongCodeError
	require.ErrorAs(t, err, &wrong)

	// A fresh issuance replaces the partially burned record.
	code := issueCode(t, svc, store, sms)
	result, err := svc.ValidateCode(context.Background(), ValidateCodeRequest{PhoneNumber: testPhone, Code: code})
	require.NoError(t, err)
	assert.Equal(t, testPhone, result.PhoneNumber)
}

func TestValidateCode_SignerFailure_IsDependencyError(t *testing.T) {
	store := newFakeStore()
	sms := &mockSMSSender{}
	signer := &mockSigner{}
	signer.On("Sign", testPhone).Return("", errors.New("no key"))
	svc := newTestService(store, sms, signer)

	code := issueCode(t, svc, store, sms)
	_, err := svc.ValidateCode(context.Background(), ValidateCodeRequest{PhoneNumber: testPhone, Code: code})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDependency))
}
