package memstore

import (
	"testing"
	"time"

	"github.com/inspection-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetGetDelete(t *testing.T) {
	s := New(1024, time.Minute)

	_, ok := s.Get("+15551234567")
	assert.False(t, ok)

	v := domain.PhoneVerification{
		PhoneNumber: "+15551234567",
		Code:        "123456",
		ExpiresAt:   time.Now().Add(10 * time.Minute),
	}
	s.Set("+15551234567", v)

	got, ok := s.Get("+15551234567")
	require.True(t, ok)
	assert.Equal(t, "123456", got.Code)

	s.Delete("+15551234567")
	_, ok = s.Get("+15551234567")
	assert.False(t, ok)
}

func TestStore_SetOverwritesExistingRecord(t *testing.T) {
	s := New(1024, time.Minute)

	s.Set("+15551234567", domain.PhoneVerification{Code: "111111", Attempts: 2})
	s.Set("+15551234567", domain.PhoneVerification{Code: "222222"})

	got, ok := s.Get("+15551234567")
	require.True(t, ok)
	assert.Equal(t, "222222", got.Code)
	assert.Equal(t, 0, got.Attempts)
}

func TestStore_KeysAreIndependent(t *testing.T) {
	s := New(1024, time.Minute)

	s.Set("+15551111111", domain.PhoneVerification{Code: "111111"})
	s.Set("+15552222222", domain.PhoneVerification{Code: "222222"})
	s.Delete("+15551111111")

	_, ok := s.Get("+15551111111")
	assert.False(t, ok)
	got, ok := s.Get("+15552222222")
	require.True(t, ok)
	assert.Equal(t, "222222", got.Code)
}
