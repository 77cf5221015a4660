package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewReferralCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := NewReferralCode()
		assert.Regexp(t, `^[A-Z0-9]{6}$`, code)
		seen[code] = true
	}

	// 100 uniform draws from a 36^6 space should never all collide
	assert.Greater(t, len(seen), 1, "generator should not return a constant code")
}

func TestAccountValidate(t *testing.T) {
	account := &Account{
		ID:           "U1",
		Balance:      decimal.Zero,
		ReferralCode: "ABC123",
	}
	assert.NoError(t, account.Validate())

	missing := &Account{ReferralCode: "ABC123"}
	assert.Error(t, missing.Validate())

	badCode := &Account{ID: "U1", ReferralCode: "abc123"}
	assert.Error(t, badCode.Validate())

	negativeReferrals := &Account{ID: "U1", ReferralCode: "ABC123", ReferralCount: -1}
	assert.Error(t, negativeReferrals.Validate())
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	ts := time.Date(2026, 8, 29, 3, 12, 45, 0, loc) // 2026-08-28 22:12 UTC

	date := DateOf(ts)

	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), date)
	assert.Equal(t, date, DateOf(date))
}
