package domain

import (
	"errors"
	"math/rand/v2"
	"regexp"

	"github.com/shopspring/decimal"
)

// referralCodeAlphabet is the character set referral codes are drawn from.
const referralCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ReferralCodeLength is the length of generated referral codes.
const ReferralCodeLength = 6

// ReferralCodePattern matches any valid referral code.
var ReferralCodePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// Account represents one platform identity's wallet.
// The ID is the opaque identifier assigned by the chat platform.
type Account struct {
	ID               string
	Balance          decimal.Decimal
	ReferralCode     string          // assigned once at provisioning, immutable
	DisplayMessageID string          // reference to the external wallet message
	ReferralCount    int
}

// Validate ensures the account adheres to domain rules.
// Returns an error if validation fails.
func (a *Account) Validate() error {
	if a.ID == "" {
		return errors.New("account ID cannot be empty")
	}

	if !ReferralCodePattern.MatchString(a.ReferralCode) {
		return errors.New("referral code must be 6 uppercase letters or digits")
	}

	if a.ReferralCount < 0 {
		return errors.New("referral count cannot be negative")
	}

	return nil
}

// NewReferralCode generates a uniformly random referral code.
// Uniqueness against existing codes is not checked; with a 36^6 code space
// collisions are negligible at guild scale.
func NewReferralCode() string {
	code := make([]byte, ReferralCodeLength)
	for i := range code {
		code[i] = referralCodeAlphabet[rand.IntN(len(referralCodeAlphabet))]
	}
	return string(code)
}
