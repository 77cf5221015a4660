package discord

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/walletbot/internal/domain"
)

func TestEmbedRenderer_Render(t *testing.T) {
	renderer := NewEmbedRenderer()
	renderer.Now = func() time.Time {
		return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	}

	account := &domain.Account{
		ID:            "U2",
		Balance:       decimal.NewFromInt(102),
		ReferralCode:  "AAAAAA",
		ReferralCount: 3,
	}

	payload, err := renderer.Render(account, decimal.NewFromInt(2), decimal.NewFromFloat(4.5))
	require.NoError(t, err)

	var e embed
	require.NoError(t, json.Unmarshal(payload, &e))

	assert.Contains(t, e.Description, "<@U2>")
	assert.Equal(t, walletColor, e.Color)
	assert.Equal(t, "2026-08-29T12:00:00Z", e.Timestamp)

	require.Len(t, e.Fields, 5)
	assert.Equal(t, "$102.00 USD", e.Fields[0].Value)
	assert.Equal(t, "AAAAAA", e.Fields[1].Value)
	assert.Equal(t, "3", e.Fields[2].Value)
	assert.Equal(t, "$2.00 USD", e.Fields[3].Value)
	assert.Equal(t, "$4.50 USD", e.Fields[4].Value)
}
