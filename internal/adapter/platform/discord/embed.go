package discord

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/walletbot/internal/domain"
)

// walletColor is the embed accent color.
const walletColor = 0x1f8bff

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embedFooter struct {
	Text string `json:"text"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields"`
	Footer      embedFooter  `json:"footer"`
	Timestamp   string       `json:"timestamp"`
}

// EmbedRenderer renders an account's wallet as a Discord embed payload.
type EmbedRenderer struct {
	Now func() time.Time
}

// NewEmbedRenderer creates a new EmbedRenderer instance
func NewEmbedRenderer() *EmbedRenderer {
	return &EmbedRenderer{Now: time.Now}
}

// Render builds the wallet embed: current balance, referral code and count,
// and the 7- and 30-day windowed gains.
func (r *EmbedRenderer) Render(account *domain.Account, gain7, gain30 decimal.Decimal) (domain.DisplayPayload, error) {
	e := embed{
		Title:       "Wallet",
		Description: fmt.Sprintf("Wallet of <@%s>", account.ID),
		Color:       walletColor,
		Fields: []embedField{
			{Name: "Current balance", Value: usd(account.Balance), Inline: true},
			{Name: "Referral code", Value: account.ReferralCode, Inline: true},
			{Name: "Referrals", Value: strconv.Itoa(account.ReferralCount), Inline: true},
			{Name: "Last 7 days", Value: usd(gain7), Inline: true},
			{Name: "Last 30 days", Value: usd(gain30), Inline: true},
		},
		Footer:    embedFooter{Text: "Updated automatically"},
		Timestamp: r.Now().UTC().Format(time.RFC3339),
	}

	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wallet embed: %w", err)
	}
	return domain.DisplayPayload(data), nil
}

func usd(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2) + " USD"
}

var _ domain.Renderer = (*EmbedRenderer)(nil)
