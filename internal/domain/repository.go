package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for account persistence operations.
type AccountRepository interface {
	// Get retrieves an account by its platform ID.
	// Returns ErrAccountNotFound if no such account exists.
	Get(ctx context.Context, id string) (*Account, error)

	// List retrieves all accounts. Order is unspecified.
	List(ctx context.Context) ([]*Account, error)

	// Create creates a new account.
	// Returns ErrDuplicateAccount if the ID is already taken.
	Create(ctx context.Context, account *Account) error

	// SetBalance overwrites the account's balance.
	// Returns ErrAccountNotFound if no such account exists.
	SetBalance(ctx context.Context, id string, balance decimal.Decimal) error
}

// LedgerRepository defines the interface for ledger persistence operations.
type LedgerRepository interface {
	// AppendEntry inserts a ledger entry. Insert-only: entries are never
	// updated or deleted. Account existence is not checked, so orphan
	// entries are accepted.
	AppendEntry(ctx context.Context, entry *LedgerEntry) error

	// SumSince returns the sum of entry amounts for the account with
	// date >= since (inclusive). Returns decimal.Zero when no rows match.
	SumSince(ctx context.Context, accountID string, since time.Time) (decimal.Decimal, error)
}

// DisplayPayload is an opaque rendered representation of one account's
// wallet display, ready to be sent to the chat platform.
type DisplayPayload []byte

// Member is one identity known to the chat platform.
type Member struct {
	ID       string
	Username string
}

// Messenger defines the chat-platform operations the core needs.
// All calls are fallible remote calls.
type Messenger interface {
	// SendMessage posts a new message to the channel and returns its
	// platform-assigned message ID.
	SendMessage(ctx context.Context, channelID string, payload DisplayPayload) (string, error)

	// EditMessage replaces the content of an existing message.
	// Returns ErrMessageNotFound if the message no longer exists.
	EditMessage(ctx context.Context, channelID, messageID string, payload DisplayPayload) error

	// FetchMembers lists the non-bot members of the group.
	FetchMembers(ctx context.Context, guildID string) ([]Member, error)
}

// Renderer builds the display payload for one account.
// Formatting is a presentation-layer concern; the core only supplies inputs.
type Renderer interface {
	Render(account *Account, gain7, gain30 decimal.Decimal) (DisplayPayload, error)
}

// EventPublisher publishes domain events to an external broker.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event any) error
}
