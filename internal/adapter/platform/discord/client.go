package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/simaogato/walletbot/internal/domain"
)

const defaultBaseURL = "https://discord.com/api/v10"

// memberPageLimit is the maximum page size the guild members endpoint allows.
const memberPageLimit = 1000

// Client is a Discord REST implementation of domain.Messenger.
// It only covers the three calls the core needs; the gateway/session
// lifecycle is out of scope.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a Discord client authenticating with the given bot token.
func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
		token:      token,
	}
}

// messageBody is the request body for message create/edit calls. The payload
// is a pre-rendered embed object.
type messageBody struct {
	Embeds []json.RawMessage `json:"embeds"`
}

// SendMessage posts the payload as an embed message to the channel and
// returns the new message's ID.
func (c *Client) SendMessage(ctx context.Context, channelID string, payload domain.DisplayPayload) (string, error) {
	var msg struct {
		ID string `json:"id"`
	}
	body := messageBody{Embeds: []json.RawMessage{json.RawMessage(payload)}}

	path := fmt.Sprintf("/channels/%s/messages", channelID)
	if err := c.do(ctx, http.MethodPost, path, body, &msg); err != nil {
		return "", err
	}
	return msg.ID, nil
}

// EditMessage replaces the embed of an existing message.
// Returns domain.ErrMessageNotFound if the message no longer exists.
func (c *Client) EditMessage(ctx context.Context, channelID, messageID string, payload domain.DisplayPayload) error {
	body := messageBody{Embeds: []json.RawMessage{json.RawMessage(payload)}}

	path := fmt.Sprintf("/channels/%s/messages/%s", channelID, messageID)
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

// FetchMembers pages through the guild member list, skipping bot users.
func (c *Client) FetchMembers(ctx context.Context, guildID string) ([]domain.Member, error) {
	type member struct {
		User struct {
			ID       string `json:"id"`
			Username string `json:"username"`
			Bot      bool   `json:"bot"`
		} `json:"user"`
	}

	var members []domain.Member
	after := ""
	for {
		path := fmt.Sprintf("/guilds/%s/members?limit=%d", guildID, memberPageLimit)
		if after != "" {
			path += "&after=" + after
		}

		var page []member
		if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
			return nil, err
		}

		for _, m := range page {
			if m.User.Bot {
				continue
			}
			members = append(members, domain.Member{ID: m.User.ID, Username: m.User.Username})
		}

		if len(page) < memberPageLimit {
			return members, nil
		}
		after = page[len(page)-1].User.ID
	}
}

// do issues one API request. 404 responses map to domain.ErrMessageNotFound;
// other non-2xx statuses become errors carrying a snippet of the response.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("discord request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrMessageNotFound
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("discord API %s %s returned %d: %s", method, path, resp.StatusCode, snippet)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

var _ domain.Messenger = (*Client)(nil)
