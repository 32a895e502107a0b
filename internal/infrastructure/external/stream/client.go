package stream

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/agentmeet-team/agentmeet/pkg/config"
)

// Client wraps the call/chat provider operations the dispatcher needs
type Client interface {
	// VerifyWebhook checks the HMAC-SHA256 hex signature over the raw body
	VerifyWebhook(body []byte, signature string) bool

	// Call returns a handle to a running call
	Call(callID string) CallHandle

	// Channel returns a handle to a chat channel
	Channel(channelID string) ChannelHandle

	// UpsertUser creates or refreshes a chat-visible profile
	UpsertUser(ctx context.Context, user UpsertUserParams) error
}

// CallHandle controls one call session
type CallHandle interface {
	// ConnectAgent attaches a live AI conversational session to the call,
	// seeded with the agent's instructions
	ConnectAgent(ctx context.Context, agentID, instructions string) error

	// End terminates the call
	End(ctx context.Context) error
}

// ChannelHandle reads and writes one chat channel
type ChannelHandle interface {
	// RecentMessages fetches the most recent messages, newest last
	RecentMessages(ctx context.Context, limit int) ([]Message, error)

	// SendMessage posts a message to the channel
	SendMessage(ctx context.Context, msg Message) error
}

// Message is one chat message on a channel
type Message struct {
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name,omitempty"`
	Text      string `json:"text"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// UpsertUserParams holds a chat profile upsert
type UpsertUserParams struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image,omitempty"`
}

// realClient talks to the provider's REST API
type realClient struct {
	baseURL       string
	apiKey        string
	apiSecret     string
	webhookSecret string
	client        *http.Client
}

// NewClient creates a provider client. With useMock the client performs no
// network calls, for development and tests without provider credentials.
func NewClient(cfg *config.StreamConfig) Client {
	if cfg.UseMock {
		return &mockClient{webhookSecret: cfg.WebhookSecret}
	}
	return &realClient{
		baseURL:       cfg.BaseURL,
		apiKey:        cfg.APIKey,
		apiSecret:     cfg.APISecret,
		webhookSecret: cfg.WebhookSecret,
		client:        &http.Client{Timeout: 30 * time.Second},
	}
}

// VerifyWebhook checks the signature header against the raw body
func (c *realClient) VerifyWebhook(body []byte, signature string) bool {
	return verifyHMAC(c.webhookSecret, body, signature)
}

// verifyHMAC verifies a sha256 HMAC hex signature against payload and secret
func verifyHMAC(secret string, payload []byte, signatureHex string) bool {
	if secret == "" || signatureHex == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signatureHex))
}

// SignPayload produces the hex HMAC signature for a payload. Exported for
// tests and outbound signing.
func SignPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *realClient) Call(callID string) CallHandle {
	return &realCall{client: c, callID: callID}
}

func (c *realClient) Channel(channelID string) ChannelHandle {
	return &realChannel{client: c, channelID: channelID}
}

// UpsertUser creates or refreshes a chat profile
func (c *realClient) UpsertUser(ctx context.Context, user UpsertUserParams) error {
	payload := map[string]interface{}{
		"users": map[string]UpsertUserParams{user.ID: user},
	}
	return c.do(ctx, http.MethodPost, "/chat/users", payload, nil)
}

// do executes one authenticated API request
func (c *realClient) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return err
		}
	}

	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.apiSecret)
	req.Header.Set("stream-auth-type", "jwt")
	req.Header.Set("Content-Type", "application/json")

	q := req.URL.Query()
	q.Set("api_key", c.apiKey)
	req.URL.RawQuery = q.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("provider returned status %d for %s", resp.StatusCode, path)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// realCall is a handle to one provider call
type realCall struct {
	client *realClient
	callID string
}

// ConnectAgent attaches a live AI session to the call
func (rc *realCall) ConnectAgent(ctx context.Context, agentID, instructions string) error {
	payload := map[string]interface{}{
		"agent_user_id": agentID,
		"instructions":  instructions,
	}
	path := fmt.Sprintf("/video/call/default/%s/connect_agent", url.PathEscape(rc.callID))
	return rc.client.do(ctx, http.MethodPost, path, payload, nil)
}

// End terminates the call
func (rc *realCall) End(ctx context.Context) error {
	path := fmt.Sprintf("/video/call/default/%s/mark_ended", url.PathEscape(rc.callID))
	return rc.client.do(ctx, http.MethodPost, path, nil, nil)
}

// realChannel is a handle to one provider chat channel
type realChannel struct {
	client    *realClient
	channelID string
}

// messagesResponse is the minimal shape of the channel query response
type messagesResponse struct {
	Messages []struct {
		Text string `json:"text"`
		User struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"user"`
	} `json:"messages"`
}

// RecentMessages fetches the most recent channel messages, newest last
func (rc *realChannel) RecentMessages(ctx context.Context, limit int) ([]Message, error) {
	payload := map[string]interface{}{
		"messages": map[string]int{"limit": limit},
		"watch":    false,
		"state":    true,
	}
	path := fmt.Sprintf("/chat/channels/messaging/%s/query", url.PathEscape(rc.channelID))

	var resp messagesResponse
	if err := rc.client.do(ctx, http.MethodPost, path, payload, &resp); err != nil {
		return nil, err
	}

	messages := make([]Message, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		messages = append(messages, Message{
			UserID:   m.User.ID,
			UserName: m.User.Name,
			Text:     m.Text,
		})
	}
	return messages, nil
}

// SendMessage posts a message to the channel
func (rc *realChannel) SendMessage(ctx context.Context, msg Message) error {
	payload := map[string]interface{}{
		"message": map[string]interface{}{
			"text": msg.Text,
			"user": map[string]string{
				"id":    msg.UserID,
				"name":  msg.UserName,
				"image": msg.AvatarURL,
			},
		},
	}
	path := fmt.Sprintf("/chat/channels/messaging/%s/message", url.PathEscape(rc.channelID))
	return rc.client.do(ctx, http.MethodPost, path, payload, nil)
}
