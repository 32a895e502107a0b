package stream

import "context"

// mockClient implements Client without any network access.
// Used when STREAM_USE_MOCK=true so the service runs locally
// without provider credentials.
type mockClient struct {
	webhookSecret string
}

func (m *mockClient) VerifyWebhook(body []byte, signature string) bool {
	return verifyHMAC(m.webhookSecret, body, signature)
}

func (m *mockClient) Call(callID string) CallHandle {
	return &mockCall{callID: callID}
}

func (m *mockClient) Channel(channelID string) ChannelHandle {
	return &mockChannel{channelID: channelID}
}

func (m *mockClient) UpsertUser(ctx context.Context, user UpsertUserParams) error {
	return nil
}

type mockCall struct {
	callID string
}

func (c *mockCall) ConnectAgent(ctx context.Context, agentID, instructions string) error {
	return nil
}

func (c *mockCall) End(ctx context.Context) error {
	return nil
}

type mockChannel struct {
	channelID string
}

func (c *mockChannel) RecentMessages(ctx context.Context, limit int) ([]Message, error) {
	return []Message{}, nil
}

func (c *mockChannel) SendMessage(ctx context.Context, msg Message) error {
	return nil
}
