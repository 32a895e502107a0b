package stream

import (
	"context"
	"testing"

	"github.com/agentmeet-team/agentmeet/pkg/config"
)

func TestVerifyWebhook(t *testing.T) {
	secret := "test-webhook-secret"
	body := []byte(`{"type":"call.session_started"}`)

	client := NewClient(&config.StreamConfig{WebhookSecret: secret, UseMock: true})

	sig := SignPayload(secret, body)
	if !client.VerifyWebhook(body, sig) {
		t.Error("expected valid signature to verify")
	}

	if client.VerifyWebhook(body, "deadbeef") {
		t.Error("expected invalid signature to fail")
	}

	if client.VerifyWebhook(body, "") {
		t.Error("expected empty signature to fail")
	}

	tampered := []byte(`{"type":"call.session_ended"}`)
	if client.VerifyWebhook(tampered, sig) {
		t.Error("expected signature over different body to fail")
	}
}

func TestVerifyWebhookEmptySecret(t *testing.T) {
	body := []byte(`{}`)
	client := NewClient(&config.StreamConfig{WebhookSecret: "", UseMock: true})

	if client.VerifyWebhook(body, SignPayload("", body)) {
		t.Error("expected verification to fail with empty secret")
	}
}

func TestMockClientHandles(t *testing.T) {
	client := NewClient(&config.StreamConfig{WebhookSecret: "s", UseMock: true})
	ctx := context.Background()

	if err := client.Call("call-1").ConnectAgent(ctx, "agent-1", "be helpful"); err != nil {
		t.Errorf("ConnectAgent: %v", err)
	}
	if err := client.Call("call-1").End(ctx); err != nil {
		t.Errorf("End: %v", err)
	}

	msgs, err := client.Channel("chan-1").RecentMessages(ctx, 5)
	if err != nil {
		t.Errorf("RecentMessages: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("expected no messages from mock, got %d", len(msgs))
	}
	if err := client.Channel("chan-1").SendMessage(ctx, Message{UserID: "u", Text: "hi"}); err != nil {
		t.Errorf("SendMessage: %v", err)
	}
	if err := client.UpsertUser(ctx, UpsertUserParams{ID: "u", Name: "n"}); err != nil {
		t.Errorf("UpsertUser: %v", err)
	}
}
