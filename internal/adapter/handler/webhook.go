package handler

import (
	"context"
	"encoding/json"
	"io"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/agentmeet-team/agentmeet/errors"
	webhookdto "github.com/agentmeet-team/agentmeet/internal/adapter/dto/webhook"
)

// DispatcherService applies the side effects of verified webhook events
type DispatcherService interface {
	SessionStarted(ctx context.Context, meetingID string) error
	ParticipantLeft(ctx context.Context, callCID string) error
	SessionEnded(ctx context.Context, meetingID string) error
	TranscriptionReady(ctx context.Context, callCID, transcriptURL string) error
	RecordingReady(ctx context.Context, callCID, recordingURL string) error
	MessageNew(ctx context.Context, senderID, channelID, text string) error
}

// SignatureVerifier checks a webhook signature over the raw request body
type SignatureVerifier interface {
	VerifyWebhook(body []byte, signature string) bool
}

// WebhookHandler receives call/chat provider events. Authentication comes
// first: both headers must be present and the signature must verify before
// any event field is read.
type WebhookHandler struct {
	dispatcher DispatcherService
	verifier   SignatureVerifier
	logger     *zap.Logger
}

// NewWebhookHandler creates a webhook handler
func NewWebhookHandler(dispatcher DispatcherService, verifier SignatureVerifier, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		dispatcher: dispatcher,
		verifier:   verifier,
		logger:     logger,
	}
}

// HandleStreamWebhook processes one provider event
func (h *WebhookHandler) HandleStreamWebhook(c echo.Context) error {
	signature := c.Request().Header.Get("x-signature")
	apiKey := c.Request().Header.Get("x-api-key")
	if signature == "" || apiKey == "" {
		return HandleError(h.logger, c, apperrors.ErrMissingWebhookHeaders())
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
	}

	if !h.verifier.VerifyWebhook(body, signature) {
		return HandleError(h.logger, c, apperrors.ErrInvalidSignature())
	}

	var envelope webhookdto.Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
	}
	if envelope.Type == "" {
		return HandleError(h.logger, c, apperrors.ErrMissingField("type"))
	}

	ctx := c.Request().Context()

	h.logger.Info("webhook event received",
		zap.String("event_type", envelope.Type),
		zap.String("request_id", getRequestID(c)),
	)

	switch envelope.Type {
	case webhookdto.EventSessionStarted:
		var event webhookdto.SessionStartedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
		}
		if event.Call.Custom.MeetingID == "" {
			return HandleError(h.logger, c, apperrors.ErrMissingField("meetingId"))
		}
		if err := h.dispatcher.SessionStarted(ctx, event.Call.Custom.MeetingID); err != nil {
			return HandleError(h.logger, c, err)
		}

	case webhookdto.EventParticipantLeft:
		var event webhookdto.ParticipantLeftEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
		}
		if event.CallCID == "" {
			return HandleError(h.logger, c, apperrors.ErrMissingField("call_cid"))
		}
		if err := h.dispatcher.ParticipantLeft(ctx, event.CallCID); err != nil {
			return HandleError(h.logger, c, err)
		}

	case webhookdto.EventSessionEnded:
		var event webhookdto.SessionEndedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
		}
		if event.Call.Custom.MeetingID == "" {
			return HandleError(h.logger, c, apperrors.ErrMissingField("meetingId"))
		}
		if err := h.dispatcher.SessionEnded(ctx, event.Call.Custom.MeetingID); err != nil {
			return HandleError(h.logger, c, err)
		}

	case webhookdto.EventTranscriptionReady:
		var event webhookdto.TranscriptionReadyEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
		}
		if err := h.dispatcher.TranscriptionReady(ctx, event.CallCID, event.CallTranscription.URL); err != nil {
			return HandleError(h.logger, c, err)
		}

	case webhookdto.EventRecordingReady:
		var event webhookdto.RecordingReadyEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
		}
		if err := h.dispatcher.RecordingReady(ctx, event.CallCID, event.CallRecording.URL); err != nil {
			return HandleError(h.logger, c, err)
		}

	case webhookdto.EventMessageNew:
		var event webhookdto.MessageNewEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
		}
		if err := h.dispatcher.MessageNew(ctx, event.User.ID, event.ChannelID, event.Message.Text); err != nil {
			return HandleError(h.logger, c, err)
		}

	default:
		// Unrecognized events are acknowledged so the provider stops
		// redelivering them
		h.logger.Info("ignoring unhandled webhook event",
			zap.String("event_type", envelope.Type),
		)
	}

	return HandleSuccess(h.logger, c, map[string]string{"status": "ok"})
}
