package dispatcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/agentmeet-team/agentmeet/errors"
	"github.com/agentmeet-team/agentmeet/internal/domain/entities"
	"github.com/agentmeet-team/agentmeet/internal/domain/repositories"
	"github.com/agentmeet-team/agentmeet/internal/infrastructure/external/stream"
	"github.com/agentmeet-team/agentmeet/internal/infrastructure/queue"
	"github.com/agentmeet-team/agentmeet/pkg/ai"
	"github.com/agentmeet-team/agentmeet/pkg/avatar"
)

// fallbackReply is sent when the AI provider cannot produce a chat response
const fallbackReply = "I'm sorry, I'm having trouble responding right now. Please try again later."

// Service applies webhook event side effects: meeting lifecycle transitions,
// live agent attachment, summary job enqueueing, and post-meeting chat.
type Service struct {
	meetings     repositories.MeetingRepository
	agents       repositories.AgentRepository
	stream       stream.Client
	completions  ai.CompletionClient
	queue        queue.Enqueuer
	historyLimit int
	logger       *zap.Logger
}

// NewService creates a webhook dispatcher service
func NewService(
	meetings repositories.MeetingRepository,
	agents repositories.AgentRepository,
	streamClient stream.Client,
	completions ai.CompletionClient,
	enqueuer queue.Enqueuer,
	historyLimit int,
	logger *zap.Logger,
) *Service {
	if historyLimit <= 0 {
		historyLimit = 5
	}
	return &Service{
		meetings:     meetings,
		agents:       agents,
		stream:       streamClient,
		completions:  completions,
		queue:        enqueuer,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

// SessionStarted activates the meeting and attaches its agent to the live
// call. Redelivered events find the meeting already active and are rejected
// by the status guard, so the agent is attached at most once.
func (s *Service) SessionStarted(ctx context.Context, meetingID string) error {
	id, err := parseID(meetingID, "meetingId")
	if err != nil {
		return err
	}

	meeting, err := s.meetings.FindByID(ctx, id)
	if err != nil {
		return apperrors.ErrMeetingNotFound(meetingID)
	}

	rows, err := s.meetings.Activate(ctx, id, time.Now())
	if err != nil {
		return apperrors.ErrDBQueryFailed(err)
	}
	if rows == 0 {
		return apperrors.ErrMeetingInvalidState(meetingID, string(meeting.Status))
	}

	agent, err := s.agents.FindByID(ctx, meeting.AgentID)
	if err != nil {
		return apperrors.ErrAgentNotFound(meeting.AgentID.String())
	}

	// Attach failure leaves a human-only call, not a failed webhook
	if err := s.stream.Call(meetingID).ConnectAgent(ctx, agent.ID.String(), agent.Instructions); err != nil {
		s.logger.Warn("failed to attach agent to call, meeting continues without agent",
			zap.String("meeting_id", meetingID),
			zap.String("agent_id", agent.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("meeting activated",
		zap.String("meeting_id", meetingID),
		zap.String("agent_id", agent.ID.String()),
	)
	return nil
}

// ParticipantLeft ends the call when a participant leaves
func (s *Service) ParticipantLeft(ctx context.Context, callCID string) error {
	callID := callIDFromCID(callCID)
	if callID == "" {
		return apperrors.ErrMissingField("call_cid")
	}

	if err := s.stream.Call(callID).End(ctx); err != nil {
		return apperrors.ErrInternal(fmt.Errorf("end call %s: %w", callID, err))
	}
	return nil
}

// SessionEnded moves an active meeting to processing. A meeting in any other
// status is left untouched, which makes redelivery a no-op.
func (s *Service) SessionEnded(ctx context.Context, meetingID string) error {
	id, err := parseID(meetingID, "meetingId")
	if err != nil {
		return err
	}

	rows, err := s.meetings.MarkProcessing(ctx, id, time.Now())
	if err != nil {
		return apperrors.ErrDBQueryFailed(err)
	}
	if rows == 0 {
		s.logger.Info("session_ended ignored, meeting not active",
			zap.String("meeting_id", meetingID),
		)
	}
	return nil
}

// TranscriptionReady stores the transcript location and enqueues the
// summarization job
func (s *Service) TranscriptionReady(ctx context.Context, callCID, transcriptURL string) error {
	callID := callIDFromCID(callCID)
	if callID == "" {
		return apperrors.ErrMissingField("call_cid")
	}
	id, err := parseID(callID, "call_cid")
	if err != nil {
		return err
	}

	rows, err := s.meetings.SetTranscriptURL(ctx, id, transcriptURL)
	if err != nil {
		return apperrors.ErrDBQueryFailed(err)
	}
	if rows == 0 {
		return apperrors.ErrMeetingNotFound(callID)
	}

	if err := s.queue.EnqueueSummary(ctx, id, transcriptURL); err != nil {
		return apperrors.ErrSummaryEnqueueFailed(err)
	}
	return nil
}

// RecordingReady stores the recording location. The write is idempotent and
// a missing meeting is not an error worth retrying on the provider side.
func (s *Service) RecordingReady(ctx context.Context, callCID, recordingURL string) error {
	callID := callIDFromCID(callCID)
	if callID == "" {
		return apperrors.ErrMissingField("call_cid")
	}
	id, err := parseID(callID, "call_cid")
	if err != nil {
		return err
	}

	rows, err := s.meetings.SetRecordingURL(ctx, id, recordingURL)
	if err != nil {
		return apperrors.ErrDBQueryFailed(err)
	}
	if rows == 0 {
		s.logger.Warn("recording_ready for unknown meeting",
			zap.String("meeting_id", callID),
		)
	}
	return nil
}

// MessageNew generates an agent reply to a chat message on a completed
// meeting's channel. Messages sent by the agent itself are ignored.
func (s *Service) MessageNew(ctx context.Context, senderID, channelID, text string) error {
	if senderID == "" {
		return apperrors.ErrMissingField("user.id")
	}
	if channelID == "" {
		return apperrors.ErrMissingField("channel_id")
	}
	if text == "" {
		return apperrors.ErrMissingField("message.text")
	}

	id, err := parseID(channelID, "channel_id")
	if err != nil {
		return err
	}

	meeting, err := s.meetings.FindByIDWithStatus(ctx, id, entities.MeetingStatusCompleted)
	if err != nil {
		return apperrors.ErrMeetingNotFound(channelID)
	}

	agent, err := s.agents.FindByID(ctx, meeting.AgentID)
	if err != nil {
		return apperrors.ErrAgentNotFound(meeting.AgentID.String())
	}

	// The agent's own messages echo back through this webhook
	if senderID == agent.ID.String() {
		return nil
	}

	reply := s.generateReply(ctx, meeting.Summary, agent.Instructions, agent.ID.String(), channelID, text)

	agentAvatar := avatar.URI(agent.Name)
	if err := s.stream.UpsertUser(ctx, stream.UpsertUserParams{
		ID:       agent.ID.String(),
		Name:     agent.Name,
		ImageURL: agentAvatar,
	}); err != nil {
		s.logger.Warn("failed to upsert agent chat profile",
			zap.String("agent_id", agent.ID.String()),
			zap.Error(err),
		)
	}

	if err := s.stream.Channel(channelID).SendMessage(ctx, stream.Message{
		UserID:    agent.ID.String(),
		UserName:  agent.Name,
		Text:      reply,
		AvatarURL: agentAvatar,
	}); err != nil {
		return apperrors.ErrInternal(fmt.Errorf("send agent reply: %w", err))
	}
	return nil
}

// generateReply asks the completion provider for a response grounded in the
// meeting summary and recent channel history. Any failure degrades to a
// fixed apology so the user always gets a reply.
func (s *Service) generateReply(ctx context.Context, summary *string, instructions, agentID, channelID, text string) string {
	messages := []ai.ChatMessage{
		{Role: ai.RoleSystem, Content: buildChatSystemPrompt(summary, instructions)},
	}

	history, err := s.stream.Channel(channelID).RecentMessages(ctx, s.historyLimit)
	if err != nil {
		s.logger.Warn("failed to load channel history",
			zap.String("channel_id", channelID),
			zap.Error(err),
		)
	}
	for _, msg := range history {
		if strings.TrimSpace(msg.Text) == "" {
			continue
		}
		role := ai.RoleUser
		if msg.UserID == agentID {
			role = ai.RoleAssistant
		}
		messages = append(messages, ai.ChatMessage{Role: role, Content: msg.Text})
	}
	messages = append(messages, ai.ChatMessage{Role: ai.RoleUser, Content: text})

	reply, err := s.completions.Complete(ctx, messages)
	if err != nil || reply == "" {
		s.logger.Warn("chat completion failed, using fallback reply",
			zap.String("channel_id", channelID),
			zap.Error(err),
		)
		return fallbackReply
	}
	return reply
}

// buildChatSystemPrompt embeds the meeting summary and the agent's original
// instructions into the chat persona prompt
func buildChatSystemPrompt(summary *string, instructions string) string {
	summaryText := "No summary is available yet."
	if summary != nil && *summary != "" {
		summaryText = *summary
	}
	return fmt.Sprintf(`You are an AI assistant helping the user revisit a recently completed meeting.
Below is a summary of the meeting, generated from the transcript:

%s

The following are your original instructions from the live meeting assistant. Please continue to follow these behavioral guidelines as you assist the user:

%s

The user may ask questions about the meeting, request clarifications, or ask for follow-up actions.
Always base your responses on the meeting summary above.

You also have access to the recent conversation history between you and the user. Use the context of previous messages to provide relevant, coherent, and helpful responses. Avoid repeating information unless necessary, and ensure your answers address the user's current question.

If the summary does not contain enough information to answer a question, politely let the user know.

Be concise, helpful, and focus on providing accurate information from the meeting and the ongoing conversation.`, summaryText, instructions)
}

// callIDFromCID extracts the id half of a "type:id" call composite
func callIDFromCID(cid string) string {
	parts := strings.SplitN(cid, ":", 2)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// parseID validates a provider-supplied id as a UUID
func parseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.ErrInvalidArgument(fmt.Sprintf("invalid %s: %s", field, raw))
	}
	return id, nil
}
