package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/petconnect/backend/internal/async"
	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
)

const messagePageSize = 200

// MessageService runs two-party direct messages
type MessageService struct {
	conversations repositories.ConversationRepository
	users         repositories.UserRepository
	notifications *NotificationService
	writer        *async.Writer
}

// NewMessageService creates a MessageService
func NewMessageService(
	conversations repositories.ConversationRepository,
	users repositories.UserRepository,
	notifications *NotificationService,
	writer *async.Writer,
) *MessageService {
	return &MessageService{
		conversations: conversations,
		users:         users,
		notifications: notifications,
		writer:        writer,
	}
}

// StartConversation finds or creates the thread between the actor and recipientID
func (s *MessageService) StartConversation(ctx context.Context, actor models.Identity, recipientID string) (*models.ConversationSummary, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if recipientID == "" || recipientID == actor.UserID {
		return nil, fmt.Errorf("%w: pick another member to message", ErrInvalidInput)
	}
	recipient, err := s.users.GetUserByID(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	conv, err := s.conversations.FindOrCreateConversation(ctx, actor.UserID, recipientID)
	if err != nil {
		return nil, err
	}
	unread, err := s.conversations.CountUnread(ctx, conv.ID, actor.UserID)
	if err != nil {
		return nil, err
	}
	return &models.ConversationSummary{Conversation: *conv, With: recipient.ToCompact(), UnreadCount: unread}, nil
}

// ListConversations returns the actor's threads, most recent first
func (s *MessageService) ListConversations(ctx context.Context, actor models.Identity) ([]models.ConversationSummary, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	convs, err := s.conversations.GetConversationsForUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	others := make([]string, len(convs))
	for i := range convs {
		others[i] = convs[i].OtherParticipant(actor.UserID)
	}
	cards, err := compactUsers(ctx, s.users, others)
	if err != nil {
		return nil, err
	}

	out := make([]models.ConversationSummary, len(convs))
	for i, c := range convs {
		unread, err := s.conversations.CountUnread(ctx, c.ID, actor.UserID)
		if err != nil {
			return nil, err
		}
		out[i] = models.ConversationSummary{Conversation: c, With: cards[others[i]], UnreadCount: unread}
	}
	return out, nil
}

// Messages returns the latest messages of a thread the actor takes part in
func (s *MessageService) Messages(ctx context.Context, actor models.Identity, conversationID string) ([]models.Message, error) {
	conv, err := s.participating(ctx, actor, conversationID)
	if err != nil {
		return nil, err
	}
	return s.conversations.GetMessages(ctx, conv.ID, messagePageSize)
}

// SendMessage appends a message, then updates the thread preview and notifies
// the other participant without blocking.
func (s *MessageService) SendMessage(ctx context.Context, actor models.Identity, conversationID string, req models.SendMessageRequest) (*models.Message, *async.Task, error) {
	conv, err := s.participating(ctx, actor, conversationID)
	if err != nil {
		return nil, nil, err
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, nil, fmt.Errorf("%w: message text is required", ErrInvalidInput)
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       actor.UserID,
		Text:           text,
	}
	if err := s.conversations.CreateMessage(ctx, msg); err != nil {
		return nil, nil, err
	}

	task := s.writer.Submit(ctx, "conversation_last_message", func(ctx context.Context) error {
		return s.conversations.UpdateLastMessage(ctx, conv.ID, msg.Text, msg.CreatedAt)
	})
	s.notifications.Notify(ctx, models.Notification{
		Type:        models.NotificationMessage,
		ActorID:     actor.UserID,
		RecipientID: conv.OtherParticipant(actor.UserID),
		TargetID:    conv.ID.Hex(),
		TargetType:  "conversation",
		Message:     "sent you a message",
	})
	return msg, task, nil
}

// MarkRead marks every message in the thread read by the actor
func (s *MessageService) MarkRead(ctx context.Context, actor models.Identity, conversationID string) (int64, error) {
	conv, err := s.participating(ctx, actor, conversationID)
	if err != nil {
		return 0, err
	}
	return s.conversations.MarkRead(ctx, conv.ID, actor.UserID)
}

func (s *MessageService) participating(ctx context.Context, actor models.Identity, conversationID string) (*models.Conversation, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	conv, err := s.conversations.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.Participants.Contains(actor.UserID) {
		return nil, fmt.Errorf("%w: not a participant of this conversation", ErrForbidden)
	}
	return conv, nil
}
