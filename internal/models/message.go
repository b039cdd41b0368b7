package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation is a two-party direct message thread stored in MongoDB
type Conversation struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Key           string             `json:"-" bson:"key"` // sorted participant pair, unique
	Participants  UserSet            `json:"participants" bson:"participants"`
	LastMessage   string             `json:"lastMessage" bson:"lastMessage"`
	LastMessageAt time.Time          `json:"lastMessageAt" bson:"lastMessageAt"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}

// ConversationKey identifies the thread between two users regardless of order
func ConversationKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// OtherParticipant returns the participant that is not userID
func (c *Conversation) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// Message is a single direct message
type Message struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ConversationID primitive.ObjectID `json:"conversationId" bson:"conversationId"`
	SenderID       string             `json:"senderId" bson:"senderId"`
	Text           string             `json:"text" bson:"text"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	ReadBy         UserSet            `json:"readBy" bson:"readBy"`
}

// StartConversationRequest opens (or reopens) a thread with another member
type StartConversationRequest struct {
	RecipientID string `json:"recipientId" validate:"required"`
}

// SendMessageRequest defines the request body for sending a message
type SendMessageRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

// ConversationSummary is a conversation list row
type ConversationSummary struct {
	Conversation
	With        UserCompact `json:"with"`
	UnreadCount int64       `json:"unreadCount"`
}
