package models

import "time"

// Notification types
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationRSVP    = "rsvp"
	NotificationVote    = "vote"
	NotificationMessage = "message"
)

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;index"`
	ActorID     string    `json:"actorId" gorm:"index;size:128"`
	RecipientID string    `json:"recipientId" gorm:"index;size:128"`
	TargetID    string    `json:"targetId"`
	TargetType  string    `json:"targetType" gorm:"size:20"` // post, advice, event, conversation
	Message     string    `json:"message"`
	IsRead      bool      `json:"isRead" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
}
