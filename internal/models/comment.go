package models

import "time"

// Comment targets
const (
	CommentTargetPost   = "post"
	CommentTargetAdvice = "advice"
)

// Comment is a reply on a post or advice thread (PostgreSQL `comments`)
type Comment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	TargetType string    `json:"targetType" gorm:"size:20;index:idx_comment_target"`
	TargetID   string    `json:"targetId" gorm:"size:64;index:idx_comment_target"` // MongoDB ObjectID as hex
	AuthorID   string    `json:"authorId" gorm:"index;size:128"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}

// CommentView is a comment with its author card
type CommentView struct {
	Comment
	Author UserCompact `json:"author"`
}
