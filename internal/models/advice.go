package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vote directions on an advice post
const (
	VoteUp   = "up"
	VoteDown = "down"
)

// AdvicePost is a community question/answer thread stored in MongoDB
type AdvicePost struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AuthorID     string             `json:"authorId" bson:"authorId"`
	Title        string             `json:"title" bson:"title"`
	Content      string             `json:"content" bson:"content"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	Upvotes      UserSet            `json:"upvotes" bson:"upvotes"`
	Downvotes    UserSet            `json:"downvotes" bson:"downvotes"`
	CommentCount int                `json:"commentCount" bson:"commentCount"`
}

// Score is upvotes minus downvotes
func (a *AdvicePost) Score() int {
	return a.Upvotes.Len() - a.Downvotes.Len()
}

// VoteOf returns "up", "down" or "" for the given user
func (a *AdvicePost) VoteOf(userID string) string {
	switch {
	case a.Upvotes.Contains(userID):
		return VoteUp
	case a.Downvotes.Contains(userID):
		return VoteDown
	}
	return ""
}

// CreateAdviceRequest defines the request body for a new advice post
type CreateAdviceRequest struct {
	Title   string `json:"title" validate:"required,min=3,max=150"`
	Content string `json:"content" validate:"required,min=1,max=5000"`
}

// VoteState is returned after a vote toggle
type VoteState struct {
	AdviceID  string `json:"adviceId"`
	Upvotes   int    `json:"upvotes"`
	Downvotes int    `json:"downvotes"`
	Score     int    `json:"score"`
	MyVote    string `json:"myVote"`
}

// AdviceView is an advice post with its author card and the viewer's vote
type AdviceView struct {
	AdvicePost
	Author UserCompact `json:"author"`
	Score  int         `json:"score"`
	MyVote string      `json:"myVote"`
}
