package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a feed entry stored in MongoDB
type Post struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AuthorID     string             `json:"authorId" bson:"authorId"`
	Content      string             `json:"content" bson:"content"`
	ImageURL     string             `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	Likes        UserSet            `json:"likes" bson:"likes"`
	CommentCount int                `json:"commentCount" bson:"commentCount"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=2000"`
	ImageURL string `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

// LikeState is returned after a like/unlike
type LikeState struct {
	PostID     string `json:"postId"`
	Liked      bool   `json:"liked"`
	LikesCount int    `json:"likesCount"`
}

// PostView is a post with its author card and viewer-specific flags
type PostView struct {
	Post
	Author     UserCompact `json:"author"`
	LikesCount int         `json:"likesCount"`
	IsLiked    bool        `json:"isLiked"`
}

// PageMeta describes one page of a paginated list
type PageMeta struct {
	CurrentPage     int   `json:"currentPage"`
	TotalPages      int   `json:"totalPages"`
	TotalItems      int64 `json:"totalItems"`
	ItemsPerPage    int   `json:"itemsPerPage"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// NewPageMeta derives page counts from a total
func NewPageMeta(page, limit int, total int64) PageMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PageMeta{
		CurrentPage:     page,
		TotalPages:      totalPages,
		TotalItems:      total,
		ItemsPerPage:    limit,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

// FeedPage is a page of enriched posts
type FeedPage struct {
	Posts []PostView `json:"posts"`
	Meta  PageMeta   `json:"meta"`
}
