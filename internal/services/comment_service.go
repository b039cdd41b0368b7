package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/petconnect/backend/internal/async"
	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
)

// CommentService manages comment threads on posts and advice posts
type CommentService struct {
	comments      repositories.CommentRepository
	posts         repositories.PostRepository
	advice        repositories.AdviceRepository
	users         repositories.UserRepository
	notifications *NotificationService
	writer        *async.Writer
}

// NewCommentService creates a CommentService
func NewCommentService(
	comments repositories.CommentRepository,
	posts repositories.PostRepository,
	advice repositories.AdviceRepository,
	users repositories.UserRepository,
	notifications *NotificationService,
	writer *async.Writer,
) *CommentService {
	return &CommentService{
		comments:      comments,
		posts:         posts,
		advice:        advice,
		users:         users,
		notifications: notifications,
		writer:        writer,
	}
}

// targetAuthor checks the target exists and returns its author
func (s *CommentService) targetAuthor(ctx context.Context, targetType, targetID string) (string, error) {
	switch targetType {
	case models.CommentTargetPost:
		p, err := s.posts.GetPostByID(ctx, targetID)
		if err != nil {
			return "", err
		}
		return p.AuthorID, nil
	case models.CommentTargetAdvice:
		a, err := s.advice.GetAdviceByID(ctx, targetID)
		if err != nil {
			return "", err
		}
		return a.AuthorID, nil
	}
	return "", fmt.Errorf("%w: unknown comment target %q", ErrInvalidInput, targetType)
}

func (s *CommentService) adjustCount(ctx context.Context, targetType, targetID string, delta int) *async.Task {
	return s.writer.Submit(ctx, "comment_count", func(ctx context.Context) error {
		if targetType == models.CommentTargetAdvice {
			return s.advice.IncrementCommentCount(ctx, targetID, delta)
		}
		return s.posts.IncrementCommentCount(ctx, targetID, delta)
	})
}

// AddComment writes a comment and bumps the target's counter without blocking
func (s *CommentService) AddComment(ctx context.Context, actor models.Identity, targetType, targetID string, req models.CreateCommentRequest) (*models.CommentView, *async.Task, error) {
	if err := requireActor(actor); err != nil {
		return nil, nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	authorID, err := s.targetAuthor(ctx, targetType, targetID)
	if err != nil {
		return nil, nil, err
	}

	comment := &models.Comment{
		TargetType: targetType,
		TargetID:   targetID,
		AuthorID:   actor.UserID,
		Content:    content,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, nil, err
	}

	task := s.adjustCount(ctx, targetType, targetID, 1)
	s.notifications.Notify(ctx, models.Notification{
		Type:        models.NotificationComment,
		ActorID:     actor.UserID,
		RecipientID: authorID,
		TargetID:    targetID,
		TargetType:  targetType,
		Message:     "commented on your " + targetType,
	})

	authors, err := compactUsers(ctx, s.users, []string{actor.UserID})
	if err != nil {
		return nil, nil, err
	}
	return &models.CommentView{Comment: *comment, Author: authors[actor.UserID]}, task, nil
}

// ListComments returns a target's comments, oldest first
func (s *CommentService) ListComments(ctx context.Context, targetType, targetID string) ([]models.CommentView, error) {
	if _, err := s.targetAuthor(ctx, targetType, targetID); err != nil {
		return nil, err
	}
	comments, err := s.comments.GetCommentsByTarget(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(comments))
	for i, c := range comments {
		ids[i] = c.AuthorID
	}
	authors, err := compactUsers(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}
	views := make([]models.CommentView, len(comments))
	for i, c := range comments {
		views[i] = models.CommentView{Comment: c, Author: authors[c.AuthorID]}
	}
	return views, nil
}

// DeleteComment removes a comment. Only its author may do so.
func (s *CommentService) DeleteComment(ctx context.Context, actor models.Identity, id uint) (*async.Task, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	comment, err := s.comments.GetCommentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != actor.UserID {
		return nil, fmt.Errorf("%w: comment belongs to another user", ErrForbidden)
	}
	if err := s.comments.DeleteComment(ctx, id); err != nil {
		return nil, err
	}
	return s.adjustCount(ctx, comment.TargetType, comment.TargetID, -1), nil
}
