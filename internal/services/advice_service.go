package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
)

// AdviceService runs the community advice board
type AdviceService struct {
	advice        repositories.AdviceRepository
	users         repositories.UserRepository
	notifications *NotificationService
}

// NewAdviceService creates an AdviceService
func NewAdviceService(advice repositories.AdviceRepository, users repositories.UserRepository, notifications *NotificationService) *AdviceService {
	return &AdviceService{advice: advice, users: users, notifications: notifications}
}

// CreateAdvice posts a question or tip
func (s *AdviceService) CreateAdvice(ctx context.Context, actor models.Identity, req models.CreateAdviceRequest) (*models.AdviceView, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	post := &models.AdvicePost{
		AuthorID:  actor.UserID,
		Title:     strings.TrimSpace(req.Title),
		Content:   strings.TrimSpace(req.Content),
		Upvotes:   models.UserSet{},
		Downvotes: models.UserSet{},
	}
	if post.Title == "" || post.Content == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrInvalidInput)
	}
	if err := s.advice.CreateAdvice(ctx, post); err != nil {
		return nil, err
	}
	views, err := s.enrich(ctx, actor, []models.AdvicePost{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListAdvice returns the board, newest first
func (s *AdviceService) ListAdvice(ctx context.Context, actor models.Identity) ([]models.AdviceView, error) {
	posts, err := s.advice.GetAllAdvice(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, actor, posts)
}

// GetAdvice loads one advice post as seen by the actor
func (s *AdviceService) GetAdvice(ctx context.Context, actor models.Identity, id string) (*models.AdviceView, error) {
	post, err := s.advice.GetAdviceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.enrich(ctx, actor, []models.AdvicePost{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// DeleteAdvice removes an advice post. Only its author may do so.
func (s *AdviceService) DeleteAdvice(ctx context.Context, actor models.Identity, id string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	post, err := s.advice.GetAdviceByID(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != actor.UserID {
		return fmt.Errorf("%w: advice post belongs to another user", ErrForbidden)
	}
	return s.advice.DeleteAdvice(ctx, id)
}

// ToggleVote casts direction for the actor, or withdraws it when already cast.
// Casting one direction always withdraws the other.
func (s *AdviceService) ToggleVote(ctx context.Context, actor models.Identity, id, direction string) (models.VoteState, error) {
	if err := requireActor(actor); err != nil {
		return models.VoteState{}, err
	}
	if direction != models.VoteUp && direction != models.VoteDown {
		return models.VoteState{}, fmt.Errorf("%w: vote must be %q or %q", ErrInvalidInput, models.VoteUp, models.VoteDown)
	}
	before, err := s.advice.GetAdviceByID(ctx, id)
	if err != nil {
		return models.VoteState{}, err
	}

	var post *models.AdvicePost
	if before.VoteOf(actor.UserID) == direction {
		post, err = s.advice.ClearVote(ctx, id, actor.UserID)
	} else {
		post, err = s.advice.SetVote(ctx, id, actor.UserID, direction)
		if err == nil {
			s.notifications.Notify(ctx, models.Notification{
				Type:        models.NotificationVote,
				ActorID:     actor.UserID,
				RecipientID: post.AuthorID,
				TargetID:    id,
				TargetType:  "advice",
				Message:     direction + "voted your advice post",
			})
		}
	}
	if err != nil {
		return models.VoteState{}, err
	}

	return models.VoteState{
		AdviceID:  id,
		Upvotes:   post.Upvotes.Len(),
		Downvotes: post.Downvotes.Len(),
		Score:     post.Score(),
		MyVote:    post.VoteOf(actor.UserID),
	}, nil
}

func (s *AdviceService) enrich(ctx context.Context, actor models.Identity, posts []models.AdvicePost) ([]models.AdviceView, error) {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.AuthorID
	}
	authors, err := compactUsers(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}
	views := make([]models.AdviceView, len(posts))
	for i := range posts {
		p := posts[i]
		views[i] = models.AdviceView{
			AdvicePost: p,
			Author:     authors[p.AuthorID],
			Score:      p.Score(),
			MyVote:     p.VoteOf(actor.UserID),
		}
	}
	return views, nil
}
