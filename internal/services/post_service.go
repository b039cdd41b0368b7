package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
)

// PostService runs the feed, posts and likes
type PostService struct {
	posts         repositories.PostRepository
	users         repositories.UserRepository
	notifications *NotificationService
}

// NewPostService creates a PostService
func NewPostService(posts repositories.PostRepository, users repositories.UserRepository, notifications *NotificationService) *PostService {
	return &PostService{posts: posts, users: users, notifications: notifications}
}

// CreatePost publishes a post by the actor
func (s *PostService) CreatePost(ctx context.Context, actor models.Identity, req models.CreatePostRequest) (*models.PostView, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	post := &models.Post{
		AuthorID: actor.UserID,
		Content:  content,
		ImageURL: req.ImageURL,
		Likes:    models.UserSet{},
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	views, err := s.enrich(ctx, actor, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// GetPost loads one post as seen by the actor
func (s *PostService) GetPost(ctx context.Context, actor models.Identity, id string) (*models.PostView, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.enrich(ctx, actor, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// DeletePost removes a post. Only its author may do so.
func (s *PostService) DeletePost(ctx context.Context, actor models.Identity, id string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != actor.UserID {
		return fmt.Errorf("%w: post belongs to another user", ErrForbidden)
	}
	return s.posts.DeletePost(ctx, id)
}

// Feed returns a page of all posts, newest first
func (s *PostService) Feed(ctx context.Context, actor models.Identity, page, limit int) (*models.FeedPage, error) {
	return s.page(ctx, actor, "", page, limit)
}

// PostsByAuthor returns a page of one member's posts, newest first
func (s *PostService) PostsByAuthor(ctx context.Context, actor models.Identity, authorID string, page, limit int) (*models.FeedPage, error) {
	return s.page(ctx, actor, authorID, page, limit)
}

func (s *PostService) page(ctx context.Context, actor models.Identity, authorID string, page, limit int) (*models.FeedPage, error) {
	page, limit = normalizePage(page, limit)
	skip := int64((page - 1) * limit)

	var (
		posts []models.Post
		err   error
	)
	if authorID == "" {
		posts, err = s.posts.GetAllPosts(ctx, skip, int64(limit))
	} else {
		posts, err = s.posts.GetPostsByAuthor(ctx, authorID, skip, int64(limit))
	}
	if err != nil {
		return nil, err
	}
	total, err := s.posts.CountPosts(ctx, authorID)
	if err != nil {
		return nil, err
	}
	views, err := s.enrich(ctx, actor, posts)
	if err != nil {
		return nil, err
	}
	return &models.FeedPage{Posts: views, Meta: models.NewPageMeta(page, limit, total)}, nil
}

func (s *PostService) enrich(ctx context.Context, actor models.Identity, posts []models.Post) ([]models.PostView, error) {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.AuthorID
	}
	authors, err := compactUsers(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}
	views := make([]models.PostView, len(posts))
	for i, p := range posts {
		views[i] = models.PostView{
			Post:       p,
			Author:     authors[p.AuthorID],
			LikesCount: p.Likes.Len(),
			IsLiked:    !actor.IsZero() && p.Likes.Contains(actor.UserID),
		}
	}
	return views, nil
}

// Like adds the actor to the post's likes. Repeating it changes nothing.
func (s *PostService) Like(ctx context.Context, actor models.Identity, postID string) (models.LikeState, error) {
	return s.setLike(ctx, actor, postID, true)
}

// Unlike removes the actor from the post's likes
func (s *PostService) Unlike(ctx context.Context, actor models.Identity, postID string) (models.LikeState, error) {
	return s.setLike(ctx, actor, postID, false)
}

// ToggleLike flips the actor's like
func (s *PostService) ToggleLike(ctx context.Context, actor models.Identity, postID string) (models.LikeState, error) {
	if err := requireActor(actor); err != nil {
		return models.LikeState{}, err
	}
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return models.LikeState{}, err
	}
	return s.setLike(ctx, actor, postID, !post.Likes.Contains(actor.UserID))
}

func (s *PostService) setLike(ctx context.Context, actor models.Identity, postID string, like bool) (models.LikeState, error) {
	if err := requireActor(actor); err != nil {
		return models.LikeState{}, err
	}
	before, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return models.LikeState{}, err
	}

	var post *models.Post
	if like {
		post, err = s.posts.AddLike(ctx, postID, actor.UserID)
	} else {
		post, err = s.posts.RemoveLike(ctx, postID, actor.UserID)
	}
	if err != nil {
		return models.LikeState{}, err
	}

	if like && !before.Likes.Contains(actor.UserID) {
		s.notifications.Notify(ctx, models.Notification{
			Type:        models.NotificationLike,
			ActorID:     actor.UserID,
			RecipientID: post.AuthorID,
			TargetID:    postID,
			TargetType:  "post",
			Message:     "liked your post",
		})
	}
	return models.LikeState{
		PostID:     postID,
		Liked:      post.Likes.Contains(actor.UserID),
		LikesCount: post.Likes.Len(),
	}, nil
}
