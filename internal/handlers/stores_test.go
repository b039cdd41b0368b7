package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
)

// In-memory stand-ins for the Mongo collections. Set semantics match $addToSet/$pull.

type memPosts struct {
	mu    sync.Mutex
	posts map[string]*models.Post
	order []string
}

func newMemPosts() *memPosts { return &memPosts{posts: map[string]*models.Post{}} }

func (m *memPosts) CreatePost(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now().UTC()
	if post.Likes == nil {
		post.Likes = models.UserSet{}
	}
	cp := *post
	m.posts[post.ID.Hex()] = &cp
	m.order = append([]string{post.ID.Hex()}, m.order...)
	return nil
}

func (m *memPosts) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPosts) list(authorID string, skip, limit int64) []models.Post {
	out := []models.Post{}
	for _, id := range m.order {
		if p, ok := m.posts[id]; ok && (authorID == "" || p.AuthorID == authorID) {
			out = append(out, *p)
		}
	}
	if skip >= int64(len(out)) {
		return []models.Post{}
	}
	if limit > 0 && skip+limit < int64(len(out)) {
		return out[skip : skip+limit]
	}
	return out[skip:]
}

func (m *memPosts) GetPostsByAuthor(_ context.Context, authorID string, skip, limit int64) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(authorID, skip, limit), nil
}

func (m *memPosts) GetAllPosts(_ context.Context, skip, limit int64) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list("", skip, limit), nil
}

func (m *memPosts) CountPosts(_ context.Context, authorID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.list(authorID, 0, 0))), nil
}

func (m *memPosts) DeletePost(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *memPosts) update(id string, fn func(p *models.Post)) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	fn(p)
	cp := *p
	return &cp, nil
}

func (m *memPosts) AddLike(_ context.Context, postID, userID string) (*models.Post, error) {
	return m.update(postID, func(p *models.Post) { p.Likes = p.Likes.Add(userID) })
}

func (m *memPosts) RemoveLike(_ context.Context, postID, userID string) (*models.Post, error) {
	return m.update(postID, func(p *models.Post) { p.Likes = p.Likes.Remove(userID) })
}

func (m *memPosts) IncrementCommentCount(_ context.Context, postID string, delta int) error {
	_, err := m.update(postID, func(p *models.Post) { p.CommentCount += delta })
	return err
}

func (m *memPosts) DeleteAllPosts(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = map[string]*models.Post{}
	m.order = nil
	return nil
}

type memEvents struct {
	mu     sync.Mutex
	events map[string]*models.Event
}

func newMemEvents() *memEvents { return &memEvents{events: map[string]*models.Event{}} }

func (m *memEvents) CreateEvent(_ context.Context, event *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	event.ID = primitive.NewObjectID()
	if event.Attendees == nil {
		event.Attendees = models.UserSet{}
	}
	cp := *event
	m.events[event.ID.Hex()] = &cp
	return nil
}

func (m *memEvents) GetEventByID(_ context.Context, id string) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memEvents) GetEvents(context.Context) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Event{}
	for _, e := range m.events {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *memEvents) UpdateEvent(_ context.Context, event *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.events[event.ID.Hex()]
	if !ok {
		return repositories.ErrNotFound
	}
	cp := *event
	cp.Attendees = cur.Attendees
	m.events[event.ID.Hex()] = &cp
	return nil
}

func (m *memEvents) DeleteEvent(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.events, id)
	return nil
}

func (m *memEvents) update(id string, fn func(e *models.Event)) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	fn(e)
	cp := *e
	return &cp, nil
}

func (m *memEvents) AddAttendee(_ context.Context, eventID, userID string) (*models.Event, error) {
	return m.update(eventID, func(e *models.Event) { e.Attendees = e.Attendees.Add(userID) })
}

func (m *memEvents) RemoveAttendee(_ context.Context, eventID, userID string) (*models.Event, error) {
	return m.update(eventID, func(e *models.Event) { e.Attendees = e.Attendees.Remove(userID) })
}

func (m *memEvents) DeleteAllEvents(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = map[string]*models.Event{}
	return nil
}

type memAdvice struct {
	mu    sync.Mutex
	posts map[string]*models.AdvicePost
}

func newMemAdvice() *memAdvice { return &memAdvice{posts: map[string]*models.AdvicePost{}} }

func (m *memAdvice) CreateAdvice(_ context.Context, advice *models.AdvicePost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	advice.ID = primitive.NewObjectID()
	advice.CreatedAt = time.Now().UTC()
	cp := *advice
	m.posts[advice.ID.Hex()] = &cp
	return nil
}

func (m *memAdvice) GetAdviceByID(_ context.Context, id string) (*models.AdvicePost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAdvice) GetAllAdvice(context.Context) ([]models.AdvicePost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.AdvicePost{}
	for _, a := range m.posts {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memAdvice) DeleteAdvice(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.posts, id)
	return nil
}

func (m *memAdvice) update(id string, fn func(a *models.AdvicePost)) (*models.AdvicePost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	fn(a)
	cp := *a
	return &cp, nil
}

func (m *memAdvice) SetVote(_ context.Context, adviceID, userID, direction string) (*models.AdvicePost, error) {
	return m.update(adviceID, func(a *models.AdvicePost) {
		if direction == models.VoteUp {
			a.Upvotes, a.Downvotes = a.Upvotes.Add(userID), a.Downvotes.Remove(userID)
		} else {
			a.Downvotes, a.Upvotes = a.Downvotes.Add(userID), a.Upvotes.Remove(userID)
		}
	})
}

func (m *memAdvice) ClearVote(_ context.Context, adviceID, userID string) (*models.AdvicePost, error) {
	return m.update(adviceID, func(a *models.AdvicePost) {
		a.Upvotes, a.Downvotes = a.Upvotes.Remove(userID), a.Downvotes.Remove(userID)
	})
}

func (m *memAdvice) IncrementCommentCount(_ context.Context, adviceID string, delta int) error {
	_, err := m.update(adviceID, func(a *models.AdvicePost) { a.CommentCount += delta })
	return err
}

func (m *memAdvice) DeleteAllAdvice(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = map[string]*models.AdvicePost{}
	return nil
}

type memConversations struct {
	mu       sync.Mutex
	convs    map[string]*models.Conversation
	messages []models.Message
}

func newMemConversations() *memConversations {
	return &memConversations{convs: map[string]*models.Conversation{}}
}

func (m *memConversations) EnsureIndexes(context.Context) error { return nil }

func (m *memConversations) FindOrCreateConversation(_ context.Context, a, b string) (*models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := models.ConversationKey(a, b)
	for _, c := range m.convs {
		if c.Key == key {
			cp := *c
			return &cp, nil
		}
	}
	c := &models.Conversation{ID: primitive.NewObjectID(), Key: key, Participants: models.UserSet{a}.Add(b), CreatedAt: time.Now().UTC()}
	m.convs[c.ID.Hex()] = c
	cp := *c
	return &cp, nil
}

func (m *memConversations) GetConversationByID(_ context.Context, id string) (*models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.convs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memConversations) GetConversationsForUser(_ context.Context, userID string) ([]models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Conversation{}
	for _, c := range m.convs {
		if c.Participants.Contains(userID) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memConversations) UpdateLastMessage(_ context.Context, id primitive.ObjectID, text string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.convs[id.Hex()]
	if !ok {
		return repositories.ErrNotFound
	}
	c.LastMessage, c.LastMessageAt = text, at
	return nil
}

func (m *memConversations) CreateMessage(_ context.Context, msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = primitive.NewObjectID()
	msg.CreatedAt = time.Now().UTC()
	msg.ReadBy = msg.ReadBy.Add(msg.SenderID)
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memConversations) GetMessages(_ context.Context, id primitive.ObjectID, _ int64) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Message{}
	for _, msg := range m.messages {
		if msg.ConversationID == id {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memConversations) MarkRead(_ context.Context, id primitive.ObjectID, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.messages {
		if m.messages[i].ConversationID == id && !m.messages[i].ReadBy.Contains(userID) {
			m.messages[i].ReadBy = m.messages[i].ReadBy.Add(userID)
			n++
		}
	}
	return n, nil
}

func (m *memConversations) CountUnread(_ context.Context, id primitive.ObjectID, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, msg := range m.messages {
		if msg.ConversationID == id && !msg.ReadBy.Contains(userID) {
			n++
		}
	}
	return n, nil
}
