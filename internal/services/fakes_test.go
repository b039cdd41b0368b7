package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anonto42/petconnect/backend/internal/models"
)

type fakeUsers struct {
	mu         sync.Mutex
	byID       map[string]*models.UserProfile
	failAddPet error
}

func newFakeUsers(users ...models.UserProfile) *fakeUsers {
	f := &fakeUsers{byID: map[string]*models.UserProfile{}}
	for i := range users {
		u := users[i]
		f.byID[u.ID] = &u
	}
	return f
}

func (f *fakeUsers) CreateUser(_ context.Context, user *models.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[user.ID]; ok {
		return errors.New("duplicate key")
	}
	cp := *user
	f.byID[user.ID] = &cp
	return nil
}

func (f *fakeUsers) GetUserByID(_ context.Context, id string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeUsers) GetUsersByIDs(_ context.Context, ids []string) (map[string]models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]models.UserProfile{}
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out[id] = *u
		}
	}
	return out, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, user *models.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.byID[user.ID]
	if !ok {
		return ErrNotFound
	}
	cp := *user
	cp.PetIDs = cur.PetIDs
	cp.Version = cur.Version
	f.byID[user.ID] = &cp
	return nil
}

func (f *fakeUsers) SearchUsers(_ context.Context, query, _ string, _ int) ([]models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.UserProfile
	for _, u := range f.byID {
		if u.Discoverable && strings.Contains(strings.ToLower(u.UserName), strings.ToLower(query)) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserName < out[j].UserName })
	return out, nil
}

func (f *fakeUsers) mutate(userID string, fn func(models.UserSet) models.UserSet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return ErrNotFound
	}
	u.PetIDs = fn(u.PetIDs)
	u.Version++
	return nil
}

func (f *fakeUsers) AddPetID(_ context.Context, userID, petID string) error {
	if f.failAddPet != nil {
		return f.failAddPet
	}
	return f.mutate(userID, func(s models.UserSet) models.UserSet { return s.Add(petID) })
}

func (f *fakeUsers) RemovePetID(_ context.Context, userID, petID string) error {
	return f.mutate(userID, func(s models.UserSet) models.UserSet { return s.Remove(petID) })
}

func (f *fakeUsers) ReplacePetIDs(_ context.Context, userID string, petIDs []string) error {
	return f.mutate(userID, func(models.UserSet) models.UserSet { return models.UserSet(petIDs) })
}

func (f *fakeUsers) CompleteOnboarding(_ context.Context, userID, userName, bio string, pets []models.Pet) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return nil, ErrNotFound
	}
	u.UserName = userName
	u.Bio = bio
	u.OnboardingCompleted = true
	for _, p := range pets {
		u.PetIDs = u.PetIDs.Add(p.ID)
	}
	cp := *u
	return &cp, nil
}

type fakePets struct {
	mu   sync.Mutex
	byID map[string]models.Pet
}

func newFakePets() *fakePets { return &fakePets{byID: map[string]models.Pet{}} }

func (f *fakePets) CreatePet(_ context.Context, pet *models.Pet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[pet.ID] = *pet
	return nil
}

func (f *fakePets) GetPetByID(_ context.Context, id string) (*models.Pet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (f *fakePets) GetPetsByOwner(_ context.Context, ownerID string) ([]models.Pet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Pet
	for _, p := range f.byID {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePets) UpdatePet(_ context.Context, pet *models.Pet) error {
	return f.CreatePet(context.Background(), pet)
}

func (f *fakePets) DeletePet(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakePets) DeletePetsByOwner(_ context.Context, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, p := range f.byID {
		if p.OwnerID == ownerID {
			delete(f.byID, id)
		}
	}
	return nil
}

type fakePosts struct {
	mu    sync.Mutex
	posts map[string]*models.Post
	order []string
}

func newFakePosts() *fakePosts { return &fakePosts{posts: map[string]*models.Post{}} }

func (f *fakePosts) CreatePost(_ context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post.ID = primitive.NewObjectID()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	cp := *post
	f.posts[post.ID.Hex()] = &cp
	f.order = append([]string{post.ID.Hex()}, f.order...)
	return nil
}

func (f *fakePosts) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePosts) list(authorID string) []models.Post {
	var out []models.Post
	for _, id := range f.order {
		if p, ok := f.posts[id]; ok && (authorID == "" || p.AuthorID == authorID) {
			out = append(out, *p)
		}
	}
	return out
}

func window(posts []models.Post, skip, limit int64) []models.Post {
	if skip >= int64(len(posts)) {
		return []models.Post{}
	}
	end := skip + limit
	if end > int64(len(posts)) {
		end = int64(len(posts))
	}
	return posts[skip:end]
}

func (f *fakePosts) GetPostsByAuthor(_ context.Context, authorID string, skip, limit int64) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return window(f.list(authorID), skip, limit), nil
}

func (f *fakePosts) GetAllPosts(_ context.Context, skip, limit int64) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return window(f.list(""), skip, limit), nil
}

func (f *fakePosts) CountPosts(_ context.Context, authorID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.list(authorID))), nil
}

func (f *fakePosts) DeletePost(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return ErrNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePosts) update(id string, fn func(p *models.Post)) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	fn(p)
	cp := *p
	return &cp, nil
}

func (f *fakePosts) AddLike(_ context.Context, postID, userID string) (*models.Post, error) {
	return f.update(postID, func(p *models.Post) { p.Likes = p.Likes.Add(userID) })
}

func (f *fakePosts) RemoveLike(_ context.Context, postID, userID string) (*models.Post, error) {
	return f.update(postID, func(p *models.Post) { p.Likes = p.Likes.Remove(userID) })
}

func (f *fakePosts) IncrementCommentCount(_ context.Context, postID string, delta int) error {
	_, err := f.update(postID, func(p *models.Post) { p.CommentCount += delta })
	return err
}

func (f *fakePosts) DeleteAllPosts(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = map[string]*models.Post{}
	f.order = nil
	return nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events map[string]*models.Event
}

func newFakeEvents() *fakeEvents { return &fakeEvents{events: map[string]*models.Event{}} }

func (f *fakeEvents) CreateEvent(_ context.Context, event *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	event.ID = primitive.NewObjectID()
	cp := *event
	f.events[event.ID.Hex()] = &cp
	return nil
}

func (f *fakeEvents) GetEventByID(_ context.Context, id string) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEvents) GetEvents(_ context.Context) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Event{}
	for _, e := range f.events {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeEvents) UpdateEvent(_ context.Context, event *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.events[event.ID.Hex()]
	if !ok {
		return ErrNotFound
	}
	attendees := cur.Attendees
	cp := *event
	cp.Attendees = attendees
	f.events[event.ID.Hex()] = &cp
	return nil
}

func (f *fakeEvents) DeleteEvent(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.events, id)
	return nil
}

func (f *fakeEvents) update(id string, fn func(e *models.Event)) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	fn(e)
	cp := *e
	return &cp, nil
}

func (f *fakeEvents) AddAttendee(_ context.Context, eventID, userID string) (*models.Event, error) {
	return f.update(eventID, func(e *models.Event) { e.Attendees = e.Attendees.Add(userID) })
}

func (f *fakeEvents) RemoveAttendee(_ context.Context, eventID, userID string) (*models.Event, error) {
	return f.update(eventID, func(e *models.Event) { e.Attendees = e.Attendees.Remove(userID) })
}

func (f *fakeEvents) DeleteAllEvents(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = map[string]*models.Event{}
	return nil
}

type fakeAdvice struct {
	mu    sync.Mutex
	posts map[string]*models.AdvicePost
}

func newFakeAdvice() *fakeAdvice { return &fakeAdvice{posts: map[string]*models.AdvicePost{}} }

func (f *fakeAdvice) CreateAdvice(_ context.Context, advice *models.AdvicePost) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	advice.ID = primitive.NewObjectID()
	cp := *advice
	f.posts[advice.ID.Hex()] = &cp
	return nil
}

func (f *fakeAdvice) GetAdviceByID(_ context.Context, id string) (*models.AdvicePost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAdvice) GetAllAdvice(_ context.Context) ([]models.AdvicePost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.AdvicePost{}
	for _, a := range f.posts {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAdvice) DeleteAdvice(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.posts, id)
	return nil
}

func (f *fakeAdvice) update(id string, fn func(a *models.AdvicePost)) (*models.AdvicePost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	fn(a)
	cp := *a
	return &cp, nil
}

func (f *fakeAdvice) SetVote(_ context.Context, adviceID, userID, direction string) (*models.AdvicePost, error) {
	return f.update(adviceID, func(a *models.AdvicePost) {
		if direction == models.VoteUp {
			a.Upvotes = a.Upvotes.Add(userID)
			a.Downvotes = a.Downvotes.Remove(userID)
		} else {
			a.Downvotes = a.Downvotes.Add(userID)
			a.Upvotes = a.Upvotes.Remove(userID)
		}
	})
}

func (f *fakeAdvice) ClearVote(_ context.Context, adviceID, userID string) (*models.AdvicePost, error) {
	return f.update(adviceID, func(a *models.AdvicePost) {
		a.Upvotes = a.Upvotes.Remove(userID)
		a.Downvotes = a.Downvotes.Remove(userID)
	})
}

func (f *fakeAdvice) IncrementCommentCount(_ context.Context, adviceID string, delta int) error {
	_, err := f.update(adviceID, func(a *models.AdvicePost) { a.CommentCount += delta })
	return err
}

func (f *fakeAdvice) DeleteAllAdvice(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = map[string]*models.AdvicePost{}
	return nil
}

type fakeReminders struct {
	mu     sync.Mutex
	nextID uint
	items  map[uint]models.Reminder
}

func newFakeReminders() *fakeReminders { return &fakeReminders{items: map[uint]models.Reminder{}} }

func (f *fakeReminders) CreateReminder(_ context.Context, r *models.Reminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	r.ID = f.nextID
	f.items[r.ID] = *r
	return nil
}

func (f *fakeReminders) GetReminderByID(_ context.Context, id uint) (*models.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (f *fakeReminders) GetRemindersByUser(_ context.Context, userID string) ([]models.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reminder
	for _, r := range f.items {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateTime.Before(out[j].DateTime) })
	return out, nil
}

func (f *fakeReminders) SetCompleted(_ context.Context, id uint, completed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.items[id]
	if !ok {
		return ErrNotFound
	}
	r.Completed = completed
	f.items[id] = r
	return nil
}

func (f *fakeReminders) DeleteReminder(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeComments struct {
	mu     sync.Mutex
	nextID uint
	items  map[uint]models.Comment
}

func newFakeComments() *fakeComments { return &fakeComments{items: map[uint]models.Comment{}} }

func (f *fakeComments) CreateComment(_ context.Context, c *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c.ID = f.nextID
	f.items[c.ID] = *c
	return nil
}

func (f *fakeComments) GetCommentByID(_ context.Context, id uint) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (f *fakeComments) GetCommentsByTarget(_ context.Context, targetType, targetID string) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Comment
	for _, c := range f.items {
		if c.TargetType == targetType && c.TargetID == targetID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeComments) DeleteComment(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

type fakeNotifications struct {
	mu     sync.Mutex
	nextID uint
	items  []models.Notification
}

func (f *fakeNotifications) CreateNotification(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	n.ID = f.nextID
	f.items = append(f.items, *n)
	return nil
}

func (f *fakeNotifications) GetNotificationByID(_ context.Context, id uint) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.items {
		if n.ID == id {
			return &n, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeNotifications) GetByRecipientID(_ context.Context, recipientID string, page, limit int) ([]models.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.items {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotifications) GetUnreadCount(_ context.Context, recipientID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, item := range f.items {
		if item.RecipientID == recipientID && !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotifications) MarkAsRead(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].IsRead = true
		}
	}
	return nil
}

func (f *fakeNotifications) MarkAllAsRead(_ context.Context, recipientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].RecipientID == recipientID {
			f.items[i].IsRead = true
		}
	}
	return nil
}

func (f *fakeNotifications) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

type fakeConversations struct {
	mu       sync.Mutex
	convs    map[string]*models.Conversation
	messages []models.Message
}

func newFakeConversations() *fakeConversations {
	return &fakeConversations{convs: map[string]*models.Conversation{}}
}

func (f *fakeConversations) EnsureIndexes(context.Context) error { return nil }

func (f *fakeConversations) FindOrCreateConversation(_ context.Context, a, b string) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := models.ConversationKey(a, b)
	for _, c := range f.convs {
		if c.Key == key {
			cp := *c
			return &cp, nil
		}
	}
	c := &models.Conversation{ID: primitive.NewObjectID(), Key: key, Participants: models.UserSet{a}.Add(b), CreatedAt: time.Now()}
	f.convs[c.ID.Hex()] = c
	cp := *c
	return &cp, nil
}

func (f *fakeConversations) GetConversationByID(_ context.Context, id string) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.convs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeConversations) GetConversationsForUser(_ context.Context, userID string) ([]models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Conversation{}
	for _, c := range f.convs {
		if c.Participants.Contains(userID) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeConversations) UpdateLastMessage(_ context.Context, id primitive.ObjectID, text string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.convs[id.Hex()]
	if !ok {
		return ErrNotFound
	}
	c.LastMessage = text
	c.LastMessageAt = at
	return nil
}

func (f *fakeConversations) CreateMessage(_ context.Context, m *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now()
	m.ReadBy = m.ReadBy.Add(m.SenderID)
	f.messages = append(f.messages, *m)
	return nil
}

func (f *fakeConversations) GetMessages(_ context.Context, id primitive.ObjectID, _ int64) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Message{}
	for _, m := range f.messages {
		if m.ConversationID == id {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeConversations) MarkRead(_ context.Context, id primitive.ObjectID, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for i := range f.messages {
		if f.messages[i].ConversationID == id && !f.messages[i].ReadBy.Contains(userID) {
			f.messages[i].ReadBy = f.messages[i].ReadBy.Add(userID)
			n++
		}
	}
	return n, nil
}

func (f *fakeConversations) CountUnread(_ context.Context, id primitive.ObjectID, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, m := range f.messages {
		if m.ConversationID == id && !m.ReadBy.Contains(userID) {
			n++
		}
	}
	return n, nil
}
