package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
)

const avatarURL = "https://i.pravatar.cc/150?u="

// Report counts what a seed run wrote
type Report struct {
	Users   int
	Skipped int
	Pets    int
	Posts   int
	Advice  int
	Events  int
}

// Seeder writes fixture data through the repositories
type Seeder struct {
	users      repositories.UserRepository
	pets       repositories.PetRepository
	posts      repositories.PostRepository
	advice     repositories.AdviceRepository
	events     repositories.EventRepository
	identities IdentityResolver
	logger     *zap.Logger
	now        func() time.Time
}

// NewSeeder creates a new Seeder
func NewSeeder(
	users repositories.UserRepository,
	pets repositories.PetRepository,
	posts repositories.PostRepository,
	advice repositories.AdviceRepository,
	events repositories.EventRepository,
	identities IdentityResolver,
	logger *zap.Logger,
) *Seeder {
	return &Seeder{
		users:      users,
		pets:       pets,
		posts:      posts,
		advice:     advice,
		events:     events,
		identities: identities,
		logger:     logger,
		now:        time.Now,
	}
}

// Run seeds fx. With clear set, existing posts, advice and events are removed
// and every resolved user's pets are replaced.
func (s *Seeder) Run(ctx context.Context, fx *Fixtures, clear bool) (Report, error) {
	var report Report

	if clear {
		if err := s.posts.DeleteAllPosts(ctx); err != nil {
			return report, fmt.Errorf("clear posts: %w", err)
		}
		if err := s.advice.DeleteAllAdvice(ctx); err != nil {
			return report, fmt.Errorf("clear advice: %w", err)
		}
		if err := s.events.DeleteAllEvents(ctx); err != nil {
			return report, fmt.Errorf("clear events: %w", err)
		}
		s.logger.Info("Cleared posts, advice and events")
	}

	byEmail := make(map[string]string, len(fx.Users))
	for _, u := range fx.Users {
		id, pets, err := s.seedUser(ctx, u, clear)
		if errors.Is(err, ErrSkipUser) {
			s.logger.Warn("Skipping fixture user", zap.String("email", u.Email))
			report.Skipped++
			continue
		}
		if err != nil {
			return report, err
		}
		byEmail[strings.ToLower(u.Email)] = id
		report.Users++
		report.Pets += pets
	}

	for _, p := range fx.Posts {
		authorID, ok := byEmail[strings.ToLower(p.Author)]
		if !ok {
			continue
		}
		post := &models.Post{AuthorID: authorID, Content: p.Content, ImageURL: p.ImageURL}
		if err := s.posts.CreatePost(ctx, post); err != nil {
			return report, fmt.Errorf("create post: %w", err)
		}
		report.Posts++
	}

	for _, a := range fx.Advice {
		authorID, ok := byEmail[strings.ToLower(a.Author)]
		if !ok {
			continue
		}
		advice := &models.AdvicePost{AuthorID: authorID, Title: a.Title, Content: a.Content}
		if err := s.advice.CreateAdvice(ctx, advice); err != nil {
			return report, fmt.Errorf("create advice: %w", err)
		}
		report.Advice++
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	for _, e := range fx.Events {
		organizerID, ok := byEmail[strings.ToLower(e.Organizer)]
		if !ok {
			continue
		}
		event := &models.Event{
			AuthorID:    organizerID,
			Title:       e.Title,
			Description: e.Description,
			Date:        today.AddDate(0, 0, e.InDays).Add(10 * time.Hour),
			Location:    e.Location,
			PetType:     e.PetType,
		}
		if err := s.events.CreateEvent(ctx, event); err != nil {
			return report, fmt.Errorf("create event: %w", err)
		}
		report.Events++
	}

	s.logger.Info("Seed finished",
		zap.Int("users", report.Users),
		zap.Int("skipped", report.Skipped),
		zap.Int("pets", report.Pets),
		zap.Int("posts", report.Posts),
		zap.Int("advice", report.Advice),
		zap.Int("events", report.Events),
	)
	return report, nil
}

// seedUser resolves the account, writes the profile and its pets
func (s *Seeder) seedUser(ctx context.Context, u UserFixture, clear bool) (string, int, error) {
	resolved, err := s.identities.Resolve(ctx, u)
	if err != nil {
		return "", 0, err
	}
	log := s.logger.With(zap.String("email", u.Email), zap.String("id", resolved.ID))

	profile := &models.UserProfile{
		ID:                  resolved.ID,
		Email:               u.Email,
		PasswordHash:        resolved.PasswordHash,
		UserName:            u.UserName,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		Bio:                 u.Bio,
		ProfilePicture:      avatarURL + u.Email,
		City:                u.City,
		State:               u.State,
		Country:             u.Country,
		Discoverable:        u.Discoverable,
		OnboardingCompleted: true,
	}

	existing, err := s.users.GetUserByID(ctx, resolved.ID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		if err := s.users.CreateUser(ctx, profile); err != nil {
			return "", 0, fmt.Errorf("create profile %s: %w", u.Email, err)
		}
		log.Info("Created profile")
	case err != nil:
		return "", 0, fmt.Errorf("load profile %s: %w", u.Email, err)
	default:
		if err := s.users.UpdateProfile(ctx, profile); err != nil {
			return "", 0, fmt.Errorf("update profile %s: %w", u.Email, err)
		}
		if !clear && len(existing.PetIDs) > 0 {
			log.Info("Profile updated, pets kept")
			return resolved.ID, 0, nil
		}
		log.Info("Updated profile")
	}

	if err := s.pets.DeletePetsByOwner(ctx, resolved.ID); err != nil {
		return "", 0, fmt.Errorf("clear pets %s: %w", u.Email, err)
	}
	petIDs := make([]string, 0, len(u.Pets))
	for _, p := range u.Pets {
		pet := &models.Pet{
			ID:       uuid.NewString(),
			OwnerID:  resolved.ID,
			Name:     p.Name,
			Breed:    p.Breed,
			Age:      p.Age,
			Bio:      p.Bio,
			ImageURL: p.ImageURL,
		}
		if err := s.pets.CreatePet(ctx, pet); err != nil {
			return "", 0, fmt.Errorf("create pet %s: %w", p.Name, err)
		}
		petIDs = append(petIDs, pet.ID)
	}
	if err := s.users.ReplacePetIDs(ctx, resolved.ID, petIDs); err != nil {
		return "", 0, fmt.Errorf("link pets %s: %w", u.Email, err)
	}
	return resolved.ID, len(petIDs), nil
}
