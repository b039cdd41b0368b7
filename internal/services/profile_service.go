package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
)

const searchLimit = 20

// ProfileService manages member profiles, onboarding and discovery
type ProfileService struct {
	users  repositories.UserRepository
	pets   repositories.PetRepository
	logger *zap.Logger
}

// NewProfileService creates a ProfileService
func NewProfileService(users repositories.UserRepository, pets repositories.PetRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{users: users, pets: pets, logger: logger}
}

// GetProfile loads a profile by id
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return s.users.GetUserByID(ctx, userID)
}

// UpdateProfile applies the non-nil fields of req to the actor's own profile
func (s *ProfileService) UpdateProfile(ctx context.Context, actor models.Identity, req models.UpdateProfileRequest) (*models.UserProfile, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	user, err := s.users.GetUserByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	if req.UserName != nil {
		user.UserName = strings.TrimSpace(*req.UserName)
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = *req.ProfilePicture
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.City != nil {
		user.City = *req.City
	}
	if req.State != nil {
		user.State = *req.State
	}
	if req.Country != nil {
		user.Country = *req.Country
	}
	if req.Discoverable != nil {
		user.Discoverable = *req.Discoverable
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Search finds discoverable members by name and pet breed
func (s *ProfileService) Search(ctx context.Context, query, breed string) ([]models.UserSearchResult, error) {
	users, err := s.users.SearchUsers(ctx, query, breed, searchLimit)
	if err != nil {
		return nil, err
	}
	results := make([]models.UserSearchResult, 0, len(users))
	for i := range users {
		pets, err := s.pets.GetPetsByOwner(ctx, users[i].ID)
		if err != nil {
			return nil, err
		}
		if pets == nil {
			pets = []models.Pet{}
		}
		results = append(results, models.UserSearchResult{
			UserCompact: users[i].ToCompact(),
			Bio:         users[i].Bio,
			City:        users[i].City,
			Pets:        pets,
		})
	}
	return results, nil
}

// CompleteOnboarding sets the profile basics and registers the listed pets in one
// transaction. Pet rows missing a name, breed or age are skipped.
func (s *ProfileService) CompleteOnboarding(ctx context.Context, actor models.Identity, req models.OnboardingRequest) (*models.UserProfile, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	userName := strings.TrimSpace(req.UserName)
	if len(userName) < 3 {
		return nil, fmt.Errorf("%w: userName must be at least 3 characters", ErrInvalidInput)
	}

	pets := make([]models.Pet, 0, len(req.Pets))
	for _, item := range req.Pets {
		name, breed, age := strings.TrimSpace(item.Name), strings.TrimSpace(item.Breed), strings.TrimSpace(item.Age)
		if name == "" || breed == "" || age == "" {
			continue
		}
		pets = append(pets, models.Pet{
			ID:      uuid.NewString(),
			OwnerID: actor.UserID,
			Name:    name,
			Breed:   breed,
			Age:     age,
			Bio:     item.Bio,
		})
	}

	user, err := s.users.CompleteOnboarding(ctx, actor.UserID, userName, req.Bio, pets)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Onboarding completed", zap.String("user_id", actor.UserID), zap.Int("pets", len(pets)))
	return user, nil
}
