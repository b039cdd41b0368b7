package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/anonto42/petconnect/backend/internal/models"
)

const maxVersionRetries = 5

// UserRepository defines the interface for user profile operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.UserProfile) error
	GetUserByID(ctx context.Context, id string) (*models.UserProfile, error)
	GetUserByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]models.UserProfile, error)
	UpdateProfile(ctx context.Context, user *models.UserProfile) error
	SearchUsers(ctx context.Context, query, breed string, limit int) ([]models.UserProfile, error)
	AddPetID(ctx context.Context, userID, petID string) error
	RemovePetID(ctx context.Context, userID, petID string) error
	ReplacePetIDs(ctx context.Context, userID string, petIDs []string) error
	CompleteOnboarding(ctx context.Context, userID, userName, bio string, pets []models.Pet) (*models.UserProfile, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user profile
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.UserProfile) error {
	if user.PetIDs == nil {
		user.PetIDs = models.UserSet{}
	}
	return r.db.WithContext(ctx).Create(user).Error
}

// GetUserByID retrieves a user by id (Firebase UID or generated uuid)
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id string) (*models.UserProfile, error) {
	var user models.UserProfile
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateGorm(err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email. Accounts without an email are never matched.
func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrNotFound
	}
	var user models.UserProfile
	if err := r.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, translateGorm(err)
	}
	return &user, nil
}

// GetUsersByIDs loads many users at once, keyed by id. Unknown ids are absent from the map.
func (r *PostgresUserRepository) GetUsersByIDs(ctx context.Context, ids []string) (map[string]models.UserProfile, error) {
	out := make(map[string]models.UserProfile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.UserProfile
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// UpdateProfile saves the editable profile columns. petIds and version are left alone.
func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, user *models.UserProfile) error {
	res := r.db.WithContext(ctx).Model(user).
		Select("user_name", "first_name", "last_name", "bio", "profile_picture", "city", "state", "country", "discoverable", "updated_at").
		Updates(user)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchUsers finds discoverable users by name and, optionally, by the breed of one of their pets
func (r *PostgresUserRepository) SearchUsers(ctx context.Context, query, breed string, limit int) ([]models.UserProfile, error) {
	var users []models.UserProfile
	tx := r.db.WithContext(ctx).Where("discoverable = ?", true)

	if q := strings.TrimSpace(query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(user_name) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like, like)
	}
	if b := strings.TrimSpace(breed); b != "" {
		owners := r.db.Model(&models.Pet{}).Select("owner_id").Where("LOWER(breed) LIKE ?", "%"+strings.ToLower(b)+"%")
		tx = tx.Where("id IN (?)", owners)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Order("user_name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// AddPetID adds petID to the owner's petIds set
func (r *PostgresUserRepository) AddPetID(ctx context.Context, userID, petID string) error {
	return r.mutatePetIDs(ctx, userID, func(s models.UserSet) models.UserSet { return s.Add(petID) })
}

// RemovePetID removes petID from the owner's petIds set
func (r *PostgresUserRepository) RemovePetID(ctx context.Context, userID, petID string) error {
	return r.mutatePetIDs(ctx, userID, func(s models.UserSet) models.UserSet { return s.Remove(petID) })
}

// ReplacePetIDs overwrites the petIds set
func (r *PostgresUserRepository) ReplacePetIDs(ctx context.Context, userID string, petIDs []string) error {
	return r.mutatePetIDs(ctx, userID, func(models.UserSet) models.UserSet {
		next := models.UserSet{}
		for _, id := range petIDs {
			next = next.Add(id)
		}
		return next
	})
}

// mutatePetIDs applies mutate under optimistic concurrency: the write only lands
// if the row version is unchanged since it was read. A mutation that leaves the
// membership as it was writes nothing.
func (r *PostgresUserRepository) mutatePetIDs(ctx context.Context, userID string, mutate func(models.UserSet) models.UserSet) error {
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		var user models.UserProfile
		if err := r.db.WithContext(ctx).Select("id", "pet_ids", "version").First(&user, "id = ?", userID).Error; err != nil {
			return translateGorm(err)
		}
		next := mutate(user.PetIDs)
		if next.SameMembers(user.PetIDs) {
			return nil
		}

		res := r.db.WithContext(ctx).Model(&models.UserProfile{}).
			Where("id = ? AND version = ?", userID, user.Version).
			Updates(map[string]interface{}{
				"pet_ids": next,
				"version": user.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			return nil
		}
	}
	return ErrConflict
}

// CompleteOnboarding creates the pets and finishes the profile in one transaction
func (r *PostgresUserRepository) CompleteOnboarding(ctx context.Context, userID, userName, bio string, pets []models.Pet) (*models.UserProfile, error) {
	var user models.UserProfile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return translateGorm(err)
		}

		petIDs := user.PetIDs
		for i := range pets {
			pets[i].OwnerID = userID
			if err := tx.Create(&pets[i]).Error; err != nil {
				return err
			}
			petIDs = petIDs.Add(pets[i].ID)
		}

		res := tx.Model(&models.UserProfile{}).
			Where("id = ? AND version = ?", userID, user.Version).
			Updates(map[string]interface{}{
				"user_name":            userName,
				"bio":                  bio,
				"onboarding_completed": true,
				"pet_ids":              petIDs,
				"version":              user.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}

		user.UserName = userName
		user.Bio = bio
		user.OnboardingCompleted = true
		user.PetIDs = petIDs
		user.Version++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
