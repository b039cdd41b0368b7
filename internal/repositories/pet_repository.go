package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/anonto42/petconnect/backend/internal/models"
)

// PetRepository defines the interface for pet data operations
type PetRepository interface {
	CreatePet(ctx context.Context, pet *models.Pet) error
	GetPetByID(ctx context.Context, id string) (*models.Pet, error)
	GetPetsByOwner(ctx context.Context, ownerID string) ([]models.Pet, error)
	UpdatePet(ctx context.Context, pet *models.Pet) error
	DeletePet(ctx context.Context, id string) error
	DeletePetsByOwner(ctx context.Context, ownerID string) error
}

// PostgresPetRepository implements PetRepository for PostgreSQL
type PostgresPetRepository struct {
	db *gorm.DB
}

// NewPostgresPetRepository creates a new PostgresPetRepository
func NewPostgresPetRepository(db *gorm.DB) *PostgresPetRepository {
	return &PostgresPetRepository{db: db}
}

// CreatePet inserts a pet row
func (r *PostgresPetRepository) CreatePet(ctx context.Context, pet *models.Pet) error {
	return r.db.WithContext(ctx).Create(pet).Error
}

// GetPetByID retrieves a pet by id
func (r *PostgresPetRepository) GetPetByID(ctx context.Context, id string) (*models.Pet, error) {
	var pet models.Pet
	if err := r.db.WithContext(ctx).First(&pet, "id = ?", id).Error; err != nil {
		return nil, translateGorm(err)
	}
	return &pet, nil
}

// GetPetsByOwner lists an owner's pets, oldest first
func (r *PostgresPetRepository) GetPetsByOwner(ctx context.Context, ownerID string) ([]models.Pet, error) {
	var pets []models.Pet
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at ASC").Find(&pets).Error; err != nil {
		return nil, err
	}
	return pets, nil
}

// UpdatePet saves every column of pet
func (r *PostgresPetRepository) UpdatePet(ctx context.Context, pet *models.Pet) error {
	return r.db.WithContext(ctx).Save(pet).Error
}

// DeletePet deletes a pet by id
func (r *PostgresPetRepository) DeletePet(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Pet{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePetsByOwner removes all of an owner's pets
func (r *PostgresPetRepository) DeletePetsByOwner(ctx context.Context, ownerID string) error {
	return r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&models.Pet{}).Error
}
