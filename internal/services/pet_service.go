package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anonto42/petconnect/backend/internal/async"
	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
)

const rollbackTimeout = 5 * time.Second

// PetService manages pets and keeps the owner's petIds in step
type PetService struct {
	pets   repositories.PetRepository
	users  repositories.UserRepository
	writer *async.Writer
	logger *zap.Logger
}

// NewPetService creates a PetService
func NewPetService(pets repositories.PetRepository, users repositories.UserRepository, writer *async.Writer, logger *zap.Logger) *PetService {
	return &PetService{pets: pets, users: users, writer: writer, logger: logger}
}

// CreatePet writes the pet row and then links it to the owner without blocking.
// If linking fails the pet row is deleted again.
func (s *PetService) CreatePet(ctx context.Context, actor models.Identity, req models.CreatePetRequest) (*models.Pet, *async.Task, error) {
	if err := requireActor(actor); err != nil {
		return nil, nil, err
	}
	pet := &models.Pet{
		ID:       uuid.NewString(),
		OwnerID:  actor.UserID,
		Name:     req.Name,
		Breed:    req.Breed,
		Age:      req.Age,
		Bio:      req.Bio,
		ImageURL: req.ImageURL,
	}
	if err := s.pets.CreatePet(ctx, pet); err != nil {
		return nil, nil, err
	}

	task := s.writer.Submit(ctx, "add_pet_id", func(ctx context.Context) error {
		return s.users.AddPetID(ctx, actor.UserID, pet.ID)
	}, async.OnFailure(func(error) {
		rctx, cancel := context.WithTimeout(context.Background(), rollbackTimeout)
		defer cancel()
		if err := s.pets.DeletePet(rctx, pet.ID); err != nil {
			s.logger.Error("Pet rollback failed", zap.String("pet_id", pet.ID), zap.Error(err))
		}
	}))
	return pet, task, nil
}

// GetPet loads a pet by id
func (s *PetService) GetPet(ctx context.Context, id string) (*models.Pet, error) {
	return s.pets.GetPetByID(ctx, id)
}

// ListPets lists an owner's pets
func (s *PetService) ListPets(ctx context.Context, ownerID string) ([]models.Pet, error) {
	pets, err := s.pets.GetPetsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if pets == nil {
		pets = []models.Pet{}
	}
	return pets, nil
}

// UpdatePet edits a pet. Only its owner may do so.
func (s *PetService) UpdatePet(ctx context.Context, actor models.Identity, id string, req models.UpdatePetRequest) (*models.Pet, error) {
	pet, err := s.ownedPet(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		pet.Name = *req.Name
	}
	if req.Breed != nil {
		pet.Breed = *req.Breed
	}
	if req.Age != nil {
		pet.Age = *req.Age
	}
	if req.Bio != nil {
		pet.Bio = *req.Bio
	}
	if req.ImageURL != nil {
		pet.ImageURL = *req.ImageURL
	}
	if err := s.pets.UpdatePet(ctx, pet); err != nil {
		return nil, err
	}
	return pet, nil
}

// DeletePet removes a pet and unlinks it from the owner without blocking
func (s *PetService) DeletePet(ctx context.Context, actor models.Identity, id string) (*async.Task, error) {
	pet, err := s.ownedPet(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.pets.DeletePet(ctx, pet.ID); err != nil {
		return nil, err
	}
	return s.writer.Submit(ctx, "remove_pet_id", func(ctx context.Context) error {
		return s.users.RemovePetID(ctx, pet.OwnerID, pet.ID)
	}), nil
}

func (s *PetService) ownedPet(ctx context.Context, actor models.Identity, id string) (*models.Pet, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	pet, err := s.pets.GetPetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pet.OwnerID != actor.UserID {
		return nil, fmt.Errorf("%w: pet belongs to another user", ErrForbidden)
	}
	return pet, nil
}
