package models

import "time"

// Pet belongs to exactly one UserProfile (PostgreSQL `pets`)
type Pet struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	OwnerID   string    `json:"ownerId" gorm:"index;size:128"`
	Name      string    `json:"name"`
	Breed     string    `json:"breed" gorm:"index"`
	Age       string    `json:"age"` // free text, e.g. "4 years"
	Bio       string    `json:"bio"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreatePetRequest defines the request body for adding a pet
type CreatePetRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=80"`
	Breed    string `json:"breed" validate:"required,min=1,max=80"`
	Age      string `json:"age" validate:"required,min=1,max=40"`
	Bio      string `json:"bio,omitempty" validate:"omitempty,max=200"`
	ImageURL string `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

// UpdatePetRequest defines the request body for editing a pet
type UpdatePetRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=80"`
	Breed    *string `json:"breed,omitempty" validate:"omitempty,min=1,max=80"`
	Age      *string `json:"age,omitempty" validate:"omitempty,min=1,max=40"`
	Bio      *string `json:"bio,omitempty" validate:"omitempty,max=200"`
	ImageURL *string `json:"imageUrl,omitempty" validate:"omitempty,url"`
}
