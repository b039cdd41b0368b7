package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Identity is the acting user of a request. It is resolved by the auth
// middleware and passed explicitly into every write operation.
type Identity struct {
	UserID string
	Email  string
}

// IsZero reports whether no user is attached
func (i Identity) IsZero() bool {
	return i.UserID == ""
}

// UserProfile is a PetConnect member (PostgreSQL `users`)
type UserProfile struct {
	ID                  string    `json:"id" gorm:"primaryKey;size:128"` // Firebase UID or generated uuid
	Email               string    `json:"email" gorm:"uniqueIndex:idx_users_email_present,where:email <> ''"` // empty for phone-only Firebase accounts
	PasswordHash        string    `json:"-"`
	UserName            string    `json:"userName" gorm:"index"`
	FirstName           string    `json:"firstName"`
	LastName            string    `json:"lastName"`
	Bio                 string    `json:"bio"`
	ProfilePicture      string    `json:"profilePicture"`
	City                string    `json:"city"`
	State               string    `json:"state"`
	Country             string    `json:"country"`
	Discoverable        bool      `json:"discoverable" gorm:"not null"`
	OnboardingCompleted bool      `json:"onboardingCompleted"`
	PetIDs              UserSet   `json:"petIds" gorm:"type:text"`
	Version             int       `json:"-" gorm:"not null;default:0"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// TableName pins the table name
func (UserProfile) TableName() string {
	return "users"
}

// UserCompact is the author/attendee card embedded in other responses
type UserCompact struct {
	ID             string `json:"id"`
	UserName       string `json:"userName"`
	ProfilePicture string `json:"profilePicture"`
}

// ToCompact trims a profile down to its public card
func (u *UserProfile) ToCompact() UserCompact {
	return UserCompact{
		ID:             u.ID,
		UserName:       u.UserName,
		ProfilePicture: u.ProfilePicture,
	}
}

// UserSearchResult is a discovery hit: the member's public card and their pets
type UserSearchResult struct {
	UserCompact
	Bio  string `json:"bio"`
	City string `json:"city,omitempty"`
	Pets []Pet  `json:"pets"`
}

// AuthResponse is returned by every sign-in route
type AuthResponse struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
}

// SignupRequest defines the request body for local email/password registration
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	UserName string `json:"userName" validate:"required,min=3,max=50"`
}

// SignInRequest defines the request body for local sign-in
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// UpdateProfileRequest defines the request body for profile edits. Nil fields are left untouched.
type UpdateProfileRequest struct {
	UserName       *string `json:"userName,omitempty" validate:"omitempty,min=3,max=50"`
	Bio            *string `json:"bio,omitempty" validate:"omitempty,max=200"`
	ProfilePicture *string `json:"profilePicture,omitempty" validate:"omitempty,url|datauri_image"`
	FirstName      *string `json:"firstName,omitempty" validate:"omitempty,max=50"`
	LastName       *string `json:"lastName,omitempty" validate:"omitempty,max=50"`
	City           *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State          *string `json:"state,omitempty" validate:"omitempty,max=100"`
	Country        *string `json:"country,omitempty" validate:"omitempty,max=100"`
	Discoverable   *bool   `json:"discoverable,omitempty"`
}

// OnboardingRequest completes a new member's profile and registers their pets in one go
type OnboardingRequest struct {
	UserName string              `json:"userName" validate:"required,min=3,max=50"`
	Bio      string              `json:"bio" validate:"max=200"`
	Pets     []OnboardingPetItem `json:"pets" validate:"dive"`
}

// OnboardingPetItem is a pet row in the onboarding form. Incomplete rows are skipped.
type OnboardingPetItem struct {
	Name  string `json:"name"`
	Breed string `json:"breed"`
	Age   string `json:"age"`
	Bio   string `json:"bio" validate:"max=200"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
