package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/anonto42/petconnect/backend/internal/repositories"
)

// Identity-resolution modes
const (
	ModeCreate = "create"
	ModeLookup = "lookup"
)

// ErrSkipUser marks a fixture user that could not be resolved in lookup mode
var ErrSkipUser = errors.New("user not found, skipping")

// ResolvedUser is the account a fixture user maps onto
type ResolvedUser struct {
	ID           string
	PasswordHash string // set for local accounts only
}

// IdentityResolver maps a fixture user to an account id
type IdentityResolver interface {
	Resolve(ctx context.Context, u UserFixture) (ResolvedUser, error)
}

// AuthAdmin is the part of the Firebase Auth admin client the seed uses
type AuthAdmin interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (*auth.UserRecord, error)
}

// CheckMode validates a --mode value
func CheckMode(mode string) error {
	if mode != ModeCreate && mode != ModeLookup {
		return fmt.Errorf("unknown mode %q (want %q or %q)", mode, ModeCreate, ModeLookup)
	}
	return nil
}

// FirebaseResolver resolves fixture users against Firebase Auth
type FirebaseResolver struct {
	client AuthAdmin
	mode   string
}

// NewFirebaseResolver creates a FirebaseResolver for mode
func NewFirebaseResolver(client AuthAdmin, mode string) *FirebaseResolver {
	return &FirebaseResolver{client: client, mode: mode}
}

// Resolve creates the Auth user in create mode (an existing email is reused) or
// looks it up in lookup mode.
func (r *FirebaseResolver) Resolve(ctx context.Context, u UserFixture) (ResolvedUser, error) {
	if r.mode == ModeCreate {
		params := (&auth.UserToCreate{}).
			Email(u.Email).
			Password(u.Password).
			DisplayName(strings.TrimSpace(u.FirstName + " " + u.LastName))
		rec, err := r.client.CreateUser(ctx, params)
		if err == nil {
			return ResolvedUser{ID: rec.UID}, nil
		}
		if !auth.IsEmailAlreadyExists(err) {
			return ResolvedUser{}, fmt.Errorf("create auth user %s: %w", u.Email, err)
		}
	}

	rec, err := r.client.GetUserByEmail(ctx, u.Email)
	if auth.IsUserNotFound(err) {
		return ResolvedUser{}, ErrSkipUser
	}
	if err != nil {
		return ResolvedUser{}, fmt.Errorf("lookup auth user %s: %w", u.Email, err)
	}
	return ResolvedUser{ID: rec.UID}, nil
}

// LocalResolver resolves fixture users against local email/password accounts
type LocalResolver struct {
	users repositories.UserRepository
	mode  string
}

// NewLocalResolver creates a LocalResolver for mode
func NewLocalResolver(users repositories.UserRepository, mode string) *LocalResolver {
	return &LocalResolver{users: users, mode: mode}
}

// Resolve reuses an existing profile with the same email. In create mode a new
// id and password hash are minted for unknown emails.
func (r *LocalResolver) Resolve(ctx context.Context, u UserFixture) (ResolvedUser, error) {
	existing, err := r.users.GetUserByEmail(ctx, u.Email)
	if err == nil {
		return ResolvedUser{ID: existing.ID, PasswordHash: existing.PasswordHash}, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return ResolvedUser{}, err
	}
	if r.mode == ModeLookup {
		return ResolvedUser{}, ErrSkipUser
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return ResolvedUser{}, fmt.Errorf("hash password: %w", err)
	}
	return ResolvedUser{ID: uuid.NewString(), PasswordHash: string(hashed)}, nil
}
