package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
)

// IDTokenVerifier checks Firebase ID tokens. *auth.Client satisfies it.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthService signs members up and issues local JWTs
type AuthService struct {
	users     repositories.UserRepository
	verifier  IDTokenVerifier
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewAuthService creates an AuthService. verifier may be nil when Firebase is not configured.
func NewAuthService(users repositories.UserRepository, verifier IDTokenVerifier, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		verifier:  verifier,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Signup registers a local email/password member
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.UserProfile{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashed),
		UserName:     strings.TrimSpace(req.UserName),
		Discoverable: true,
		PetIDs:       models.UserSet{},
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("Member signed up", zap.String("user_id", user.ID))
	return s.respond(user)
}

// SignIn checks a local password and issues a token
func (s *AuthService) SignIn(ctx context.Context, req models.SignInRequest) (*models.AuthResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrUnauthorized
	}
	return s.respond(user)
}

// FirebaseLogin verifies a Firebase ID token, creates the profile on first login
// (keyed by Firebase UID) and issues a local token.
func (s *AuthService) FirebaseLogin(ctx context.Context, idToken string) (*models.AuthResponse, error) {
	if s.verifier == nil {
		return nil, fmt.Errorf("%w: firebase auth is not configured", ErrUnavailable)
	}
	token, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		s.logger.Debug("Firebase ID token rejected", zap.Error(err))
		return nil, ErrUnauthorized
	}

	user, err := s.users.GetUserByID(ctx, token.UID)
	if err == nil {
		return s.respond(user)
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	email, _ := token.Claims["email"].(string)
	email = strings.ToLower(email)
	if email != "" {
		if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
			return nil, fmt.Errorf("%w: email already registered with a password", ErrConflict)
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	userName, _ := token.Claims["name"].(string)
	if userName == "" {
		userName, _, _ = strings.Cut(email, "@")
	}
	picture, _ := token.Claims["picture"].(string)

	user = &models.UserProfile{
		ID:             token.UID,
		Email:          email,
		UserName:       userName,
		ProfilePicture: picture,
		Discoverable:   true,
		PetIDs:         models.UserSet{},
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("Member created from Firebase login", zap.String("user_id", user.ID))
	return s.respond(user)
}

func (s *AuthService) respond(user *models.UserProfile) (*models.AuthResponse, error) {
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

// IssueToken signs an HS256 token for user
func (s *AuthService) IssueToken(user *models.UserProfile) (string, error) {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
