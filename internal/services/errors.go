// Package services holds the PetConnect use cases. Every mutation takes the
// acting identity explicitly and checks authorization before writing.
package services

import (
	"context"
	"errors"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
)

var (
	ErrNotFound            = repositories.ErrNotFound
	ErrConflict            = repositories.ErrConflict
	ErrForbidden           = errors.New("you are not allowed to do that")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("invalid credentials")
	ErrUnavailable         = errors.New("service unavailable")
	ErrOrganizerCannotRSVP = errors.New("organizers cannot RSVP to their own event")
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// normalizePage clamps pagination input the same way for every list
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}
	return page, limit
}

func requireActor(actor models.Identity) error {
	if actor.IsZero() {
		return ErrUnauthorized
	}
	return nil
}

// compactUsers resolves author cards for ids. Deleted users come back as an id-only card.
func compactUsers(ctx context.Context, users repositories.UserRepository, ids []string) (map[string]models.UserCompact, error) {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	profiles, err := users.GetUsersByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.UserCompact, len(unique))
	for _, id := range unique {
		if p, ok := profiles[id]; ok {
			out[id] = p.ToCompact()
		} else {
			out[id] = models.UserCompact{ID: id}
		}
	}
	return out, nil
}
