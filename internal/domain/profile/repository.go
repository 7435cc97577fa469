package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("profile not found")

type Repository interface {
	// GetByUserID returns the profile owned by userID with the owner's
	// name and avatar filled in.
	GetByUserID(ctx context.Context, userID uuid.UUID) (Profile, error)
	List(ctx context.Context) ([]Profile, error)

	// Save upserts the whole profile document keyed by its owning user.
	Save(ctx context.Context, p Profile) error
}
