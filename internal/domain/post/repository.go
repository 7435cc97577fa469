package post

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("post not found")

type Repository interface {
	Create(ctx context.Context, p Post) error
	List(ctx context.Context) ([]Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (Post, error)

	// Update rewrites the post's like and comment documents.
	Update(ctx context.Context, p Post) error
	Delete(ctx context.Context, id uuid.UUID) error
}
