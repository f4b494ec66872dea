package repository

import (
	"context"

	"threadmarket/internal/domain/entity"
)

type ReviewRepository interface {
	// Create persists a review. The store rejects a second review with the
	// same (reviewer, reviewed, product, type) tuple atomically; callers get
	// a CONFLICT error, not a duplicate.
	Create(ctx context.Context, review *entity.Review) error

	GetByID(ctx context.Context, id string) (*entity.Review, error)

	// ListByReviewedUser returns every review written about a user, newest
	// first unless sortAsc is set. reviewType "" means both roles.
	ListByReviewedUser(ctx context.Context, userID, reviewType string, sortAsc bool) ([]*entity.Review, error)
}
