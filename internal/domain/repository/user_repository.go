package repository

import (
	"context"

	"threadmarket/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error

	// UpdateRatings replaces the user's ratings aggregate wholesale.
	UpdateRatings(ctx context.Context, userID string, ratings entity.UserRatings) error
}
