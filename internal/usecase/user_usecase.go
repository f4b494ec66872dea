package usecase

import (
	"context"

	"threadmarket/internal/domain/entity"
	"threadmarket/internal/domain/repository"
)

type UserUseCase struct {
	userRepo repository.UserRepository
}

func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
	}
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

type UpdateProfileInput struct {
	Username  string
	Phone     string
	Bio       string
	Address   string
	AvatarURL string
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Username != "" {
		user.Username = input.Username
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.Address != "" {
		user.Address = input.Address
	}
	if input.AvatarURL != "" {
		user.AvatarURL = input.AvatarURL
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return uc.userRepo.GetByID(ctx, userID)
}

// GetPublicProfile returns the view other users see, ratings aggregate
// included.
func (uc *UserUseCase) GetPublicProfile(ctx context.Context, userID string) (*entity.PublicProfile, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return publicProfile(user), nil
}

func publicProfile(user *entity.User) *entity.PublicProfile {
	return &entity.PublicProfile{
		ID:        user.ID,
		Username:  user.Username,
		Bio:       user.Bio,
		AvatarURL: user.AvatarURL,
		Ratings:   user.Ratings,
		CreatedAt: user.CreatedAt,
	}
}
