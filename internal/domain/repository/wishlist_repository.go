package repository

import (
	"context"

	"threadmarket/internal/domain/entity"
)

type WishlistRepository interface {
	// AddToWishlist is idempotent: adding a product that is already present
	// returns the existing item without creating a duplicate.
	AddToWishlist(ctx context.Context, userID, productID string) (*entity.WishlistItem, error)

	// RemoveFromWishlist is a no-op when the product is not in the wishlist.
	RemoveFromWishlist(ctx context.Context, userID, productID string) error

	IsInWishlist(ctx context.Context, userID, productID string) (bool, error)
	GetUserWishlist(ctx context.Context, userID string, limit, offset int) ([]entity.WishlistItemWithProduct, int64, error)
	GetWishlistCount(ctx context.Context, userID string) (int64, error)
}
