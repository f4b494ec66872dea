package usecase

import (
	"context"

	"threadmarket/internal/domain/entity"
	"threadmarket/internal/domain/repository"
	"threadmarket/pkg/errors"
)

type WishlistUseCase struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

func NewWishlistUseCase(
	wishlistRepo repository.WishlistRepository,
	productRepo repository.ProductRepository,
) *WishlistUseCase {
	return &WishlistUseCase{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

// AddToWishlist is idempotent: adding a product already on the list returns
// the stored item and changes nothing.
func (u *WishlistUseCase) AddToWishlist(ctx context.Context, userID, productID string) (*entity.WishlistItem, error) {
	product, err := u.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.SellerID == userID {
		return nil, errors.BadRequest("Cannot add your own product to wishlist", nil)
	}

	return u.wishlistRepo.AddToWishlist(ctx, userID, productID)
}

// RemoveFromWishlist succeeds whether or not the product was on the list.
func (u *WishlistUseCase) RemoveFromWishlist(ctx context.Context, userID, productID string) error {
	return u.wishlistRepo.RemoveFromWishlist(ctx, userID, productID)
}

func (u *WishlistUseCase) GetUserWishlist(ctx context.Context, userID string, page, pageSize int) ([]entity.WishlistItemWithProduct, int64, error) {
	offset := (page - 1) * pageSize

	items, total, err := u.wishlistRepo.GetUserWishlist(ctx, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}

	if items == nil {
		items = []entity.WishlistItemWithProduct{}
	}
	return items, total, nil
}

func (u *WishlistUseCase) IsInWishlist(ctx context.Context, userID, productID string) (bool, error) {
	return u.wishlistRepo.IsInWishlist(ctx, userID, productID)
}

func (u *WishlistUseCase) GetWishlistCount(ctx context.Context, userID string) (int64, error) {
	return u.wishlistRepo.GetWishlistCount(ctx, userID)
}
