package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"threadmarket/internal/domain/entity"
	"threadmarket/internal/domain/repository"
	"threadmarket/pkg/errors"
	"threadmarket/pkg/logger"
)

type firestoreWishlistRepository struct {
	client *firestore.Client
}

func NewFirestoreWishlistRepository(client *firestore.Client) repository.WishlistRepository {
	return &firestoreWishlistRepository{client: client}
}

// wishlistDocID keys the item by (user, product), so the set can never hold
// the same product twice.
func wishlistDocID(userID, productID string) string {
	return fmt.Sprintf("%s_%s", userID, productID)
}

func (r *firestoreWishlistRepository) AddToWishlist(ctx context.Context, userID, productID string) (*entity.WishlistItem, error) {
	docRef := r.client.Collection("wishlists").Doc(wishlistDocID(userID, productID))

	item := entity.WishlistItem{
		ID:        docRef.ID,
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now(),
	}

	// Create fails with AlreadyExists when the product is already in the
	// wishlist; that makes the add idempotent rather than an error.
	_, err := docRef.Create(ctx, item)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			existing, getErr := docRef.Get(ctx)
			if getErr != nil {
				return nil, errors.Internal("Failed to read wishlist item", getErr)
			}
			var stored entity.WishlistItem
			if err := existing.DataTo(&stored); err != nil {
				return nil, errors.Internal("Failed to parse wishlist item", err)
			}
			return &stored, nil
		}
		return nil, errors.Internal("Failed to add to wishlist", err)
	}

	logger.Debug("Added product %s to wishlist for user %s", productID, userID)
	return &item, nil
}

func (r *firestoreWishlistRepository) RemoveFromWishlist(ctx context.Context, userID, productID string) error {
	// Deleting a missing document succeeds in Firestore, which matches the
	// remove-is-a-no-op contract for non-members.
	_, err := r.client.Collection("wishlists").Doc(wishlistDocID(userID, productID)).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to remove from wishlist", err)
	}

	return nil
}

func (r *firestoreWishlistRepository) IsInWishlist(ctx context.Context, userID, productID string) (bool, error) {
	doc, err := r.client.Collection("wishlists").Doc(wishlistDocID(userID, productID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, errors.Internal("Failed to check wishlist", err)
	}

	return doc.Exists(), nil
}

func (r *firestoreWishlistRepository) GetUserWishlist(ctx context.Context, userID string, limit, offset int) ([]entity.WishlistItemWithProduct, int64, error) {
	query := r.client.Collection("wishlists").
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to get wishlist", err)
	}

	var allItems []entity.WishlistItem
	productIDs := make([]string, 0, len(allDocs))
	for _, doc := range allDocs {
		var item entity.WishlistItem
		if err := doc.DataTo(&item); err != nil {
			logger.Warn("Error parsing wishlist item %s: %v", doc.Ref.ID, err)
			continue
		}
		allItems = append(allItems, item)
		productIDs = append(productIDs, item.ProductID)
	}

	if len(productIDs) == 0 {
		return []entity.WishlistItemWithProduct{}, 0, nil
	}

	productMap, err := r.batchFetchProducts(ctx, productIDs)
	if err != nil {
		return nil, 0, err
	}

	var items []entity.WishlistItemWithProduct
	var count int64
	for _, item := range allItems {
		product, exists := productMap[item.ProductID]
		if !exists {
			continue
		}
		count++

		if int(count) > offset && (limit <= 0 || len(items) < limit) {
			items = append(items, entity.WishlistItemWithProduct{
				ID:        item.ID,
				UserID:    item.UserID,
				ProductID: item.ProductID,
				Product:   product,
				CreatedAt: item.CreatedAt,
			})
		}
	}

	return items, count, nil
}

func (r *firestoreWishlistRepository) GetWishlistCount(ctx context.Context, userID string) (int64, error) {
	docs, err := r.client.Collection("wishlists").Where("userId", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to get wishlist count", err)
	}

	return int64(len(docs)), nil
}

// batchFetchProducts resolves product documents in chunks of 30, the
// Firestore GetAll batch limit.
func (r *firestoreWishlistRepository) batchFetchProducts(ctx context.Context, productIDs []string) (map[string]*entity.Product, error) {
	productMap := make(map[string]*entity.Product)

	for i := 0; i < len(productIDs); i += 30 {
		end := i + 30
		if end > len(productIDs) {
			end = len(productIDs)
		}

		batchIDs := productIDs[i:end]
		docRefs := make([]*firestore.DocumentRef, len(batchIDs))
		for j, id := range batchIDs {
			docRefs[j] = r.client.Collection("products").Doc(id)
		}

		productDocs, err := r.client.GetAll(ctx, docRefs)
		if err != nil {
			logger.Warn("Error batch fetching products: %v", err)
			continue
		}

		for _, doc := range productDocs {
			if doc == nil || !doc.Exists() {
				continue
			}
			var product entity.Product
			if err := doc.DataTo(&product); err != nil {
				continue
			}
			productMap[doc.Ref.ID] = &product
		}
	}

	return productMap, nil
}
