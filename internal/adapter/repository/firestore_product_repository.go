package repository

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"threadmarket/internal/domain/entity"
	"threadmarket/internal/domain/repository"
	"threadmarket/pkg/errors"
)

type firestoreProductRepository struct {
	client *firestore.Client
}

func NewFirestoreProductRepository(client *firestore.Client) repository.ProductRepository {
	return &firestoreProductRepository{
		client: client,
	}
}

func (r *firestoreProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == "" {
		doc := r.client.Collection("products").NewDoc()
		product.ID = doc.ID
	}

	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	_, err := r.client.Collection("products").Doc(product.ID).Set(ctx, product)
	if err != nil {
		return errors.Internal("Failed to create product", err)
	}

	return nil
}

func (r *firestoreProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	doc, err := r.client.Collection("products").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Product", err)
		}
		return nil, errors.Internal("Failed to get product", err)
	}

	var product entity.Product
	if err := doc.DataTo(&product); err != nil {
		return nil, errors.Internal("Failed to parse product data", err)
	}

	return &product, nil
}

func (r *firestoreProductRepository) List(ctx context.Context, filter repository.ProductFilter, limit, offset int) ([]*entity.Product, int64, error) {
	query := r.client.Collection("products").Query

	if filter.Category != "" {
		query = query.Where("category", "==", filter.Category)
	}
	if filter.Size != "" {
		query = query.Where("size", "==", filter.Size)
	}
	if filter.Condition != "" {
		query = query.Where("condition", "==", filter.Condition)
	}
	if filter.Status != "" {
		query = query.Where("status", "==", filter.Status)
	}
	if filter.SellerID != "" {
		query = query.Where("sellerId", "==", filter.SellerID)
	}
	if filter.MinPrice > 0 {
		query = query.Where("price", ">=", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("price", "<=", filter.MaxPrice)
	}

	// Firestore requires the first OrderBy to match an inequality field.
	if filter.MinPrice > 0 || filter.MaxPrice > 0 {
		query = query.OrderBy("price", firestore.Asc)
	} else {
		query = query.OrderBy("createdAt", firestore.Desc)
	}

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count products", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var products []*entity.Product

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate products", err)
		}
		var product entity.Product
		if err := doc.DataTo(&product); err != nil {
			return nil, 0, errors.Internal("Failed to parse product data", err)
		}
		products = append(products, &product)
	}

	return products, total, nil
}

func (r *firestoreProductRepository) Update(ctx context.Context, product *entity.Product) error {
	product.UpdatedAt = time.Now()

	_, err := r.client.Collection("products").Doc(product.ID).Set(ctx, product)
	if err != nil {
		return errors.Internal("Failed to update product", err)
	}

	return nil
}

func (r *firestoreProductRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("products").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete product", err)
	}

	return nil
}

// SearchByTitle does a prefix match on lowercased titles. Firestore has no
// full-text search, so this mirrors the usual startAt/endAt range trick and
// filters the remainder in memory for substring hits.
func (r *firestoreProductRepository) SearchByTitle(ctx context.Context, search string, limit, offset int) ([]*entity.Product, int64, error) {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return []*entity.Product{}, 0, nil
	}

	query := r.client.Collection("products").
		Where("status", "==", entity.ProductStatusActive).
		OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	var matched []*entity.Product

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to search products", err)
		}

		var product entity.Product
		if err := doc.DataTo(&product); err != nil {
			continue
		}

		if strings.Contains(strings.ToLower(product.Title), search) ||
			strings.Contains(strings.ToLower(product.Description), search) {
			matched = append(matched, &product)
		}
	}

	total := int64(len(matched))

	if offset > 0 {
		if offset >= len(matched) {
			return []*entity.Product{}, total, nil
		}
		matched = matched[offset:]
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	return matched, total, nil
}
