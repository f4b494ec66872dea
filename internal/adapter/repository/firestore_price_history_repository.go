package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"threadmarket/internal/domain/entity"
	"threadmarket/internal/domain/repository"
	"threadmarket/pkg/errors"
)

type firestorePriceHistoryRepository struct {
	client *firestore.Client
}

func NewFirestorePriceHistoryRepository(client *firestore.Client) repository.PriceHistoryRepository {
	return &firestorePriceHistoryRepository{
		client: client,
	}
}

func (r *firestorePriceHistoryRepository) Record(ctx context.Context, point *entity.PricePoint) error {
	if point.ID == "" {
		point.ID = uuid.New().String()
	}
	if point.Timestamp.IsZero() {
		point.Timestamp = time.Now()
	}

	_, err := r.client.Collection("price_history").Doc(point.ID).Set(ctx, point)
	if err != nil {
		return errors.Internal("Failed to record price point", err)
	}

	return nil
}

func (r *firestorePriceHistoryRepository) ListByProduct(ctx context.Context, productID string) ([]*entity.PricePoint, error) {
	query := r.client.Collection("price_history").
		Where("productId", "==", productID).
		OrderBy("timestamp", firestore.Desc)

	iter := query.Documents(ctx)
	var points []*entity.PricePoint

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate price history", err)
		}

		var point entity.PricePoint
		if err := doc.DataTo(&point); err != nil {
			return nil, errors.Internal("Failed to parse price point", err)
		}
		points = append(points, &point)
	}

	return points, nil
}
