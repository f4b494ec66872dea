package repository

import (
	"context"

	"threadmarket/internal/domain/entity"
)

type PriceHistoryRepository interface {
	Record(ctx context.Context, point *entity.PricePoint) error
	ListByProduct(ctx context.Context, productID string) ([]*entity.PricePoint, error)
}
