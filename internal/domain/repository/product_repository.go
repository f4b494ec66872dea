package repository

import (
	"context"

	"threadmarket/internal/domain/entity"
)

// ProductFilter narrows a product listing. Zero values mean "no constraint".
type ProductFilter struct {
	Category  string
	Size      string
	Condition string
	Status    string
	SellerID  string
	MinPrice  float64
	MaxPrice  float64
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*entity.Product, int64, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	SearchByTitle(ctx context.Context, query string, limit, offset int) ([]*entity.Product, int64, error)
}
