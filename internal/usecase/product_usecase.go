package usecase

import (
	"context"
	"time"

	"threadmarket/internal/domain/entity"
	"threadmarket/internal/domain/repository"
	"threadmarket/pkg/errors"
	"threadmarket/pkg/logger"
)

type ProductUseCase struct {
	productRepo      repository.ProductRepository
	userRepo         repository.UserRepository
	priceHistoryRepo repository.PriceHistoryRepository
}

func NewProductUseCase(
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	priceHistoryRepo repository.PriceHistoryRepository,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:      productRepo,
		userRepo:         userRepo,
		priceHistoryRepo: priceHistoryRepo,
	}
}

type CreateProductInput struct {
	Title       string
	Description string
	Price       float64
	Category    string
	Size        string
	Condition   string
	Images      []string
}

func (uc *ProductUseCase) CreateProduct(ctx context.Context, sellerID string, input CreateProductInput) (*entity.Product, error) {
	product := &entity.Product{
		SellerID:    sellerID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Size:        input.Size,
		Condition:   input.Condition,
		Images:      input.Images,
		Status:      entity.ProductStatusActive,
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	// Seed the price series with the listing price.
	if err := uc.priceHistoryRepo.Record(ctx, &entity.PricePoint{
		ProductID: product.ID,
		Price:     product.Price,
	}); err != nil {
		logger.Warn("Failed to record initial price for product %s: %v", product.ID, err)
	}

	return product, nil
}

func (uc *ProductUseCase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return uc.productRepo.GetByID(ctx, id)
}

func (uc *ProductUseCase) ListProducts(ctx context.Context, filter repository.ProductFilter, page, pageSize int) ([]*entity.Product, int64, error) {
	offset := (page - 1) * pageSize

	products, total, err := uc.productRepo.List(ctx, filter, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}

	if products == nil {
		products = []*entity.Product{}
	}
	return products, total, nil
}

func (uc *ProductUseCase) SearchProducts(ctx context.Context, query string, page, pageSize int) ([]*entity.Product, int64, error) {
	offset := (page - 1) * pageSize

	products, total, err := uc.productRepo.SearchByTitle(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}

	if products == nil {
		products = []*entity.Product{}
	}
	return products, total, nil
}

type UpdateProductInput struct {
	Title       string
	Description string
	Price       float64
	Category    string
	Size        string
	Condition   string
	Images      []string
}

// UpdateProduct applies owner-only edits. A price change appends a point to
// the product's price history.
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, sellerID, productID string, input UpdateProductInput) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.SellerID != sellerID {
		return nil, errors.Forbidden("Not authorized to update this product", nil)
	}

	priceChanged := input.Price > 0 && input.Price != product.Price

	if input.Title != "" {
		product.Title = input.Title
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.Price > 0 {
		product.Price = input.Price
	}
	if input.Category != "" {
		product.Category = input.Category
	}
	if input.Size != "" {
		product.Size = input.Size
	}
	if input.Condition != "" {
		product.Condition = input.Condition
	}
	if len(input.Images) > 0 {
		product.Images = input.Images
	}

	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	if priceChanged {
		if err := uc.priceHistoryRepo.Record(ctx, &entity.PricePoint{
			ProductID: product.ID,
			Price:     product.Price,
		}); err != nil {
			logger.Warn("Failed to record price change for product %s: %v", product.ID, err)
		}
	}

	return product, nil
}

func (uc *ProductUseCase) DeleteProduct(ctx context.Context, sellerID, productID string) error {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	if product.SellerID != sellerID {
		return errors.Forbidden("Not authorized to delete this product", nil)
	}

	return uc.productRepo.Delete(ctx, productID)
}

// MarkProductSold closes the transaction: the seller records who bought the
// product. The recorded buyer is what later authorizes a seller review.
func (uc *ProductUseCase) MarkProductSold(ctx context.Context, sellerID, productID, buyerID string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.SellerID != sellerID {
		return nil, errors.Forbidden("Not authorized to mark this product sold", nil)
	}

	if buyerID == sellerID {
		return nil, errors.BadRequest("You cannot sell a product to yourself", nil)
	}

	if product.Status == entity.ProductStatusSold {
		return nil, errors.Conflict("Product is already sold", nil)
	}

	if _, err := uc.userRepo.GetByID(ctx, buyerID); err != nil {
		return nil, err
	}

	now := time.Now()
	product.Status = entity.ProductStatusSold
	product.BuyerID = buyerID
	product.SoldAt = &now

	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (uc *ProductUseCase) GetPriceHistory(ctx context.Context, productID string) ([]*entity.PricePoint, error) {
	if _, err := uc.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	points, err := uc.priceHistoryRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if points == nil {
		points = []*entity.PricePoint{}
	}
	return points, nil
}
