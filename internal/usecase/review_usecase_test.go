package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadmarket/internal/domain/entity"
	"threadmarket/pkg/errors"
)

func newSoldProduct(id, sellerID, buyerID string) *entity.Product {
	return &entity.Product{
		ID:       id,
		SellerID: sellerID,
		BuyerID:  buyerID,
		Status:   entity.ProductStatusSold,
		Title:    "Vintage Denim Jacket",
		Price:    45,
	}
}

func newReviewTestCase(products ...*entity.Product) (*ReviewUseCase, *fakeReviewRepo, *fakeUserRepo) {
	reviewRepo := newFakeReviewRepo()
	userRepo := newFakeUserRepo(
		&entity.User{ID: "seller-1", Username: "seller"},
		&entity.User{ID: "buyer-1", Username: "buyer"},
		&entity.User{ID: "stranger-1", Username: "stranger"},
	)
	productRepo := newFakeProductRepo(products...)
	return NewReviewUseCase(reviewRepo, userRepo, productRepo), reviewRepo, userRepo
}

func TestCreateReviewSellerReviewsBuyer(t *testing.T) {
	uc, _, userRepo := newReviewTestCase(newSoldProduct("product-1", "seller-1", "buyer-1"))

	review, err := uc.CreateReview(context.Background(), "seller-1", CreateReviewInput{
		ReviewedID: "buyer-1",
		ProductID:  "product-1",
		Rating:     5,
		Comment:    "Smooth transaction",
		Type:       entity.ReviewTypeBuyer,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)
	assert.Equal(t, "seller-1", review.ReviewerID)
	assert.False(t, review.CreatedAt.IsZero())

	buyer, err := userRepo.GetByID(context.Background(), "buyer-1")
	require.NoError(t, err)
	assert.Equal(t, entity.RatingSummary{Rating: 5.0, Count: 1}, buyer.Ratings.Buyer)
	assert.Equal(t, entity.RatingSummary{}, buyer.Ratings.Seller)
}

func TestCreateReviewBuyerReviewsSeller(t *testing.T) {
	uc, _, userRepo := newReviewTestCase(newSoldProduct("product-1", "seller-1", "buyer-1"))

	_, err := uc.CreateReview(context.Background(), "buyer-1", CreateReviewInput{
		ReviewedID: "seller-1",
		ProductID:  "product-1",
		Rating:     4,
		Type:       entity.ReviewTypeSeller,
	})

	require.NoError(t, err)

	seller, err := userRepo.GetByID(context.Background(), "seller-1")
	require.NoError(t, err)
	assert.Equal(t, entity.RatingSummary{Rating: 4.0, Count: 1}, seller.Ratings.Seller)
}

func TestCreateReviewAuthorization(t *testing.T) {
	tests := []struct {
		name       string
		reviewerID string
		input      CreateReviewInput
		wantCode   string
	}{
		{
			name:       "self review",
			reviewerID: "buyer-1",
			input:      CreateReviewInput{ReviewedID: "buyer-1", ProductID: "product-1", Rating: 5, Type: entity.ReviewTypeBuyer},
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "stranger leaves buyer review",
			reviewerID: "stranger-1",
			input:      CreateReviewInput{ReviewedID: "buyer-1", ProductID: "product-1", Rating: 5, Type: entity.ReviewTypeBuyer},
			wantCode:   "FORBIDDEN",
		},
		{
			name:       "buyer review targets someone other than the buyer",
			reviewerID: "seller-1",
			input:      CreateReviewInput{ReviewedID: "stranger-1", ProductID: "product-1", Rating: 5, Type: entity.ReviewTypeBuyer},
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "seller tries to review themselves as seller",
			reviewerID: "seller-1",
			input:      CreateReviewInput{ReviewedID: "buyer-1", ProductID: "product-1", Rating: 5, Type: entity.ReviewTypeSeller},
			wantCode:   "FORBIDDEN",
		},
		{
			name:       "stranger leaves seller review",
			reviewerID: "stranger-1",
			input:      CreateReviewInput{ReviewedID: "seller-1", ProductID: "product-1", Rating: 5, Type: entity.ReviewTypeSeller},
			wantCode:   "FORBIDDEN",
		},
		{
			name:       "seller review targets someone other than the seller",
			reviewerID: "buyer-1",
			input:      CreateReviewInput{ReviewedID: "stranger-1", ProductID: "product-1", Rating: 5, Type: entity.ReviewTypeSeller},
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "unknown review type",
			reviewerID: "seller-1",
			input:      CreateReviewInput{ReviewedID: "buyer-1", ProductID: "product-1", Rating: 5, Type: "vendor"},
			wantCode:   "BAD_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, reviewRepo, _ := newReviewTestCase(newSoldProduct("product-1", "seller-1", "buyer-1"))

			_, err := uc.CreateReview(context.Background(), tt.reviewerID, tt.input)

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantCode), "expected %s, got %v", tt.wantCode, err)
			assert.Empty(t, reviewRepo.reviews)
		})
	}
}

func TestCreateReviewUnsoldProduct(t *testing.T) {
	uc, _, _ := newReviewTestCase(&entity.Product{
		ID:       "product-1",
		SellerID: "seller-1",
		Status:   entity.ProductStatusActive,
	})

	_, err := uc.CreateReview(context.Background(), "seller-1", CreateReviewInput{
		ReviewedID: "buyer-1",
		ProductID:  "product-1",
		Rating:     5,
		Type:       entity.ReviewTypeBuyer,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestCreateReviewProductNotFound(t *testing.T) {
	uc, _, _ := newReviewTestCase()

	_, err := uc.CreateReview(context.Background(), "seller-1", CreateReviewInput{
		ReviewedID: "buyer-1",
		ProductID:  "missing",
		Rating:     5,
		Type:       entity.ReviewTypeBuyer,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestCreateReviewDuplicateConflict(t *testing.T) {
	uc, reviewRepo, _ := newReviewTestCase(newSoldProduct("product-1", "seller-1", "buyer-1"))

	input := CreateReviewInput{
		ReviewedID: "buyer-1",
		ProductID:  "product-1",
		Rating:     5,
		Type:       entity.ReviewTypeBuyer,
	}

	_, err := uc.CreateReview(context.Background(), "seller-1", input)
	require.NoError(t, err)

	_, err = uc.CreateReview(context.Background(), "seller-1", input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))
	assert.Len(t, reviewRepo.reviews, 1)
}

func TestCreateReviewConcurrentDuplicates(t *testing.T) {
	uc, reviewRepo, _ := newReviewTestCase(newSoldProduct("product-1", "seller-1", "buyer-1"))

	input := CreateReviewInput{
		ReviewedID: "buyer-1",
		ProductID:  "product-1",
		Rating:     5,
		Type:       entity.ReviewTypeBuyer,
	}

	const attempts = 8
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.CreateReview(context.Background(), "seller-1", input)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, errors.Is(err, "CONFLICT"))
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, reviewRepo.reviews, 1)
}

func TestAggregateRatingsEmpty(t *testing.T) {
	ratings := aggregateRatings(nil)

	assert.Equal(t, entity.RatingSummary{Rating: 0, Count: 0}, ratings.Buyer)
	assert.Equal(t, entity.RatingSummary{Rating: 0, Count: 0}, ratings.Seller)
}

func TestAggregateRatingsPerRole(t *testing.T) {
	reviews := []*entity.Review{
		{Rating: 5, Type: entity.ReviewTypeSeller},
		{Rating: 3, Type: entity.ReviewTypeSeller},
		{Rating: 4, Type: entity.ReviewTypeBuyer},
	}

	ratings := aggregateRatings(reviews)

	assert.Equal(t, entity.RatingSummary{Rating: 4.0, Count: 2}, ratings.Seller)
	assert.Equal(t, entity.RatingSummary{Rating: 4.0, Count: 1}, ratings.Buyer)
}

func TestAggregateRatingsRounding(t *testing.T) {
	reviews := []*entity.Review{
		{Rating: 5, Type: entity.ReviewTypeSeller},
		{Rating: 4, Type: entity.ReviewTypeSeller},
		{Rating: 4, Type: entity.ReviewTypeSeller},
	}

	ratings := aggregateRatings(reviews)

	assert.Equal(t, 4.3, ratings.Seller.Rating)
	assert.Equal(t, 3, ratings.Seller.Count)
}

func TestAggregateRatingsOrderIndependent(t *testing.T) {
	forward := []*entity.Review{
		{Rating: 1, Type: entity.ReviewTypeBuyer},
		{Rating: 4, Type: entity.ReviewTypeSeller},
		{Rating: 2, Type: entity.ReviewTypeBuyer},
		{Rating: 5, Type: entity.ReviewTypeSeller},
	}
	reversed := []*entity.Review{forward[3], forward[2], forward[1], forward[0]}

	assert.Equal(t, aggregateRatings(forward), aggregateRatings(reversed))
}

func TestRecomputeUserRatingsIdempotent(t *testing.T) {
	uc, _, userRepo := newReviewTestCase(newSoldProduct("product-1", "seller-1", "buyer-1"))

	_, err := uc.CreateReview(context.Background(), "buyer-1", CreateReviewInput{
		ReviewedID: "seller-1",
		ProductID:  "product-1",
		Rating:     4,
		Type:       entity.ReviewTypeSeller,
	})
	require.NoError(t, err)

	first, err := userRepo.GetByID(context.Background(), "seller-1")
	require.NoError(t, err)

	require.NoError(t, uc.RecomputeUserRatings(context.Background(), "seller-1"))
	require.NoError(t, uc.RecomputeUserRatings(context.Background(), "seller-1"))

	second, err := userRepo.GetByID(context.Background(), "seller-1")
	require.NoError(t, err)
	assert.Equal(t, first.Ratings, second.Ratings)
}

func TestListUserReviewsFiltersByType(t *testing.T) {
	uc, _, _ := newReviewTestCase(
		newSoldProduct("product-1", "seller-1", "buyer-1"),
		newSoldProduct("product-2", "seller-1", "stranger-1"),
	)

	_, err := uc.CreateReview(context.Background(), "buyer-1", CreateReviewInput{
		ReviewedID: "seller-1", ProductID: "product-1", Rating: 4, Type: entity.ReviewTypeSeller,
	})
	require.NoError(t, err)
	_, err = uc.CreateReview(context.Background(), "stranger-1", CreateReviewInput{
		ReviewedID: "seller-1", ProductID: "product-2", Rating: 5, Type: entity.ReviewTypeSeller,
	})
	require.NoError(t, err)

	sellerReviews, err := uc.ListUserReviews(context.Background(), "seller-1", entity.ReviewTypeSeller, "")
	require.NoError(t, err)
	assert.Len(t, sellerReviews, 2)

	buyerReviews, err := uc.ListUserReviews(context.Background(), "seller-1", entity.ReviewTypeBuyer, "")
	require.NoError(t, err)
	assert.Empty(t, buyerReviews)

	_, err = uc.ListUserReviews(context.Background(), "seller-1", "vendor", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestGetUserReviewSummary(t *testing.T) {
	uc, _, _ := newReviewTestCase(
		newSoldProduct("product-1", "seller-1", "buyer-1"),
		newSoldProduct("product-2", "seller-1", "stranger-1"),
	)

	_, err := uc.CreateReview(context.Background(), "buyer-1", CreateReviewInput{
		ReviewedID: "seller-1", ProductID: "product-1", Rating: 5, Type: entity.ReviewTypeSeller,
	})
	require.NoError(t, err)
	_, err = uc.CreateReview(context.Background(), "stranger-1", CreateReviewInput{
		ReviewedID: "seller-1", ProductID: "product-2", Rating: 3, Type: entity.ReviewTypeSeller,
	})
	require.NoError(t, err)

	summary, err := uc.GetUserReviewSummary(context.Background(), "seller-1")
	require.NoError(t, err)

	seller := summary[entity.ReviewTypeSeller]
	assert.Equal(t, 4.0, seller.AverageRating)
	assert.Equal(t, 2, seller.TotalReviews)
	assert.Equal(t, map[string]int{"1": 0, "2": 0, "3": 1, "4": 0, "5": 1}, seller.RatingDistribution)

	buyer := summary[entity.ReviewTypeBuyer]
	assert.Equal(t, 0.0, buyer.AverageRating)
	assert.Equal(t, 0, buyer.TotalReviews)
	assert.Equal(t, map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0}, buyer.RatingDistribution)
}
