package usecase

import (
	"context"
	"math"
	"strconv"

	"threadmarket/internal/domain/entity"
	"threadmarket/internal/domain/repository"
	"threadmarket/pkg/errors"
	"threadmarket/pkg/logger"
)

type ReviewUseCase struct {
	reviewRepo  repository.ReviewRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
}

func NewReviewUseCase(
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo:  reviewRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
	}
}

type CreateReviewInput struct {
	ReviewedID string
	ProductID  string
	Rating     int
	Comment    string
	Type       string
}

// CreateReview runs the transaction-integrity guard, persists the review and
// then recomputes the reviewed user's rating aggregate. The aggregate update
// is a post-commit step: if it fails the review stands and a later recompute
// repairs the aggregate.
func (uc *ReviewUseCase) CreateReview(ctx context.Context, reviewerID string, input CreateReviewInput) (*entity.Review, error) {
	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	if err := uc.authorizeReview(reviewerID, input, product); err != nil {
		return nil, err
	}

	if _, err := uc.userRepo.GetByID(ctx, input.ReviewedID); err != nil {
		return nil, err
	}

	review := &entity.Review{
		ReviewerID: reviewerID,
		ReviewedID: input.ReviewedID,
		ProductID:  input.ProductID,
		Rating:     input.Rating,
		Comment:    input.Comment,
		Type:       input.Type,
	}

	// The repository keys the document by the review tuple, so a concurrent
	// duplicate submission loses here with a CONFLICT regardless of any
	// earlier check.
	if err := uc.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	if err := uc.RecomputeUserRatings(ctx, input.ReviewedID); err != nil {
		logger.Warn("Rating recompute failed for user %s after review %s: %v", input.ReviewedID, review.ID, err)
	}

	return review, nil
}

// authorizeReview enforces who may submit which review type. A buyer review
// may only come from the product's seller; a seller review may only come from
// the recorded buyer. Both require the transaction to have happened, i.e. the
// product was marked sold with a buyer on record.
func (uc *ReviewUseCase) authorizeReview(reviewerID string, input CreateReviewInput, product *entity.Product) error {
	if reviewerID == input.ReviewedID {
		return errors.BadRequest("You cannot review yourself", nil)
	}

	if product.BuyerID == "" {
		return errors.BadRequest("This product has not been sold yet", nil)
	}

	switch input.Type {
	case entity.ReviewTypeBuyer:
		if product.SellerID != reviewerID {
			return errors.Forbidden("Only the seller can leave a buyer review", nil)
		}
		if product.BuyerID != input.ReviewedID {
			return errors.BadRequest("Reviewed user is not the buyer of this product", nil)
		}
	case entity.ReviewTypeSeller:
		if product.SellerID == reviewerID {
			return errors.Forbidden("Only the buyer can leave a seller review", nil)
		}
		if product.BuyerID != reviewerID {
			return errors.Forbidden("Only the buyer of this product can review the seller", nil)
		}
		if product.SellerID != input.ReviewedID {
			return errors.BadRequest("Reviewed user is not the seller of this product", nil)
		}
	default:
		return errors.BadRequest("Review type must be buyer or seller", nil)
	}

	return nil
}

// RecomputeUserRatings rebuilds the per-role aggregate from the full review
// set and writes it wholesale onto the user. It is idempotent; re-running it
// against the same review set produces the same result, which is what makes a
// failed post-commit update recoverable.
func (uc *ReviewUseCase) RecomputeUserRatings(ctx context.Context, userID string) error {
	reviews, err := uc.reviewRepo.ListByReviewedUser(ctx, userID, "", false)
	if err != nil {
		return err
	}

	return uc.userRepo.UpdateRatings(ctx, userID, aggregateRatings(reviews))
}

// aggregateRatings computes the mean rating (rounded to 1 decimal) and count
// per role. Both keys are always present; an empty group yields {0, 0} so a
// stale value never survives the last review of a type disappearing.
func aggregateRatings(reviews []*entity.Review) entity.UserRatings {
	var ratings entity.UserRatings

	sums := map[string]int{}
	counts := map[string]int{}
	for _, review := range reviews {
		sums[review.Type] += review.Rating
		counts[review.Type]++
	}

	if n := counts[entity.ReviewTypeBuyer]; n > 0 {
		ratings.Buyer = entity.RatingSummary{
			Rating: roundToTenth(float64(sums[entity.ReviewTypeBuyer]) / float64(n)),
			Count:  n,
		}
	}
	if n := counts[entity.ReviewTypeSeller]; n > 0 {
		ratings.Seller = entity.RatingSummary{
			Rating: roundToTenth(float64(sums[entity.ReviewTypeSeller]) / float64(n)),
			Count:  n,
		}
	}

	return ratings
}

func roundToTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func (uc *ReviewUseCase) GetReviewByID(ctx context.Context, id string) (*entity.Review, error) {
	return uc.reviewRepo.GetByID(ctx, id)
}

// ListUserReviews returns the reviews written about a user, optionally
// filtered by type. sort accepts "createdAt_asc"; anything else is newest
// first.
func (uc *ReviewUseCase) ListUserReviews(ctx context.Context, userID, reviewType, sort string) ([]*entity.Review, error) {
	if reviewType != "" && reviewType != entity.ReviewTypeBuyer && reviewType != entity.ReviewTypeSeller {
		return nil, errors.BadRequest("Review type must be buyer or seller", nil)
	}

	reviews, err := uc.reviewRepo.ListByReviewedUser(ctx, userID, reviewType, sort == "createdAt_asc")
	if err != nil {
		return nil, err
	}

	if reviews == nil {
		reviews = []*entity.Review{}
	}
	return reviews, nil
}

type ReviewSummary struct {
	AverageRating      float64        `json:"average_rating"`
	TotalReviews       int            `json:"total_reviews"`
	RatingDistribution map[string]int `json:"rating_distribution"`
}

// GetUserReviewSummary reports, per role, the average rating, review count
// and how many reviews landed on each star value. Both roles are always
// present in the result.
func (uc *ReviewUseCase) GetUserReviewSummary(ctx context.Context, userID string) (map[string]ReviewSummary, error) {
	reviews, err := uc.reviewRepo.ListByReviewedUser(ctx, userID, "", false)
	if err != nil {
		return nil, err
	}

	summary := map[string]ReviewSummary{
		entity.ReviewTypeBuyer:  newReviewSummary(),
		entity.ReviewTypeSeller: newReviewSummary(),
	}

	sums := map[string]int{}
	for _, review := range reviews {
		s := summary[review.Type]
		s.TotalReviews++
		s.RatingDistribution[strconv.Itoa(review.Rating)]++
		summary[review.Type] = s
		sums[review.Type] += review.Rating
	}

	for role, s := range summary {
		if s.TotalReviews > 0 {
			s.AverageRating = roundToTenth(float64(sums[role]) / float64(s.TotalReviews))
			summary[role] = s
		}
	}

	return summary, nil
}

func newReviewSummary() ReviewSummary {
	return ReviewSummary{
		RatingDistribution: map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0},
	}
}
