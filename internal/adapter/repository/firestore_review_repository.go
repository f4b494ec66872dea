package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"threadmarket/internal/domain/entity"
	"threadmarket/internal/domain/repository"
	"threadmarket/pkg/errors"
)

type firestoreReviewRepository struct {
	client *firestore.Client
}

func NewFirestoreReviewRepository(client *firestore.Client) repository.ReviewRepository {
	return &firestoreReviewRepository{
		client: client,
	}
}

// reviewDocID derives the document ID from the unique review tuple, so the
// store itself rejects a duplicate review atomically at insert time. Two
// concurrent submissions for the same tuple cannot both pass a pre-check and
// both land: Create on an existing document fails with AlreadyExists.
func reviewDocID(review *entity.Review) string {
	return fmt.Sprintf("%s_%s_%s_%s", review.ReviewerID, review.ReviewedID, review.ProductID, review.Type)
}

func (r *firestoreReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	review.ID = reviewDocID(review)
	review.CreatedAt = time.Now()

	_, err := r.client.Collection("reviews").Doc(review.ID).Create(ctx, review)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Conflict("You have already reviewed this transaction", err)
		}
		return errors.Internal("Failed to create review", err)
	}

	return nil
}

func (r *firestoreReviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	doc, err := r.client.Collection("reviews").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Review", err)
		}
		return nil, errors.Internal("Failed to get review", err)
	}

	var review entity.Review
	if err := doc.DataTo(&review); err != nil {
		return nil, errors.Internal("Failed to parse review data", err)
	}

	return &review, nil
}

func (r *firestoreReviewRepository) ListByReviewedUser(ctx context.Context, userID, reviewType string, sortAsc bool) ([]*entity.Review, error) {
	query := r.client.Collection("reviews").Where("reviewedId", "==", userID)

	if reviewType != "" {
		query = query.Where("type", "==", reviewType)
	}

	order := firestore.Desc
	if sortAsc {
		order = firestore.Asc
	}
	query = query.OrderBy("createdAt", order)

	iter := query.Documents(ctx)
	var reviews []*entity.Review

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate reviews", err)
		}

		var review entity.Review
		if err := doc.DataTo(&review); err != nil {
			return nil, errors.Internal("Failed to parse review data", err)
		}
		reviews = append(reviews, &review)
	}

	return reviews, nil
}
