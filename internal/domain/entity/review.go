package entity

import (
	"time"
)

const (
	// ReviewTypeBuyer rates the buyer and may only be written by the seller.
	ReviewTypeBuyer = "buyer"
	// ReviewTypeSeller rates the seller and may only be written by the buyer.
	ReviewTypeSeller = "seller"
)

// Review is immutable once created. The tuple
// (reviewerId, reviewedId, productId, type) is unique: at most one review per
// role per transaction, enforced at the store by the document ID.
type Review struct {
	ID         string    `json:"id" firestore:"id"`
	ReviewerID string    `json:"reviewer_id" firestore:"reviewerId"`
	ReviewedID string    `json:"reviewed_id" firestore:"reviewedId"`
	ProductID  string    `json:"product_id" firestore:"productId"`
	Rating     int       `json:"rating" firestore:"rating"` // 1-5
	Comment    string    `json:"comment" firestore:"comment"`
	Type       string    `json:"type" firestore:"type"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}
