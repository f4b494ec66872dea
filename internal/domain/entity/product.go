package entity

import (
	"time"
)

const (
	ProductStatusActive  = "active"
	ProductStatusSold    = "sold"
	ProductStatusPending = "pending"
)

type Product struct {
	ID          string   `json:"id" firestore:"id"`
	SellerID    string   `json:"seller_id" firestore:"sellerId"`
	Title       string   `json:"title" firestore:"title"`
	Description string   `json:"description" firestore:"description"`
	Price       float64  `json:"price" firestore:"price"`
	Category    string   `json:"category" firestore:"category"` // Tops, Bottoms, Dresses, Outerwear, Accessories, Shoes, Other
	Size        string   `json:"size" firestore:"size"`         // XS..XXL, One Size
	Condition   string   `json:"condition" firestore:"condition"` // New, Like New, Good, Fair
	Images      []string `json:"images" firestore:"images"`
	Status      string   `json:"status" firestore:"status"`

	// BuyerID is recorded when the seller marks the product sold. It is the
	// ground truth for who may leave a seller review on this transaction.
	BuyerID string `json:"buyer_id,omitempty" firestore:"buyerId,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
	SoldAt    *time.Time `json:"sold_at,omitempty" firestore:"soldAt,omitempty"`
}
