package entity

import "time"

// PricePoint records one price a product was listed at. A point is appended
// whenever the listed price changes.
type PricePoint struct {
	ID        string    `json:"id" firestore:"id"`
	ProductID string    `json:"product_id" firestore:"productId"`
	Price     float64   `json:"price" firestore:"price"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp"`
}
