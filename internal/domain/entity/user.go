package entity

import (
	"time"
)

// RatingSummary is the derived {rating, count} pair for one review role.
type RatingSummary struct {
	Rating float64 `json:"rating" firestore:"rating"`
	Count  int     `json:"count" firestore:"count"`
}

// UserRatings holds both roles; it is always written wholesale by a full
// recompute over the user's reviews, never patched incrementally.
type UserRatings struct {
	Buyer  RatingSummary `json:"buyer" firestore:"buyer"`
	Seller RatingSummary `json:"seller" firestore:"seller"`
}

type User struct {
	ID       string `json:"id" firestore:"id"`
	Email    string `json:"email" firestore:"email"`
	Username string `json:"username" firestore:"username"`
	Phone    string `json:"phone" firestore:"phone"`
	Bio      string `json:"bio" firestore:"bio"`
	Address  string `json:"address,omitempty" firestore:"address,omitempty"`
	Status   string `json:"status" firestore:"status"`

	AvatarURL string `json:"avatar_url,omitempty" firestore:"avatarURL,omitempty"`

	Ratings UserRatings `json:"ratings" firestore:"ratings"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// PublicProfile is the user view exposed to other users.
type PublicProfile struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Bio       string      `json:"bio"`
	AvatarURL string      `json:"avatar_url,omitempty"`
	Ratings   UserRatings `json:"ratings"`
	CreatedAt time.Time   `json:"created_at"`
}
