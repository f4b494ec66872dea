package entity

import "time"

type Chat struct {
	ID            string         `json:"id" firestore:"id"`
	Participants  []string       `json:"participants" firestore:"participants"` // always exactly 2
	ProductID     string         `json:"product_id" firestore:"productId"`
	CreatedAt     time.Time      `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time      `json:"updated_at" firestore:"updatedAt"`
	LastMessageAt time.Time      `json:"last_message_at" firestore:"lastMessageAt"`
	LastMessage   string         `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	UnreadCount   map[string]int `json:"unread_count" firestore:"unreadCount"`
}

// HasParticipant reports whether userID is one of the chat's two participants.
func (c *Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
