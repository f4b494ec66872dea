package usecase

import "context"

type FirebaseAuthClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	SignInWithEmailPassword(email, password string) (string, error)
}

// MessagePusher delivers a payload to a connected user, if any. Implemented
// by the WebSocket manager; delivery is best effort.
type MessagePusher interface {
	SendToUser(userID string, payload []byte)
}
