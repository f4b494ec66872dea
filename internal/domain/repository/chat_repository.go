package repository

import (
	"context"

	"threadmarket/internal/domain/entity"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	GetByParticipantsAndProduct(ctx context.Context, userA, userB, productID string) (*entity.Chat, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error)
	Update(ctx context.Context, chat *entity.Chat) error

	// AppendMessage writes the message and the chat's updated lastMessage
	// metadata in a single atomic batch.
	AppendMessage(ctx context.Context, chat *entity.Chat, message *entity.Message) error

	GetMessagesByChat(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error)
	MarkMessagesRead(ctx context.Context, chatID, userID string) error
}
