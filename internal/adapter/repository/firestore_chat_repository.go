package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"threadmarket/internal/domain/entity"
	"threadmarket/internal/domain/repository"
	"threadmarket/pkg/errors"
	"threadmarket/pkg/logger"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

// validateParticipants is the write-time guard: no chat document ever lands
// with anything other than two participants.
func validateParticipants(chat *entity.Chat) error {
	if len(chat.Participants) != 2 {
		return errors.BadRequest("Chat must have exactly 2 participants", nil)
	}
	return nil
}

func (r *firestoreChatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	if err := validateParticipants(chat); err != nil {
		return err
	}

	if chat.ID == "" {
		chat.ID = uuid.New().String()
	}

	now := time.Now()
	chat.CreatedAt = now
	chat.UpdatedAt = now

	_, err := r.client.Collection("chats").Doc(chat.ID).Set(ctx, chat)
	if err != nil {
		return errors.Internal("Failed to create chat", err)
	}

	return nil
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	doc, err := r.client.Collection("chats").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat", err)
		}
		return nil, errors.Internal("Failed to get chat", err)
	}

	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, errors.Internal("Failed to parse chat data", err)
	}

	return &chat, nil
}

func (r *firestoreChatRepository) GetByParticipantsAndProduct(ctx context.Context, userA, userB, productID string) (*entity.Chat, error) {
	query := r.client.Collection("chats").
		Where("participants", "array-contains", userA).
		Where("productId", "==", productID)

	iter := query.Documents(ctx)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to query chats", err)
		}

		var chat entity.Chat
		if err := doc.DataTo(&chat); err != nil {
			continue
		}
		if chat.HasParticipant(userB) {
			return &chat, nil
		}
	}

	return nil, errors.NotFound("Chat", nil)
}

func (r *firestoreChatRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error) {
	query := r.client.Collection("chats").
		Where("participants", "array-contains", userID).
		OrderBy("lastMessageAt", firestore.Desc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count chats", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var chats []*entity.Chat

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate chats", err)
		}

		var chat entity.Chat
		if err := doc.DataTo(&chat); err != nil {
			return nil, 0, errors.Internal("Failed to parse chat data", err)
		}
		chats = append(chats, &chat)
	}

	return chats, total, nil
}

func (r *firestoreChatRepository) Update(ctx context.Context, chat *entity.Chat) error {
	if err := validateParticipants(chat); err != nil {
		return err
	}

	chat.UpdatedAt = time.Now()

	_, err := r.client.Collection("chats").Doc(chat.ID).Set(ctx, chat)
	if err != nil {
		return errors.Internal("Failed to update chat", err)
	}

	return nil
}

// AppendMessage commits the message document and the chat's lastMessage
// metadata in one batch, so a reader never sees a message without the bumped
// lastMessageAt or vice versa.
func (r *firestoreChatRepository) AppendMessage(ctx context.Context, chat *entity.Chat, message *entity.Message) error {
	if err := validateParticipants(chat); err != nil {
		return err
	}

	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()

	chat.LastMessage = message.Content
	chat.LastMessageAt = message.CreatedAt
	chat.UpdatedAt = message.CreatedAt

	batch := r.client.Batch()
	batch.Set(r.client.Collection("chats").Doc(chat.ID).Collection("messages").Doc(message.ID), message)
	batch.Set(r.client.Collection("chats").Doc(chat.ID), chat)

	if _, err := batch.Commit(ctx); err != nil {
		return errors.Internal("Failed to append message", err)
	}

	return nil
}

func (r *firestoreChatRepository) GetMessagesByChat(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error) {
	query := r.client.Collection("chats").Doc(chatID).Collection("messages").OrderBy("createdAt", firestore.Desc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count messages", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, 0, errors.Internal("Failed to parse message data", err)
		}
		messages = append(messages, &message)
	}

	return messages, total, nil
}

func (r *firestoreChatRepository) MarkMessagesRead(ctx context.Context, chatID, userID string) error {
	iter := r.client.Collection("chats").Doc(chatID).Collection("messages").Documents(ctx)

	batch := r.client.Batch()
	dirty := false

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			logger.Warn("Error parsing message %s in chat %s: %v", doc.Ref.ID, chatID, err)
			continue
		}

		alreadyRead := false
		for _, reader := range message.ReadBy {
			if reader == userID {
				alreadyRead = true
				break
			}
		}
		if alreadyRead || message.SenderID == userID {
			continue
		}

		batch.Update(doc.Ref, []firestore.Update{
			{Path: "readBy", Value: firestore.ArrayUnion(userID)},
		})
		dirty = true
	}

	if !dirty {
		return nil
	}

	if _, err := batch.Commit(ctx); err != nil {
		return errors.Internal("Failed to mark messages read", err)
	}

	return nil
}
