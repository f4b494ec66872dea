package usecase

import (
	"context"
	"encoding/json"
	"time"

	"threadmarket/internal/domain/entity"
	"threadmarket/internal/domain/repository"
	"threadmarket/pkg/errors"
	"threadmarket/pkg/logger"
)

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	pusher      MessagePusher
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	pusher MessagePusher,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		pusher:      pusher,
	}
}

type CreateChatInput struct {
	RecipientID    string
	ProductID      string
	InitialMessage string
}

type ChatResponse struct {
	*entity.Chat
	Product   *entity.Product       `json:"product,omitempty"`
	OtherUser *entity.PublicProfile `json:"other_user,omitempty"`
}

type MessageResponse struct {
	*entity.Message
	Sender *entity.PublicProfile `json:"sender,omitempty"`
}

// CreateChat opens a two-party conversation about a product, reusing an
// existing chat for the same pair and product.
func (uc *ChatUseCase) CreateChat(ctx context.Context, userID string, input CreateChatInput) (*ChatResponse, error) {
	if userID == input.RecipientID {
		return nil, errors.BadRequest("You cannot create a chat with yourself", nil)
	}

	recipient, err := uc.userRepo.GetByID(ctx, input.RecipientID)
	if err != nil {
		return nil, err
	}

	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	chat, err := uc.chatRepo.GetByParticipantsAndProduct(ctx, userID, input.RecipientID, input.ProductID)
	if err != nil {
		if !errors.Is(err, "NOT_FOUND") {
			return nil, err
		}

		chat = &entity.Chat{
			Participants:  []string{userID, input.RecipientID},
			ProductID:     input.ProductID,
			UnreadCount:   make(map[string]int),
			LastMessageAt: time.Now(),
		}
		if err := uc.chatRepo.Create(ctx, chat); err != nil {
			return nil, err
		}
	}

	if input.InitialMessage != "" {
		if _, err := uc.SendMessage(ctx, userID, SendMessageInput{
			ChatID:  chat.ID,
			Content: input.InitialMessage,
		}); err != nil {
			return nil, err
		}
		chat, err = uc.chatRepo.GetByID(ctx, chat.ID)
		if err != nil {
			return nil, err
		}
	}

	return &ChatResponse{
		Chat:      chat,
		Product:   product,
		OtherUser: publicProfile(recipient),
	}, nil
}

type SendMessageInput struct {
	ChatID  string
	Content string
}

// SendMessage appends a message; the chat's lastMessage metadata and the
// counterpart's unread counter move in the same store write as the message
// itself.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*MessageResponse, error) {
	chat, err := uc.chatRepo.GetByID(ctx, input.ChatID)
	if err != nil {
		return nil, err
	}

	if !chat.HasParticipant(senderID) {
		return nil, errors.Forbidden("You are not a participant of this chat", nil)
	}

	message := &entity.Message{
		ChatID:   chat.ID,
		SenderID: senderID,
		Content:  input.Content,
		ReadBy:   []string{senderID},
	}

	if chat.UnreadCount == nil {
		chat.UnreadCount = make(map[string]int)
	}
	for _, participantID := range chat.Participants {
		if participantID != senderID {
			chat.UnreadCount[participantID]++
		}
	}

	if err := uc.chatRepo.AppendMessage(ctx, chat, message); err != nil {
		return nil, err
	}

	uc.pushToParticipants(chat, senderID, message)

	return &MessageResponse{Message: message}, nil
}

func (uc *ChatUseCase) pushToParticipants(chat *entity.Chat, senderID string, message *entity.Message) {
	if uc.pusher == nil {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"type":    "message",
		"chat_id": chat.ID,
		"message": message,
	})
	if err != nil {
		logger.Warn("Failed to marshal message push for chat %s: %v", chat.ID, err)
		return
	}

	for _, participantID := range chat.Participants {
		if participantID != senderID {
			uc.pusher.SendToUser(participantID, payload)
		}
	}
}

func (uc *ChatUseCase) ListChats(ctx context.Context, userID string, page, pageSize int) ([]*entity.Chat, int64, error) {
	offset := (page - 1) * pageSize

	chats, total, err := uc.chatRepo.ListByUserID(ctx, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}

	if chats == nil {
		chats = []*entity.Chat{}
	}
	return chats, total, nil
}

func (uc *ChatUseCase) GetMessages(ctx context.Context, userID, chatID string, page, pageSize int) ([]*entity.Message, int64, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, 0, err
	}

	if !chat.HasParticipant(userID) {
		return nil, 0, errors.Forbidden("You are not a participant of this chat", nil)
	}

	offset := (page - 1) * pageSize

	messages, total, err := uc.chatRepo.GetMessagesByChat(ctx, chatID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}

	if messages == nil {
		messages = []*entity.Message{}
	}
	return messages, total, nil
}

// MarkChatRead clears the caller's unread counter and marks the counterpart's
// messages as read.
func (uc *ChatUseCase) MarkChatRead(ctx context.Context, userID, chatID string) error {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return err
	}

	if !chat.HasParticipant(userID) {
		return errors.Forbidden("You are not a participant of this chat", nil)
	}

	if err := uc.chatRepo.MarkMessagesRead(ctx, chatID, userID); err != nil {
		return err
	}

	if chat.UnreadCount == nil {
		chat.UnreadCount = make(map[string]int)
	}
	if chat.UnreadCount[userID] != 0 {
		chat.UnreadCount[userID] = 0
		if err := uc.chatRepo.Update(ctx, chat); err != nil {
			return err
		}
	}

	return nil
}
