package handler

import (
	"github.com/labstack/echo/v4"

	"threadmarket/internal/usecase"
	"threadmarket/pkg/errors"
	"threadmarket/pkg/response"
	"threadmarket/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type createChatRequest struct {
	RecipientID    string `json:"recipient_id" validate:"required"`
	ProductID      string `json:"product_id" validate:"required"`
	InitialMessage string `json:"initial_message" validate:"omitempty,max=2000"`
}

func (h *ChatHandler) CreateChat(c echo.Context) error {
	var req createChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	chat, err := h.chatUseCase.CreateChat(c.Request().Context(), userID, usecase.CreateChatInput{
		RecipientID:    req.RecipientID,
		ProductID:      req.ProductID,
		InitialMessage: req.InitialMessage,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, chat)
}

func (h *ChatHandler) ListChats(c echo.Context) error {
	userID := c.Get("uid").(string)

	pagination := utils.GetPaginationParams(c)

	chats, total, err := h.chatUseCase.ListChats(c.Request().Context(), userID, pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, chats, total, pagination.Page, pagination.PageSize)
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	chatID := c.Param("chatId")
	if chatID == "" {
		return response.Error(c, errors.BadRequest("Chat ID is required", nil))
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), userID, usecase.SendMessageInput{
		ChatID:  chatID,
		Content: req.Content,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *ChatHandler) GetMessages(c echo.Context) error {
	chatID := c.Param("chatId")
	if chatID == "" {
		return response.Error(c, errors.BadRequest("Chat ID is required", nil))
	}

	userID := c.Get("uid").(string)

	pagination := utils.GetPaginationParams(c)

	messages, total, err := h.chatUseCase.GetMessages(c.Request().Context(), userID, chatID, pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, messages, total, pagination.Page, pagination.PageSize)
}

func (h *ChatHandler) MarkChatRead(c echo.Context) error {
	chatID := c.Param("chatId")
	if chatID == "" {
		return response.Error(c, errors.BadRequest("Chat ID is required", nil))
	}

	userID := c.Get("uid").(string)

	if err := h.chatUseCase.MarkChatRead(c.Request().Context(), userID, chatID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Chat marked as read",
	})
}
