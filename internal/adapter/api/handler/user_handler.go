package handler

import (
	"github.com/labstack/echo/v4"

	"threadmarket/internal/usecase"
	"threadmarket/pkg/errors"
	"threadmarket/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

func (h *UserHandler) GetMe(c echo.Context) error {
	userID := c.Get("uid").(string)

	user, err := h.userUseCase.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

type updateProfileRequest struct {
	Username  string `json:"username" validate:"omitempty,min=3,max=30"`
	Phone     string `json:"phone"`
	Bio       string `json:"bio" validate:"omitempty,max=500"`
	Address   string `json:"address"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), userID, usecase.UpdateProfileInput{
		Username:  req.Username,
		Phone:     req.Phone,
		Bio:       req.Bio,
		Address:   req.Address,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	profile, err := h.userUseCase.GetPublicProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}
