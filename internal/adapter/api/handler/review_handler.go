package handler

import (
	"github.com/labstack/echo/v4"

	"threadmarket/internal/usecase"
	"threadmarket/pkg/errors"
	"threadmarket/pkg/response"
)

type ReviewHandler struct {
	reviewUseCase *usecase.ReviewUseCase
}

func NewReviewHandler(reviewUseCase *usecase.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{
		reviewUseCase: reviewUseCase,
	}
}

type createReviewRequest struct {
	ReviewedID string `json:"reviewed" validate:"required"`
	ProductID  string `json:"product" validate:"required"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"required,max=500"`
	Type       string `json:"type" validate:"required,oneof=buyer seller"`
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	review, err := h.reviewUseCase.CreateReview(c.Request().Context(), userID, usecase.CreateReviewInput{
		ReviewedID: req.ReviewedID,
		ProductID:  req.ProductID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		Type:       req.Type,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, review)
}

func (h *ReviewHandler) GetUserReviews(c echo.Context) error {
	userID := c.Param("userId")
	if userID == "" {
		return response.Error(c, errors.BadRequest("User ID is required", nil))
	}

	reviewType := c.QueryParam("type")
	sort := c.QueryParam("sort")

	reviews, err := h.reviewUseCase.ListUserReviews(c.Request().Context(), userID, reviewType, sort)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, reviews)
}

func (h *ReviewHandler) GetUserReviewSummary(c echo.Context) error {
	userID := c.Param("userId")
	if userID == "" {
		return response.Error(c, errors.BadRequest("User ID is required", nil))
	}

	summary, err := h.reviewUseCase.GetUserReviewSummary(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, summary)
}
