package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"threadmarket/internal/domain/repository"
	"threadmarket/internal/usecase"
	"threadmarket/pkg/errors"
	"threadmarket/pkg/response"
	"threadmarket/pkg/utils"
)

type ProductHandler struct {
	productUseCase *usecase.ProductUseCase
}

func NewProductHandler(productUseCase *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
	}
}

type createProductRequest struct {
	Title       string   `json:"title" validate:"required,max=100"`
	Description string   `json:"description" validate:"required,max=1000"`
	Price       float64  `json:"price" validate:"required,gte=0"`
	Category    string   `json:"category" validate:"required,oneof=Tops Bottoms Dresses Outerwear Accessories Shoes Other"`
	Size        string   `json:"size" validate:"required,oneof=XS S M L XL XXL 'One Size'"`
	Condition   string   `json:"condition" validate:"required,oneof=New 'Like New' Good Fair"`
	Images      []string `json:"images" validate:"required,min=1"`
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	product, err := h.productUseCase.CreateProduct(c.Request().Context(), userID, usecase.CreateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Size:        req.Size,
		Condition:   req.Condition,
		Images:      req.Images,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, product)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	product, err := h.productUseCase.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	filter := repository.ProductFilter{
		Category:  c.QueryParam("category"),
		Size:      c.QueryParam("size"),
		Condition: c.QueryParam("condition"),
		Status:    c.QueryParam("status"),
		SellerID:  c.QueryParam("sellerId"),
	}

	if minPrice := c.QueryParam("minPrice"); minPrice != "" {
		v, err := strconv.ParseFloat(minPrice, 64)
		if err != nil {
			return response.Error(c, errors.BadRequest("Invalid minPrice value", err))
		}
		filter.MinPrice = v
	}
	if maxPrice := c.QueryParam("maxPrice"); maxPrice != "" {
		v, err := strconv.ParseFloat(maxPrice, 64)
		if err != nil {
			return response.Error(c, errors.BadRequest("Invalid maxPrice value", err))
		}
		filter.MaxPrice = v
	}

	pagination := utils.GetPaginationParams(c)

	products, total, err := h.productUseCase.ListProducts(c.Request().Context(), filter, pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, products, total, pagination.Page, pagination.PageSize)
}

func (h *ProductHandler) SearchProducts(c echo.Context) error {
	query := c.Param("query")
	if query == "" {
		return response.Error(c, errors.BadRequest("Search query is required", nil))
	}

	pagination := utils.GetPaginationParams(c)

	products, total, err := h.productUseCase.SearchProducts(c.Request().Context(), query, pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, products, total, pagination.Page, pagination.PageSize)
}

type updateProductRequest struct {
	Title       string   `json:"title" validate:"omitempty,max=100"`
	Description string   `json:"description" validate:"omitempty,max=1000"`
	Price       float64  `json:"price" validate:"omitempty,gte=0"`
	Category    string   `json:"category" validate:"omitempty,oneof=Tops Bottoms Dresses Outerwear Accessories Shoes Other"`
	Size        string   `json:"size" validate:"omitempty,oneof=XS S M L XL XXL 'One Size'"`
	Condition   string   `json:"condition" validate:"omitempty,oneof=New 'Like New' Good Fair"`
	Images      []string `json:"images"`
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	product, err := h.productUseCase.UpdateProduct(c.Request().Context(), userID, c.Param("id"), usecase.UpdateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Size:        req.Size,
		Condition:   req.Condition,
		Images:      req.Images,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.productUseCase.DeleteProduct(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Product removed",
	})
}

type markSoldRequest struct {
	BuyerID string `json:"buyer_id" validate:"required"`
}

func (h *ProductHandler) MarkProductSold(c echo.Context) error {
	var req markSoldRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	product, err := h.productUseCase.MarkProductSold(c.Request().Context(), userID, c.Param("id"), req.BuyerID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) GetPriceHistory(c echo.Context) error {
	points, err := h.productUseCase.GetPriceHistory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, points)
}
