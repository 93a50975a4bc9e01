package handler

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/usecase"
	"tradepost/pkg/response"
)

type CategoryHandler struct {
	categoryUseCase *usecase.CategoryUseCase
}

func NewCategoryHandler(categoryUseCase *usecase.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{
		categoryUseCase: categoryUseCase,
	}
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=60"`
	Slug        string `json:"slug" validate:"required,min=2,max=60,lowercase"`
	Description string `json:"description" validate:"omitempty,max=300"`
	Icon        string `json:"icon"`
}

func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	category, err := h.categoryUseCase.Create(c.Request().Context(), usecase.CategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, category)
}

func (h *CategoryHandler) GetByID(c echo.Context) error {
	category, err := h.categoryUseCase.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, category)
}

func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.categoryUseCase.List(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, categories)
}

func (h *CategoryHandler) Update(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	category, err := h.categoryUseCase.Update(c.Request().Context(), c.Param("id"), usecase.CategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, category)
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	if err := h.categoryUseCase.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Category deleted"})
}
