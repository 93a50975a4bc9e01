package handler

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/domain/entity"
	"tradepost/internal/usecase"
	"tradepost/pkg/response"
	"tradepost/pkg/utils"
)

type ItemHandler struct {
	itemUseCase *usecase.ItemUseCase
}

func NewItemHandler(itemUseCase *usecase.ItemUseCase) *ItemHandler {
	return &ItemHandler{
		itemUseCase: itemUseCase,
	}
}

type createItemRequest struct {
	CategoryID  string             `json:"category_id" validate:"required"`
	Title       string             `json:"title" validate:"required,min=3,max=120"`
	Description string             `json:"description" validate:"required,min=10"`
	Price       float64            `json:"price" validate:"required,gt=0"`
	Images      []entity.ItemImage `json:"images"`
}

type updateItemRequest struct {
	CategoryID  string             `json:"category_id"`
	Title       string             `json:"title" validate:"omitempty,min=3,max=120"`
	Description string             `json:"description" validate:"omitempty,min=10"`
	Price       float64            `json:"price" validate:"omitempty,gt=0"`
	Images      []entity.ItemImage `json:"images"`
}

type approvalRequest struct {
	ApprovalStatus string `json:"approval_status" validate:"required,oneof=pending approved rejected"`
}

func (h *ItemHandler) Create(c echo.Context) error {
	var req createItemRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sellerID := c.Get("uid").(string)

	item, err := h.itemUseCase.Create(c.Request().Context(), sellerID, usecase.CreateItemInput{
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Images:      req.Images,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, item)
}

func (h *ItemHandler) GetByID(c echo.Context) error {
	viewerID, _ := c.Get("uid").(string)

	item, err := h.itemUseCase.GetByID(c.Request().Context(), viewerID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

func (h *ItemHandler) List(c echo.Context) error {
	params := utils.GetPaginationParams(c)
	viewerID, _ := c.Get("uid").(string)

	items, total, err := h.itemUseCase.List(c.Request().Context(), viewerID, usecase.ListItemsParams{
		CategoryID: c.QueryParam("category_id"),
		Status:     c.QueryParam("status"),
		Query:      c.QueryParam("q"),
		Sort:       c.QueryParam("sort"),
		Limit:      params.PageSize,
		Offset:     params.Offset,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, items, total, params.PageSize, params.Offset)
}

func (h *ItemHandler) ListBySeller(c echo.Context) error {
	params := utils.GetPaginationParams(c)
	viewerID, _ := c.Get("uid").(string)

	items, total, err := h.itemUseCase.ListBySeller(c.Request().Context(), viewerID, c.Param("id"), params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, items, total, params.PageSize, params.Offset)
}

func (h *ItemHandler) MyItems(c echo.Context) error {
	params := utils.GetPaginationParams(c)
	sellerID := c.Get("uid").(string)

	items, total, err := h.itemUseCase.ListBySeller(c.Request().Context(), sellerID, sellerID, params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.SuccessPaginated(c, items, total, params.PageSize, params.Offset)
}

func (h *ItemHandler) Update(c echo.Context) error {
	var req updateItemRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	callerID := c.Get("uid").(string)

	item, err := h.itemUseCase.Update(c.Request().Context(), callerID, c.Param("id"), usecase.UpdateItemInput{
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Images:      req.Images,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

func (h *ItemHandler) SetApproval(c echo.Context) error {
	var req approvalRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	adminID := c.Get("uid").(string)

	item, err := h.itemUseCase.SetApproval(c.Request().Context(), adminID, c.Param("id"), req.ApprovalStatus)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

func (h *ItemHandler) MarkSold(c echo.Context) error {
	callerID := c.Get("uid").(string)

	item, err := h.itemUseCase.MarkSold(c.Request().Context(), callerID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

func (h *ItemHandler) Delete(c echo.Context) error {
	callerID := c.Get("uid").(string)

	if err := h.itemUseCase.Delete(c.Request().Context(), callerID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Item deleted"})
}
