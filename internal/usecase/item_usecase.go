package usecase

import (
	"context"
	"time"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/pkg/errors"
	"tradepost/pkg/logger"
)

type ItemUseCase struct {
	itemRepo     repository.ItemRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
}

func NewItemUseCase(
	itemRepo repository.ItemRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
) *ItemUseCase {
	return &ItemUseCase{
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
	}
}

type CreateItemInput struct {
	CategoryID  string             `json:"category_id" validate:"required"`
	Title       string             `json:"title" validate:"required,min=3,max=120"`
	Description string             `json:"description" validate:"required,min=10"`
	Price       float64            `json:"price" validate:"required,gt=0"`
	Images      []entity.ItemImage `json:"images"`
}

type UpdateItemInput struct {
	CategoryID  string             `json:"category_id"`
	Title       string             `json:"title" validate:"omitempty,min=3,max=120"`
	Description string             `json:"description" validate:"omitempty,min=10"`
	Price       float64            `json:"price" validate:"omitempty,gt=0"`
	Images      []entity.ItemImage `json:"images"`
}

// Create stores a new listing. Admin listings go live immediately;
// everyone else's wait in the moderation queue.
func (uc *ItemUseCase) Create(ctx context.Context, sellerID string, input CreateItemInput) (*entity.Item, error) {
	seller, err := uc.userRepo.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.categoryRepo.GetByID(ctx, input.CategoryID); err != nil {
		return nil, errors.BadRequest("Category not found", err)
	}

	approval := entity.ApprovalPending
	if seller.IsAdmin() {
		approval = entity.ApprovalApproved
	}

	now := time.Now()
	item := &entity.Item{
		SellerID:       sellerID,
		CategoryID:     input.CategoryID,
		Title:          input.Title,
		Description:    input.Description,
		Price:          input.Price,
		Images:         input.Images,
		Status:         entity.ItemStatusAvailable,
		ApprovalStatus: approval,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// GetByID fetches a listing and bumps its view counter. Non-approved
// listings are only visible to their seller and to admins.
func (uc *ItemUseCase) GetByID(ctx context.Context, viewerID, itemID string) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if item.ApprovalStatus != entity.ApprovalApproved && item.SellerID != viewerID {
		viewer, err := uc.userRepo.GetByID(ctx, viewerID)
		if err != nil || !viewer.IsAdmin() {
			return nil, errors.NotFound("Item", nil)
		}
	}

	if err := uc.itemRepo.IncrementViews(ctx, itemID); err != nil {
		logger.Warn("failed to increment views for item %s: %v", itemID, err)
	}

	return item, nil
}

type ListItemsParams struct {
	CategoryID string
	Status     string
	Query      string
	Sort       string
	Limit      int
	Offset     int
}

// List returns approved listings matching the filter. Admins may pass a
// status filter to browse the moderation queue.
func (uc *ItemUseCase) List(ctx context.Context, viewerID string, params ListItemsParams) ([]*entity.Item, int64, error) {
	filter := map[string]interface{}{}
	if params.CategoryID != "" {
		filter["categoryId"] = params.CategoryID
	}
	if params.Status != "" {
		filter["status"] = params.Status
	}

	approvalFilter := entity.ApprovalApproved
	if viewerID != "" {
		if viewer, err := uc.userRepo.GetByID(ctx, viewerID); err == nil && viewer.IsAdmin() {
			approvalFilter = ""
		}
	}
	if approvalFilter != "" {
		filter["approvalStatus"] = approvalFilter
	}

	if params.Query != "" {
		return uc.itemRepo.SearchByTitle(ctx, params.Query, filter, params.Limit, params.Offset)
	}
	return uc.itemRepo.List(ctx, filter, params.Sort, params.Limit, params.Offset)
}

// ListBySeller returns a seller's own listings regardless of approval
// state when the seller themselves is asking; other viewers only see
// approved ones.
func (uc *ItemUseCase) ListBySeller(ctx context.Context, viewerID, sellerID string, limit, offset int) ([]*entity.Item, int64, error) {
	items, total, err := uc.itemRepo.ListBySellerID(ctx, sellerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	if viewerID == sellerID {
		return items, total, nil
	}

	visible := make([]*entity.Item, 0, len(items))
	for _, item := range items {
		if item.ApprovalStatus == entity.ApprovalApproved {
			visible = append(visible, item)
		}
	}
	return visible, int64(len(visible)), nil
}

// Update applies an edit to a listing. Edits by a non-admin seller drop
// the listing back to pending so the change is re-moderated; an admin
// editing their own listing keeps it approved.
func (uc *ItemUseCase) Update(ctx context.Context, callerID, itemID string, input UpdateItemInput) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	caller, err := uc.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	if item.SellerID != callerID && !caller.IsAdmin() {
		return nil, errors.Forbidden("You do not own this item", nil)
	}

	if input.CategoryID != "" {
		if _, err := uc.categoryRepo.GetByID(ctx, input.CategoryID); err != nil {
			return nil, errors.BadRequest("Category not found", err)
		}
		item.CategoryID = input.CategoryID
	}
	if input.Title != "" {
		item.Title = input.Title
	}
	if input.Description != "" {
		item.Description = input.Description
	}
	if input.Price > 0 {
		item.Price = input.Price
	}
	if input.Images != nil {
		item.Images = input.Images
	}

	if !caller.IsAdmin() {
		item.ApprovalStatus = entity.ApprovalPending
	}
	item.UpdatedAt = time.Now()

	if err := uc.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// SetApproval moves a listing through the moderation states. Admin only;
// the handler layer enforces the role, this revalidates it.
func (uc *ItemUseCase) SetApproval(ctx context.Context, adminID, itemID, approvalStatus string) (*entity.Item, error) {
	admin, err := uc.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.IsAdmin() {
		return nil, errors.Forbidden("Admin access required", nil)
	}

	switch approvalStatus {
	case entity.ApprovalApproved, entity.ApprovalRejected, entity.ApprovalPending:
	default:
		return nil, errors.BadRequest("Invalid approval status", nil)
	}

	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	item.ApprovalStatus = approvalStatus
	item.UpdatedAt = time.Now()

	if err := uc.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// MarkSold flips the listing to sold. Seller only.
func (uc *ItemUseCase) MarkSold(ctx context.Context, callerID, itemID string) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if item.SellerID != callerID {
		return nil, errors.Forbidden("You do not own this item", nil)
	}
	if item.Status == entity.ItemStatusSold {
		return nil, errors.InvalidOperation("Item is already sold", nil)
	}

	item.Status = entity.ItemStatusSold
	item.UpdatedAt = time.Now()

	if err := uc.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// Delete removes a listing. Seller or admin.
func (uc *ItemUseCase) Delete(ctx context.Context, callerID, itemID string) error {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}

	if item.SellerID != callerID {
		caller, err := uc.userRepo.GetByID(ctx, callerID)
		if err != nil {
			return err
		}
		if !caller.IsAdmin() {
			return errors.Forbidden("You do not own this item", nil)
		}
	}

	return uc.itemRepo.Delete(ctx, itemID)
}
