package usecase

import (
	"context"
	"time"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/pkg/errors"
)

type CategoryUseCase struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryUseCase(categoryRepo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{categoryRepo: categoryRepo}
}

type CategoryInput struct {
	Name        string `json:"name" validate:"required,min=2,max=60"`
	Slug        string `json:"slug" validate:"required,min=2,max=60,lowercase"`
	Description string `json:"description" validate:"omitempty,max=300"`
	Icon        string `json:"icon"`
}

func (uc *CategoryUseCase) Create(ctx context.Context, input CategoryInput) (*entity.Category, error) {
	if _, err := uc.categoryRepo.GetBySlug(ctx, input.Slug); err == nil {
		return nil, errors.BadRequest("Category slug already in use", nil)
	}

	now := time.Now()
	category := &entity.Category{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		Icon:        input.Icon,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return uc.categoryRepo.GetByID(ctx, id)
}

func (uc *CategoryUseCase) List(ctx context.Context) ([]*entity.Category, error) {
	return uc.categoryRepo.List(ctx)
}

func (uc *CategoryUseCase) Update(ctx context.Context, id string, input CategoryInput) (*entity.Category, error) {
	category, err := uc.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Slug != category.Slug {
		if _, err := uc.categoryRepo.GetBySlug(ctx, input.Slug); err == nil {
			return nil, errors.BadRequest("Category slug already in use", nil)
		}
	}

	category.Name = input.Name
	category.Slug = input.Slug
	category.Description = input.Description
	category.Icon = input.Icon
	category.UpdatedAt = time.Now()

	if err := uc.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.categoryRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return uc.categoryRepo.Delete(ctx, id)
}
