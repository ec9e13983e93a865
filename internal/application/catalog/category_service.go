package catalog

import (
	"context"

	"github.com/crmpro/backend/internal/domain/catalog"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryService handles category use cases
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// List retrieves all categories for a tenant in display order
func (s *CategoryService) List(ctx context.Context, tenantID uuid.UUID) ([]CategoryResponse, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 200
	filter.OrderBy = "sort_order"
	filter.OrderDir = "asc"

	categories, err := s.categoryRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponses(categories), nil
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	category, err := catalog.NewCategory(tenantID, req.Name)
	if err != nil {
		return nil, err
	}
	category.SetSortOrder(req.SortOrder)

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// Update renames a category and adjusts its display order
func (s *CategoryService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := category.Rename(req.Name); err != nil {
		return nil, err
	}
	category.SetSortOrder(req.SortOrder)

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// Delete removes a category. Products keep working, they just lose
// the grouping.
func (s *CategoryService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, category.ID)
}
