package catalog

import (
	"context"
	"testing"

	"github.com/crmpro/backend/internal/domain/catalog"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Category, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func TestCategoryService(t *testing.T) {
	tenantID := uuid.New()

	t.Run("create and rename", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		service := NewCategoryService(repo)
		created, err := service.Create(context.Background(), tenantID, CreateCategoryRequest{
			Name: "Ichimliklar", SortOrder: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, "Ichimliklar", created.Name)
		assert.Equal(t, 2, created.SortOrder)

		category, err := catalog.NewCategory(tenantID, "Sut mahsulotlari")
		require.NoError(t, err)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, category.ID).Return(category, nil)

		updated, err := service.Update(context.Background(), tenantID, category.ID, UpdateCategoryRequest{
			Name: "Sut", SortOrder: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, "Sut", updated.Name)
	})

	t.Run("create rejects empty name", func(t *testing.T) {
		service := NewCategoryService(new(MockCategoryRepository))
		_, err := service.Create(context.Background(), tenantID, CreateCategoryRequest{Name: "  "})
		assert.Error(t, err)
	})

	t.Run("delete missing category propagates not found", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		id := uuid.New()
		repo.On("FindByIDForTenant", mock.Anything, tenantID, id).Return(nil, shared.ErrNotFound)

		service := NewCategoryService(repo)
		err := service.Delete(context.Background(), tenantID, id)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}
