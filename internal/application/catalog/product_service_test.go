package catalog

import (
	"context"
	"testing"

	"github.com/crmpro/backend/internal/domain/catalog"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/crmpro/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindLowStock(ctx context.Context, tenantID uuid.UUID) ([]*catalog.Product, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductQuota is a mock implementation of ProductQuota
type MockProductQuota struct {
	mock.Mock
}

func (m *MockProductQuota) EnsureCanAddProduct(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func newStoredProduct(t *testing.T, tenantID uuid.UUID) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(tenantID, "Sut 1L", "dona", 1,
		valueobject.NewMoneyUZSFromInt(9000), valueobject.NewMoneyUZSFromInt(12000))
	require.NoError(t, err)
	product.ClearDomainEvents()
	return product
}

func TestProductService_Create(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates product with initial stock", func(t *testing.T) {
		repo := new(MockProductRepository)
		quota := new(MockProductQuota)
		quota.On("EnsureCanAddProduct", mock.Anything, tenantID).Return(nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		service := NewProductService(repo, quota, nil)
		result, err := service.Create(context.Background(), tenantID, CreateProductRequest{
			Name:         "Non",
			Unit:         "dona",
			CostPrice:    decimal.NewFromInt(2000),
			SellingPrice: decimal.NewFromInt(3000),
			InitialStock: decimal.NewFromInt(100),
		})

		require.NoError(t, err)
		assert.Equal(t, "Non", result.Name)
		assert.Equal(t, int64(1), result.PackSize)
		assert.True(t, result.StockQty.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, "active", result.Status)
		repo.AssertExpectations(t)
	})

	t.Run("plan quota blocks creation", func(t *testing.T) {
		repo := new(MockProductRepository)
		quota := new(MockProductQuota)
		quota.On("EnsureCanAddProduct", mock.Anything, tenantID).Return(shared.ErrQuotaExceeded)

		service := NewProductService(repo, quota, nil)
		result, err := service.Create(context.Background(), tenantID, CreateProductRequest{
			Name: "Non", Unit: "dona",
		})

		assert.Nil(t, result)
		assert.Equal(t, shared.ErrQuotaExceeded, err)
		repo.AssertNotCalled(t, "Save")
	})

	t.Run("rejects empty name", func(t *testing.T) {
		repo := new(MockProductRepository)
		quota := new(MockProductQuota)
		quota.On("EnsureCanAddProduct", mock.Anything, tenantID).Return(nil)

		service := NewProductService(repo, quota, nil)
		_, err := service.Create(context.Background(), tenantID, CreateProductRequest{
			Name: "   ", Unit: "dona",
		})

		assert.Error(t, err)
	})
}

func TestProductService_ReceiveStock(t *testing.T) {
	tenantID := uuid.New()

	t.Run("adds stock through the optimistic lock", func(t *testing.T) {
		repo := new(MockProductRepository)
		product := newStoredProduct(t, tenantID)

		repo.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil)
		repo.On("SaveWithLock", mock.Anything, product).Return(nil)

		service := NewProductService(repo, nil, nil)
		result, err := service.ReceiveStock(context.Background(), tenantID, product.ID, ReceiveStockRequest{
			Quantity: decimal.NewFromInt(40),
		})

		require.NoError(t, err)
		assert.True(t, result.StockQty.Equal(decimal.NewFromInt(40)))
		repo.AssertNotCalled(t, "Save")
	})

	t.Run("version conflict surfaces unchanged", func(t *testing.T) {
		repo := new(MockProductRepository)
		product := newStoredProduct(t, tenantID)

		repo.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil)
		repo.On("SaveWithLock", mock.Anything, product).Return(shared.ErrConcurrencyConflict)

		service := NewProductService(repo, nil, nil)
		_, err := service.ReceiveStock(context.Background(), tenantID, product.ID, ReceiveStockRequest{
			Quantity: decimal.NewFromInt(40),
		})

		assert.Equal(t, shared.ErrConcurrencyConflict, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		repo := new(MockProductRepository)
		product := newStoredProduct(t, tenantID)

		repo.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil)

		service := NewProductService(repo, nil, nil)
		_, err := service.ReceiveStock(context.Background(), tenantID, product.ID, ReceiveStockRequest{
			Quantity: decimal.Zero,
		})

		assert.Error(t, err)
		repo.AssertNotCalled(t, "SaveWithLock")
	})
}

func TestProductService_SetPrices(t *testing.T) {
	tenantID := uuid.New()

	t.Run("updates both prices", func(t *testing.T) {
		repo := new(MockProductRepository)
		product := newStoredProduct(t, tenantID)

		repo.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil)
		repo.On("Save", mock.Anything, product).Return(nil)

		service := NewProductService(repo, nil, nil)
		result, err := service.SetPrices(context.Background(), tenantID, product.ID, SetPricesRequest{
			CostPrice:    decimal.NewFromInt(9500),
			SellingPrice: decimal.NewFromInt(13000),
		})

		require.NoError(t, err)
		assert.True(t, result.SellingPrice.Equal(decimal.NewFromInt(13000)))
	})

	t.Run("missing product propagates not found", func(t *testing.T) {
		repo := new(MockProductRepository)
		id := uuid.New()
		repo.On("FindByIDForTenant", mock.Anything, tenantID, id).Return(nil, shared.ErrNotFound)

		service := NewProductService(repo, nil, nil)
		_, err := service.SetPrices(context.Background(), tenantID, id, SetPricesRequest{})

		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestProductService_LowStock(t *testing.T) {
	tenantID := uuid.New()

	repo := new(MockProductRepository)
	product := newStoredProduct(t, tenantID)
	require.NoError(t, product.SetMinStock(decimal.NewFromInt(10)))
	require.NoError(t, product.SetStock(decimal.NewFromInt(4)))

	repo.On("FindLowStock", mock.Anything, tenantID).Return([]*catalog.Product{product}, nil)

	service := NewProductService(repo, nil, nil)
	result, err := service.LowStock(context.Background(), tenantID)

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.True(t, result[0].LowStock)
}
