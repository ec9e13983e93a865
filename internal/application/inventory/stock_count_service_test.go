package inventory

import (
	"context"
	"testing"

	"github.com/crmpro/backend/internal/domain/catalog"
	"github.com/crmpro/backend/internal/domain/inventory"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/crmpro/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStockCountRepository is a mock implementation of StockCountRepository
type MockStockCountRepository struct {
	mock.Mock
}

func (m *MockStockCountRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockCount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockCount), args.Error(1)
}

func (m *MockStockCountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.StockCount, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockCount), args.Error(1)
}

func (m *MockStockCountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockCount, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockCount), args.Error(1)
}

func (m *MockStockCountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.StockCount, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockCount), args.Error(1)
}

func (m *MockStockCountRepository) FindDraftByTenant(ctx context.Context, tenantID uuid.UUID) (*inventory.StockCount, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockCount), args.Error(1)
}

func (m *MockStockCountRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status inventory.StockCountStatus, filter shared.Filter) (*shared.Paginated[inventory.StockCount], error) {
	args := m.Called(ctx, tenantID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[inventory.StockCount]), args.Error(1)
}

func (m *MockStockCountRepository) Save(ctx context.Context, sc *inventory.StockCount) error {
	args := m.Called(ctx, sc)
	return args.Error(0)
}

func (m *MockStockCountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStockCountRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

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

func newCatalogProduct(t *testing.T, tenantID uuid.UUID, name string, stock int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(tenantID, name, "dona", 1,
		valueobject.NewMoneyUZSFromInt(2000), valueobject.NewMoneyUZSFromInt(3000))
	require.NoError(t, err)
	require.NoError(t, product.SetStock(decimal.NewFromInt(stock)))
	product.ClearDomainEvents()
	return product
}

func newService(countRepo *MockStockCountRepository, productRepo *MockProductRepository) *StockCountService {
	scope := NewNoOpTransactionScope(countRepo, productRepo)
	return NewStockCountService(scope, countRepo, productRepo, nil)
}

func TestStockCountService_Start(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("snapshots active products into a draft", func(t *testing.T) {
		countRepo := new(MockStockCountRepository)
		productRepo := new(MockProductRepository)

		bread := newCatalogProduct(t, tenantID, "Non", 80)
		milk := newCatalogProduct(t, tenantID, "Sut 1L", 24)

		countRepo.On("FindDraftByTenant", mock.Anything, tenantID).Return(nil, shared.ErrNotFound)
		productRepo.On("FindAllForTenant", mock.Anything, tenantID, mock.Anything).
			Return([]catalog.Product{*bread, *milk}, nil)
		countRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		result, err := newService(countRepo, productRepo).Start(context.Background(), tenantID, userID, StartStockCountRequest{Note: "oy oxiri"})

		require.NoError(t, err)
		assert.Equal(t, "DRAFT", result.Status)
		assert.Equal(t, 2, result.TotalItems)
		assert.Equal(t, 0, result.CountedItems)
		require.Len(t, result.Items, 2)
		assert.True(t, result.Items[0].SystemQty.Equal(decimal.NewFromInt(80)))
		assert.Nil(t, result.Items[0].ActualQty)
	})

	t.Run("second draft is rejected", func(t *testing.T) {
		countRepo := new(MockStockCountRepository)
		productRepo := new(MockProductRepository)

		open, err := inventory.NewStockCount(tenantID, userID, "")
		require.NoError(t, err)
		countRepo.On("FindDraftByTenant", mock.Anything, tenantID).Return(open, nil)

		_, err = newService(countRepo, productRepo).Start(context.Background(), tenantID, userID, StartStockCountRequest{})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "COUNT_IN_PROGRESS", domainErr.Code)
		countRepo.AssertNotCalled(t, "Save")
	})
}

func TestStockCountService_Complete(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	newDraft := func(t *testing.T, products ...*catalog.Product) *inventory.StockCount {
		t.Helper()
		sc, err := inventory.NewStockCount(tenantID, userID, "")
		require.NoError(t, err)
		for _, p := range products {
			require.NoError(t, sc.AddItem(p.ID, p.Name, p.Unit, p.StockQty))
		}
		sc.ClearDomainEvents()
		return sc
	}

	t.Run("writes counted quantities back onto discrepant products", func(t *testing.T) {
		countRepo := new(MockStockCountRepository)
		productRepo := new(MockProductRepository)

		bread := newCatalogProduct(t, tenantID, "Non", 80)
		milk := newCatalogProduct(t, tenantID, "Sut 1L", 24)
		sugar := newCatalogProduct(t, tenantID, "Shakar", 50)
		sc := newDraft(t, bread, milk, sugar)

		// bread short by 5, milk matches, sugar never counted
		require.NoError(t, sc.RecordCount(bread.ID, decimal.NewFromInt(75)))
		require.NoError(t, sc.RecordCount(milk.ID, decimal.NewFromInt(24)))

		countRepo.On("FindByIDForTenant", mock.Anything, tenantID, sc.ID).Return(sc, nil)
		productRepo.On("FindByIDForTenant", mock.Anything, tenantID, bread.ID).Return(bread, nil)
		productRepo.On("SaveWithLock", mock.Anything, bread).Return(nil)
		countRepo.On("Save", mock.Anything, sc).Return(nil)

		result, err := newService(countRepo, productRepo).Complete(context.Background(), tenantID, sc.ID)

		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", result.Status)
		assert.Equal(t, 1, result.DiscrepancyItems)
		assert.True(t, bread.StockQty.Equal(decimal.NewFromInt(75)))
		assert.True(t, sugar.StockQty.Equal(decimal.NewFromInt(50)), "uncounted items keep their system quantity")
		productRepo.AssertNumberOfCalls(t, "SaveWithLock", 1)
	})

	t.Run("completing with no recorded counts fails", func(t *testing.T) {
		countRepo := new(MockStockCountRepository)
		productRepo := new(MockProductRepository)

		bread := newCatalogProduct(t, tenantID, "Non", 80)
		sc := newDraft(t, bread)
		countRepo.On("FindByIDForTenant", mock.Anything, tenantID, sc.ID).Return(sc, nil)

		_, err := newService(countRepo, productRepo).Complete(context.Background(), tenantID, sc.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NO_COUNTS", domainErr.Code)
		countRepo.AssertNotCalled(t, "Save")
	})

	t.Run("version conflict aborts the reconciliation", func(t *testing.T) {
		countRepo := new(MockStockCountRepository)
		productRepo := new(MockProductRepository)

		bread := newCatalogProduct(t, tenantID, "Non", 80)
		sc := newDraft(t, bread)
		require.NoError(t, sc.RecordCount(bread.ID, decimal.NewFromInt(70)))

		countRepo.On("FindByIDForTenant", mock.Anything, tenantID, sc.ID).Return(sc, nil)
		productRepo.On("FindByIDForTenant", mock.Anything, tenantID, bread.ID).Return(bread, nil)
		productRepo.On("SaveWithLock", mock.Anything, bread).Return(shared.ErrConcurrencyConflict)

		_, err := newService(countRepo, productRepo).Complete(context.Background(), tenantID, sc.ID)

		assert.Equal(t, shared.ErrConcurrencyConflict, err)
		countRepo.AssertNotCalled(t, "Save")
	})
}

func TestStockCountService_RecordCount(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("records a count and tracks discrepancies", func(t *testing.T) {
		countRepo := new(MockStockCountRepository)
		productRepo := new(MockProductRepository)

		bread := newCatalogProduct(t, tenantID, "Non", 80)
		sc, err := inventory.NewStockCount(tenantID, userID, "")
		require.NoError(t, err)
		require.NoError(t, sc.AddItem(bread.ID, bread.Name, bread.Unit, bread.StockQty))

		countRepo.On("FindByIDForTenant", mock.Anything, tenantID, sc.ID).Return(sc, nil)
		countRepo.On("Save", mock.Anything, sc).Return(nil)

		result, err := newService(countRepo, productRepo).RecordCount(context.Background(), tenantID, sc.ID, RecordCountRequest{
			ProductID: bread.ID,
			ActualQty: decimal.NewFromInt(77),
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.CountedItems)
		assert.Equal(t, 1, result.DiscrepancyItems)
		require.Len(t, result.Items, 1)
		assert.True(t, result.Items[0].Difference.Equal(decimal.NewFromInt(-3)))
	})

	t.Run("unknown product is rejected", func(t *testing.T) {
		countRepo := new(MockStockCountRepository)
		productRepo := new(MockProductRepository)

		sc, err := inventory.NewStockCount(tenantID, userID, "")
		require.NoError(t, err)
		countRepo.On("FindByIDForTenant", mock.Anything, tenantID, sc.ID).Return(sc, nil)

		_, err = newService(countRepo, productRepo).RecordCount(context.Background(), tenantID, sc.ID, RecordCountRequest{
			ProductID: uuid.New(),
			ActualQty: decimal.NewFromInt(5),
		})

		assert.Error(t, err)
		countRepo.AssertNotCalled(t, "Save")
	})
}
