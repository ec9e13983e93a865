package sales

import (
	"context"
	"testing"
	"time"

	"github.com/crmpro/backend/internal/domain/catalog"
	"github.com/crmpro/backend/internal/domain/ledger"
	"github.com/crmpro/backend/internal/domain/sales"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/crmpro/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSaleRepository is a mock implementation of SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Sale, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Sale, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time, filter shared.Filter) ([]*sales.Sale, int64, error) {
	args := m.Called(ctx, tenantID, from, to, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*sales.Sale), args.Get(1).(int64), args.Error(2)
}

func (m *MockSaleRepository) SumTotalsByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*sales.SaleTotals, error) {
	args := m.Called(ctx, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.SaleTotals), args.Error(1)
}

func (m *MockSaleRepository) SumItemsByProduct(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]sales.ProductSales, error) {
	args := m.Called(ctx, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.ProductSales), args.Error(1)
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
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

// MockSaleLineRepository is a mock implementation of SaleLineRepository
type MockSaleLineRepository struct {
	mock.Mock
}

func (m *MockSaleLineRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.SaleLine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.SaleLine), args.Error(1)
}

func (m *MockSaleLineRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.SaleLine, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.SaleLine), args.Error(1)
}

func (m *MockSaleLineRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.SaleLine, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.SaleLine), args.Error(1)
}

func (m *MockSaleLineRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ledger.SaleLine, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.SaleLine), args.Error(1)
}

func (m *MockSaleLineRepository) FindDebtsByTenant(ctx context.Context, tenantID uuid.UUID) ([]*ledger.SaleLine, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.SaleLine), args.Error(1)
}

func (m *MockSaleLineRepository) FindDebtsByCustomer(ctx context.Context, tenantID uuid.UUID, normalizedName string) ([]*ledger.SaleLine, error) {
	args := m.Called(ctx, tenantID, normalizedName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.SaleLine), args.Error(1)
}

func (m *MockSaleLineRepository) FindBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]*ledger.SaleLine, error) {
	args := m.Called(ctx, tenantID, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.SaleLine), args.Error(1)
}

func (m *MockSaleLineRepository) Save(ctx context.Context, line *ledger.SaleLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockSaleLineRepository) SaveWithLock(ctx context.Context, line *ledger.SaleLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockSaleLineRepository) SaveAll(ctx context.Context, lines []*ledger.SaleLine) error {
	args := m.Called(ctx, lines)
	return args.Error(0)
}

func (m *MockSaleLineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSaleLineRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func newTestProduct(t *testing.T, tenantID uuid.UUID, name string, price int64, stock int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(tenantID, name, "dona", 1,
		valueobject.NewMoneyUZSFromInt(price*2/3), valueobject.NewMoneyUZSFromInt(price))
	require.NoError(t, err)
	require.NoError(t, product.SetStock(decimal.NewFromInt(stock)))
	product.ClearDomainEvents()
	return product
}

func TestSaleService_RecordSale(t *testing.T) {
	tenantID := uuid.New()
	sellerID := uuid.New()

	newService := func(saleRepo *MockSaleRepository, productRepo *MockProductRepository, lineRepo *MockSaleLineRepository) *SaleService {
		scope := NewNoOpTransactionScope(saleRepo, productRepo, lineRepo)
		return NewSaleService(scope, saleRepo, nil)
	}

	t.Run("cash sale deducts stock and books no debt", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		productRepo := new(MockProductRepository)
		lineRepo := new(MockSaleLineRepository)

		product := newTestProduct(t, tenantID, "Non", 3000, 50)
		productRepo.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil)
		productRepo.On("SaveWithLock", mock.Anything, product).Return(nil)
		saleRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		result, err := newService(saleRepo, productRepo, lineRepo).RecordSale(context.Background(), tenantID, sellerID, RecordSaleRequest{
			CustomerName:  "aziz",
			PaymentMethod: "cash",
			Items: []SaleItemRequest{
				{ProductID: product.ID, SellType: "unit", Quantity: decimal.NewFromInt(2)},
			},
		})

		require.NoError(t, err)
		assert.True(t, result.TotalAmount.Equal(decimal.NewFromInt(6000)))
		assert.True(t, result.DebtAmount.IsZero())
		assert.True(t, product.StockQty.Equal(decimal.NewFromInt(48)))
		lineRepo.AssertNotCalled(t, "SaveAll")
	})

	t.Run("debt sale books one ledger line per item", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		productRepo := new(MockProductRepository)
		lineRepo := new(MockSaleLineRepository)

		bread := newTestProduct(t, tenantID, "Non", 3000, 50)
		milk := newTestProduct(t, tenantID, "Sut 1L", 12000, 30)
		productRepo.On("FindByIDForTenant", mock.Anything, tenantID, bread.ID).Return(bread, nil)
		productRepo.On("FindByIDForTenant", mock.Anything, tenantID, milk.ID).Return(milk, nil)
		productRepo.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil)
		saleRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		var savedLines []*ledger.SaleLine
		lineRepo.On("SaveAll", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				savedLines = args.Get(1).([]*ledger.SaleLine)
			}).Return(nil)

		result, err := newService(saleRepo, productRepo, lineRepo).RecordSale(context.Background(), tenantID, sellerID, RecordSaleRequest{
			CustomerName:  "aziz",
			PaymentMethod: "debt",
			Items: []SaleItemRequest{
				{ProductID: bread.ID, SellType: "unit", Quantity: decimal.NewFromInt(2)},
				{ProductID: milk.ID, SellType: "unit", Quantity: decimal.NewFromInt(1)},
			},
		})

		require.NoError(t, err)
		assert.True(t, result.DebtAmount.Equal(decimal.NewFromInt(18000)))
		require.Len(t, savedLines, 2)

		lineDebt := decimal.Zero
		for _, line := range savedLines {
			lineDebt = lineDebt.Add(line.Debt)
		}
		assert.True(t, lineDebt.Equal(result.DebtAmount))
	})

	t.Run("partial payment prorates debt across lines", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		productRepo := new(MockProductRepository)
		lineRepo := new(MockSaleLineRepository)

		bread := newTestProduct(t, tenantID, "Non", 3000, 50)
		milk := newTestProduct(t, tenantID, "Sut 1L", 12000, 30)
		productRepo.On("FindByIDForTenant", mock.Anything, tenantID, bread.ID).Return(bread, nil)
		productRepo.On("FindByIDForTenant", mock.Anything, tenantID, milk.ID).Return(milk, nil)
		productRepo.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil)
		saleRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		var savedLines []*ledger.SaleLine
		lineRepo.On("SaveAll", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				savedLines = args.Get(1).([]*ledger.SaleLine)
			}).Return(nil)

		result, err := newService(saleRepo, productRepo, lineRepo).RecordSale(context.Background(), tenantID, sellerID, RecordSaleRequest{
			CustomerName:  "aziz",
			PaymentMethod: "partial",
			PaidAmount:    decimal.NewFromInt(10000),
			Items: []SaleItemRequest{
				{ProductID: bread.ID, SellType: "unit", Quantity: decimal.NewFromInt(2)},
				{ProductID: milk.ID, SellType: "unit", Quantity: decimal.NewFromInt(1)},
			},
		})

		require.NoError(t, err)
		assert.True(t, result.DebtAmount.Equal(decimal.NewFromInt(8000)))

		lineDebt := decimal.Zero
		for _, line := range savedLines {
			lineDebt = lineDebt.Add(line.Debt)
		}
		assert.True(t, lineDebt.Equal(decimal.NewFromInt(8000)), "line debts must sum exactly to the sale debt")
	})

	t.Run("insufficient stock rolls the sale back", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		productRepo := new(MockProductRepository)
		lineRepo := new(MockSaleLineRepository)

		product := newTestProduct(t, tenantID, "Non", 3000, 1)
		productRepo.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil)

		result, err := newService(saleRepo, productRepo, lineRepo).RecordSale(context.Background(), tenantID, sellerID, RecordSaleRequest{
			PaymentMethod: "cash",
			Items: []SaleItemRequest{
				{ProductID: product.ID, SellType: "unit", Quantity: decimal.NewFromInt(5)},
			},
		})

		assert.Nil(t, result)
		assert.Equal(t, shared.ErrInsufficientStock, err)
		saleRepo.AssertNotCalled(t, "Save")
	})

	t.Run("rejects partial payment outside the open interval", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		productRepo := new(MockProductRepository)
		lineRepo := new(MockSaleLineRepository)

		product := newTestProduct(t, tenantID, "Non", 3000, 50)
		productRepo.On("FindByIDForTenant", mock.Anything, tenantID, product.ID).Return(product, nil)

		service := newService(saleRepo, productRepo, lineRepo)
		for _, paid := range []int64{0, 6000, 9000} {
			result, err := service.RecordSale(context.Background(), tenantID, sellerID, RecordSaleRequest{
				PaymentMethod: "partial",
				PaidAmount:    decimal.NewFromInt(paid),
				Items: []SaleItemRequest{
					{ProductID: product.ID, SellType: "unit", Quantity: decimal.NewFromInt(2)},
				},
			})
			assert.Nil(t, result)
			assert.Error(t, err)
		}
	})
}

func TestSaleService_Totals(t *testing.T) {
	tenantID := uuid.New()

	t.Run("returns aggregated period totals", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 0, 1)

		saleRepo.On("SumTotalsByDateRange", mock.Anything, tenantID, from, to).
			Return(&sales.SaleTotals{
				Count:       3,
				TotalAmount: decimal.NewFromInt(45000),
				PaidAmount:  decimal.NewFromInt(30000),
				DebtAmount:  decimal.NewFromInt(15000),
			}, nil)

		service := NewSaleService(NewNoOpTransactionScope(saleRepo, nil, nil), saleRepo, nil)
		result, err := service.Totals(context.Background(), tenantID, from, to)

		require.NoError(t, err)
		assert.Equal(t, int64(3), result.Count)
		assert.True(t, result.DebtAmount.Equal(decimal.NewFromInt(15000)))
	})
}
