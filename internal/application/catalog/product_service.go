package catalog

import (
	"context"

	"github.com/crmpro/backend/internal/domain/catalog"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/crmpro/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ProductQuota answers whether a tenant's plan allows another product.
// Implemented by the billing subscription service.
type ProductQuota interface {
	EnsureCanAddProduct(ctx context.Context, tenantID uuid.UUID) error
}

// ProductService handles product catalog use cases
type ProductService struct {
	productRepo catalog.ProductRepository
	quota       ProductQuota
	eventBus    shared.EventBus
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	quota ProductQuota,
	eventBus shared.EventBus,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		quota:       quota,
		eventBus:    eventBus,
	}
}

// ===================== Query Methods =====================

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByBarcode looks a product up by its barcode, for scanner-driven sales
func (s *ProductService) GetByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByBarcode(ctx, tenantID, barcode)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products for a tenant with filtering and pagination
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, req ListProductsRequest) ([]ProductResponse, int64, error) {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	filter.OrderBy = req.OrderBy
	filter.OrderDir = req.OrderDir
	filter.Search = req.Search
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}
	if req.CategoryID != "" {
		filter.Filters["category_id"] = req.CategoryID
	}
	if req.LowStock {
		filter.Filters["low_stock"] = true
	}

	products, err := s.productRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	countFilter := filter
	countFilter.Filters["tenant_id"] = tenantID
	total, err := s.productRepo.Count(ctx, countFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// LowStock returns active products at or below their alert levels
func (s *ProductService) LowStock(ctx context.Context, tenantID uuid.UUID) ([]ProductResponse, error) {
	products, err := s.productRepo.FindLowStock(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, len(products))
	for i, product := range products {
		responses[i] = ToProductResponse(product)
	}
	return responses, nil
}

// ===================== Command Methods =====================

// Create creates a new product, enforcing the tenant's plan quota
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	if s.quota != nil {
		if err := s.quota.EnsureCanAddProduct(ctx, tenantID); err != nil {
			return nil, err
		}
	}

	packSize := req.PackSize
	if packSize < 1 {
		packSize = 1
	}

	product, err := catalog.NewProduct(tenantID, req.Name, req.Unit, packSize,
		valueobject.NewMoneyUZS(req.CostPrice), valueobject.NewMoneyUZS(req.SellingPrice))
	if err != nil {
		return nil, err
	}

	if req.Barcode != "" {
		if err := product.SetBarcode(req.Barcode); err != nil {
			return nil, err
		}
	}
	product.SetCategory(req.CategoryID)
	if req.MinStock.IsPositive() {
		if err := product.SetMinStock(req.MinStock); err != nil {
			return nil, err
		}
	}
	if req.InitialStock.IsPositive() {
		if err := product.ReceiveStock(req.InitialStock, nil); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Update updates a product's basic attributes
func (s *ProductService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	packSize := req.PackSize
	if packSize < 1 {
		packSize = 1
	}
	if err := product.Update(req.Name, req.Unit, packSize); err != nil {
		return nil, err
	}
	product.SetCategory(req.CategoryID)

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// SetPrices changes a product's cost and selling prices
func (s *ProductService) SetPrices(ctx context.Context, tenantID, id uuid.UUID, req SetPricesRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := product.SetPrices(valueobject.NewMoneyUZS(req.CostPrice), valueobject.NewMoneyUZS(req.SellingPrice)); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// SetBarcode assigns a barcode to a product
func (s *ProductService) SetBarcode(ctx context.Context, tenantID, id uuid.UUID, req SetBarcodeRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := product.SetBarcode(req.Barcode); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// SetMinStock changes a product's low-stock alert level
func (s *ProductService) SetMinStock(ctx context.Context, tenantID, id uuid.UUID, req SetMinStockRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := product.SetMinStock(req.MinStock); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// ReceiveStock books an incoming delivery onto a product. The write
// goes through the optimistic lock so a concurrent sale cannot lose
// the delivery.
func (s *ProductService) ReceiveStock(ctx context.Context, tenantID, id uuid.UUID, req ReceiveStockRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	var unitCost *valueobject.Money
	if req.UnitCost != nil {
		cost := valueobject.NewMoneyUZS(*req.UnitCost)
		unitCost = &cost
	}

	if err := product.ReceiveStock(req.Quantity, unitCost); err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Activate returns a product to active status
func (s *ProductService) Activate(ctx context.Context, tenantID, id uuid.UUID) error {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := product.Activate(); err != nil {
		return err
	}

	return s.productRepo.Save(ctx, product)
}

// Deactivate hides a product from sales without deleting its history
func (s *ProductService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := product.Deactivate(); err != nil {
		return err
	}

	return s.productRepo.Save(ctx, product)
}

// publishEvents publishes and clears pending domain events
func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.eventBus == nil {
		return
	}
	for _, event := range product.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	product.ClearDomainEvents()
}
