package inventory

import (
	"context"
	"errors"

	"github.com/crmpro/backend/internal/domain/catalog"
	"github.com/crmpro/backend/internal/domain/inventory"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// snapshotPageSize bounds catalog reads while snapshotting a session
const snapshotPageSize = 500

// StockCountService handles stock count sessions: snapshotting the
// catalog, recording physical counts and reconciling the differences
// back onto the products.
type StockCountService struct {
	txScope     TransactionScope
	countRepo   inventory.StockCountRepository
	productRepo catalog.ProductRepository
	eventBus    shared.EventBus
}

// NewStockCountService creates a new StockCountService
func NewStockCountService(
	txScope TransactionScope,
	countRepo inventory.StockCountRepository,
	productRepo catalog.ProductRepository,
	eventBus shared.EventBus,
) *StockCountService {
	return &StockCountService{
		txScope:     txScope,
		countRepo:   countRepo,
		productRepo: productRepo,
		eventBus:    eventBus,
	}
}

// ===================== Query Methods =====================

// GetByID retrieves a count session with its items
func (s *StockCountService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*StockCountResponse, error) {
	sc, err := s.countRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToStockCountResponse(sc, true)
	return &response, nil
}

// GetDraft returns the open draft session for a tenant, if any
func (s *StockCountService) GetDraft(ctx context.Context, tenantID uuid.UUID) (*StockCountResponse, error) {
	sc, err := s.countRepo.FindDraftByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	response := ToStockCountResponse(sc, true)
	return &response, nil
}

// List returns count sessions, newest first, optionally by status
func (s *StockCountService) List(ctx context.Context, tenantID uuid.UUID, req ListStockCountsRequest) (*shared.Paginated[StockCountResponse], error) {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}

	status := inventory.StockCountStatus(req.Status)
	if req.Status == "" {
		status = inventory.StockCountStatusCompleted
	}

	page, err := s.countRepo.FindByStatus(ctx, tenantID, status, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]StockCountResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = ToStockCountResponse(&page.Items[i], false)
	}
	result := shared.NewPaginated(responses, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// ===================== Command Methods =====================

// Start opens a new count session and snapshots the current system
// quantity of every active product into it. Only one draft session
// may be open per store.
func (s *StockCountService) Start(ctx context.Context, tenantID, startedBy uuid.UUID, req StartStockCountRequest) (*StockCountResponse, error) {
	existing, err := s.countRepo.FindDraftByTenant(ctx, tenantID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("COUNT_IN_PROGRESS", "A stock count is already in progress")
	}

	sc, err := inventory.NewStockCount(tenantID, startedBy, req.Note)
	if err != nil {
		return nil, err
	}

	filter := shared.DefaultFilter()
	filter.PageSize = snapshotPageSize
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	filter.Filters["status"] = string(catalog.ProductStatusActive)

	for page := 1; ; page++ {
		filter.Page = page

		products, err := s.productRepo.FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return nil, err
		}
		for i := range products {
			product := &products[i]
			if err := sc.AddItem(product.ID, product.Name, product.Unit, product.StockQty); err != nil {
				return nil, err
			}
		}
		if len(products) < snapshotPageSize {
			break
		}
	}

	if err := s.countRepo.Save(ctx, sc); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sc)

	response := ToStockCountResponse(sc, true)
	return &response, nil
}

// RecordCount stores the physically counted quantity for one product
func (s *StockCountService) RecordCount(ctx context.Context, tenantID, id uuid.UUID, req RecordCountRequest) (*StockCountResponse, error) {
	sc, err := s.countRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := sc.RecordCount(req.ProductID, req.ActualQty); err != nil {
		return nil, err
	}

	if err := s.countRepo.Save(ctx, sc); err != nil {
		return nil, err
	}

	response := ToStockCountResponse(sc, true)
	return &response, nil
}

// Complete closes the session and reconciles stock: every counted item
// with a discrepancy has its product set to the counted quantity.
// Items that were never counted keep their system quantity. Product
// writes go through the optimistic lock so a concurrent sale aborts
// the reconciliation instead of being silently overwritten.
func (s *StockCountService) Complete(ctx context.Context, tenantID, id uuid.UUID) (*StockCountResponse, error) {
	var sc *inventory.StockCount

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		loaded, err := repos.CountRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		sc = loaded

		if err := sc.Complete(); err != nil {
			return err
		}

		for _, item := range sc.Discrepancies() {
			product, err := repos.ProductRepo().FindByIDForTenant(ctx, tenantID, item.ProductID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					// product removed mid-count, nothing to reconcile
					continue
				}
				return err
			}
			if err := product.SetStock(*item.ActualQty); err != nil {
				return err
			}
			if err := repos.ProductRepo().SaveWithLock(ctx, product); err != nil {
				return err
			}
		}

		return repos.CountRepo().Save(ctx, sc)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sc)

	response := ToStockCountResponse(sc, true)
	return &response, nil
}

// Cancel abandons a draft session without touching stock
func (s *StockCountService) Cancel(ctx context.Context, tenantID, id uuid.UUID, req CancelStockCountRequest) error {
	sc, err := s.countRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := sc.Cancel(req.Reason); err != nil {
		return err
	}

	return s.countRepo.Save(ctx, sc)
}

// publishEvents publishes and clears pending domain events
func (s *StockCountService) publishEvents(ctx context.Context, sc *inventory.StockCount) {
	if s.eventBus == nil {
		return
	}
	for _, event := range sc.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	sc.ClearDomainEvents()
}
