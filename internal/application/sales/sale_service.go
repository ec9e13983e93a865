package sales

import (
	"context"
	"time"

	"github.com/crmpro/backend/internal/domain/catalog"
	"github.com/crmpro/backend/internal/domain/ledger"
	"github.com/crmpro/backend/internal/domain/sales"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/crmpro/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// SaleService records point-of-sale transactions and answers sale queries
type SaleService struct {
	txScope  TransactionScope
	saleRepo sales.SaleRepository
	eventBus shared.EventBus
}

// NewSaleService creates a new SaleService
func NewSaleService(
	txScope TransactionScope,
	saleRepo sales.SaleRepository,
	eventBus shared.EventBus,
) *SaleService {
	return &SaleService{
		txScope:  txScope,
		saleRepo: saleRepo,
		eventBus: eventBus,
	}
}

// ===================== Query Methods =====================

// GetByID retrieves a sale by ID
func (s *SaleService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// List retrieves sales within a period, newest first
func (s *SaleService) List(ctx context.Context, tenantID uuid.UUID, req ListSalesRequest) ([]SaleResponse, int64, error) {
	from, to := resolvePeriod(req.From, req.To)

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

	saleList, total, err := s.saleRepo.FindByDateRange(ctx, tenantID, from, to, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToSaleResponses(saleList), total, nil
}

// Totals returns aggregated revenue, paid and debt for a period
func (s *SaleService) Totals(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*SaleTotalsResponse, error) {
	totals, err := s.saleRepo.SumTotalsByDateRange(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	return &SaleTotalsResponse{
		From:        from,
		To:          to,
		Count:       totals.Count,
		TotalAmount: totals.TotalAmount,
		PaidAmount:  totals.PaidAmount,
		DebtAmount:  totals.DebtAmount,
	}, nil
}

// ===================== Command Methods =====================

// RecordSale records a sale: prices the items from the catalog, fixes
// the payment split, deducts stock and books debt lines when part of
// the total remains unpaid. Everything commits atomically.
func (s *SaleService) RecordSale(ctx context.Context, tenantID, soldBy uuid.UUID, req RecordSaleRequest) (*SaleResponse, error) {
	occurredAt := time.Now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	method := sales.PaymentMethod(req.PaymentMethod)
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	var sale *sales.Sale
	var debtLines []*ledger.SaleLine

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale = sales.NewSale(tenantID, req.CustomerName, req.CustomerPhone, soldBy, occurredAt)

		products := make([]*catalog.Product, len(req.Items))
		for i, item := range req.Items {
			product, err := repos.ProductRepo().FindByIDForTenant(ctx, tenantID, item.ProductID)
			if err != nil {
				return err
			}
			if err := sale.AddItem(product, catalog.SellType(item.SellType), item.Quantity); err != nil {
				return err
			}
			products[i] = product
		}

		if err := sale.Settle(method, valueobject.NewMoneyUZS(req.PaidAmount)); err != nil {
			return err
		}

		for i, item := range sale.Items {
			if err := products[i].DeductStock(item.BaseUnits); err != nil {
				return err
			}
			if err := repos.ProductRepo().SaveWithLock(ctx, products[i]); err != nil {
				return err
			}
		}

		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}

		lines, err := sale.BuildDebtLines()
		if err != nil {
			return err
		}
		debtLines = lines
		if len(lines) > 0 {
			return repos.LineRepo().SaveAll(ctx, lines)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishSaleEvents(ctx, sale, debtLines)

	response := ToSaleResponse(sale)
	return &response, nil
}

// publishSaleEvents publishes domain events from the sale and its debt lines
func (s *SaleService) publishSaleEvents(ctx context.Context, sale *sales.Sale, lines []*ledger.SaleLine) {
	if s.eventBus == nil {
		return
	}

	for _, event := range sale.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	sale.ClearDomainEvents()

	for _, line := range lines {
		for _, event := range line.GetDomainEvents() {
			_ = s.eventBus.Publish(ctx, event)
		}
		line.ClearDomainEvents()
	}
}

// resolvePeriod defaults to the current day when bounds are missing
func resolvePeriod(from, to *time.Time) (time.Time, time.Time) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)
	if from != nil {
		start = *from
	}
	if to != nil {
		end = *to
	}
	return start, end
}
