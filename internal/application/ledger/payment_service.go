package ledger

import (
	"context"

	"github.com/crmpro/backend/internal/domain/ledger"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/crmpro/backend/internal/domain/shared/valueobject"
	"github.com/crmpro/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
)

// maxPaymentRetries bounds the reload-and-retry loop when a concurrent
// payment moves a line version under us.
const maxPaymentRetries = 3

// PaymentService applies customer payments across outstanding sale
// lines, oldest first.
type PaymentService struct {
	txScope    TransactionScope
	lineRepo   ledger.SaleLineRepository
	eventBus   shared.EventBus
	aggregator *ledger.Aggregator
	allocator  *ledger.Allocator
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	txScope TransactionScope,
	lineRepo ledger.SaleLineRepository,
	eventBus shared.EventBus,
) *PaymentService {
	return &PaymentService{
		txScope:    txScope,
		lineRepo:   lineRepo,
		eventBus:   eventBus,
		aggregator: ledger.NewAggregator(),
		allocator:  ledger.NewAllocator(),
	}
}

// ApplyPayment applies a payment from one customer against their open
// lines. The amount must be positive and must not exceed the
// customer's total outstanding debt; otherwise the request is rejected
// and no line changes. On a version conflict the whole allocation is
// recomputed from freshly loaded lines.
func (s *PaymentService) ApplyPayment(ctx context.Context, tenantID uuid.UUID, req ApplyPaymentRequest) (*PaymentResultResponse, error) {
	normalized := ledger.NormalizeCustomerName(req.CustomerName)
	payment := valueobject.NewMoneyUZS(req.Amount)

	var result *PaymentResultResponse
	var lastErr error

	for attempt := 0; attempt < maxPaymentRetries; attempt++ {
		result, lastErr = s.applyOnce(ctx, tenantID, normalized, req.CustomerName, payment)
		if lastErr == nil {
			return result, nil
		}
		if lastErr != shared.ErrConcurrencyConflict {
			return nil, lastErr
		}
		logger.FromContext(ctx).Warn("payment allocation retry after version conflict")
	}
	return nil, lastErr
}

func (s *PaymentService) applyOnce(ctx context.Context, tenantID uuid.UUID, normalized, displayName string, payment valueobject.Money) (*PaymentResultResponse, error) {
	lines, err := s.lineRepo.FindDebtsByCustomer(ctx, tenantID, normalized)
	if err != nil {
		return nil, err
	}

	summaries := s.aggregator.Aggregate(lines)
	if len(summaries) == 0 {
		// no outstanding debt, so any positive amount overshoots
		return nil, shared.ErrInvalidPayment
	}
	summary := summaries[0]

	allocation, err := s.allocator.Allocate(summary, payment)
	if err != nil {
		return nil, err
	}

	mutated := make(map[uuid.UUID]bool, len(allocation.Mutations))
	for _, m := range allocation.Mutations {
		mutated[m.LineID] = true
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, line := range summary.Lines {
			if !mutated[line.ID] {
				continue
			}
			if err := repos.LineRepo().SaveWithLock(ctx, line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, summary.Lines)

	response := ToPaymentResultResponse(displayName, allocation, summary.TotalDebt)
	return &response, nil
}

// publishEvents publishes domain events from the mutated lines
func (s *PaymentService) publishEvents(ctx context.Context, lines []*ledger.SaleLine) {
	if s.eventBus == nil {
		return
	}

	for _, line := range lines {
		for _, event := range line.GetDomainEvents() {
			_ = s.eventBus.Publish(ctx, event)
		}
		line.ClearDomainEvents()
	}
}
