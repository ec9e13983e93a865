package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/crmpro/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DebtorService answers who-owes-what questions over the debt ledger.
// Summaries are recomputed from open sale lines on every call.
type DebtorService struct {
	lineRepo   ledger.SaleLineRepository
	aggregator *ledger.Aggregator
}

// NewDebtorService creates a new DebtorService
func NewDebtorService(lineRepo ledger.SaleLineRepository) *DebtorService {
	return &DebtorService{
		lineRepo:   lineRepo,
		aggregator: ledger.NewAggregator(),
	}
}

// List returns the debtor board for a tenant. The filter narrows to
// overdue (first debt older than 30 days) or recent (activity within
// 7 days); the sort defaults to largest debt first.
func (s *DebtorService) List(ctx context.Context, tenantID uuid.UUID, req ListDebtorsRequest) (*DebtorListResponse, error) {
	filter := ledger.DebtorFilter(req.Filter)
	if req.Filter == "" {
		filter = ledger.DebtorFilterAll
	}
	if !filter.IsValid() {
		filter = ledger.DebtorFilterAll
	}

	sort := ledger.DebtorSort(req.Sort)
	if req.Sort == "" || !sort.IsValid() {
		sort = ledger.DebtorSortByDebt
	}

	lines, err := s.lineRepo.FindDebtsByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	summaries := s.aggregator.Aggregate(lines)
	summaries = s.aggregator.Filter(summaries, filter, now)
	if req.Search != "" {
		summaries = filterBySearch(summaries, req.Search)
	}
	s.aggregator.Sort(summaries, sort)

	response := &DebtorListResponse{
		Debtors:   make([]DebtorResponse, len(summaries)),
		TotalDebt: decimal.Zero,
	}
	for i, summary := range summaries {
		response.Debtors[i] = ToDebtorResponse(summary, now, false)
		response.TotalDebt = response.TotalDebt.Add(summary.TotalDebt)
	}
	response.DebtorCount = len(summaries)
	return response, nil
}

// Get returns one debtor with its member lines. The name is matched
// on the normalized form, so "Aziz", "aziz" and " AZIZ " are the same
// debtor, and an empty name resolves to the unknown bucket.
func (s *DebtorService) Get(ctx context.Context, tenantID uuid.UUID, customerName string) (*DebtorResponse, error) {
	normalized := ledger.NormalizeCustomerName(customerName)

	lines, err := s.lineRepo.FindDebtsByCustomer(ctx, tenantID, normalized)
	if err != nil {
		return nil, err
	}

	summaries := s.aggregator.Aggregate(lines)
	now := time.Now()
	if len(summaries) == 0 {
		// known name with nothing outstanding
		return &DebtorResponse{
			NormalizedName: normalized,
			DisplayName:    customerName,
			TotalDebt:      decimal.Zero,
			TotalPaid:      decimal.Zero,
		}, nil
	}

	response := ToDebtorResponse(summaries[0], now, true)
	return &response, nil
}

// SaleLines returns the ledger lines recorded for one sale
func (s *DebtorService) SaleLines(ctx context.Context, tenantID, saleID uuid.UUID) ([]SaleLineResponse, error) {
	lines, err := s.lineRepo.FindBySale(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}

	responses := make([]SaleLineResponse, len(lines))
	for i, line := range lines {
		responses[i] = ToSaleLineResponse(line)
	}
	return responses, nil
}

func filterBySearch(summaries []*ledger.DebtorSummary, search string) []*ledger.DebtorSummary {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return summaries
	}
	matched := make([]*ledger.DebtorSummary, 0, len(summaries))
	for _, summary := range summaries {
		if strings.Contains(summary.NormalizedName, needle) ||
			strings.Contains(strings.ToLower(summary.Phone), needle) {
			matched = append(matched, summary)
		}
	}
	return matched
}
