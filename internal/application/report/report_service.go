package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/crmpro/backend/internal/domain/ledger"
	"github.com/crmpro/backend/internal/domain/sales"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportService provides sales summaries and data exports for a store
type ReportService struct {
	saleRepo   sales.SaleRepository
	lineRepo   ledger.SaleLineRepository
	aggregator *ledger.Aggregator
}

// NewReportService creates a new ReportService
func NewReportService(saleRepo sales.SaleRepository, lineRepo ledger.SaleLineRepository) *ReportService {
	return &ReportService{
		saleRepo:   saleRepo,
		lineRepo:   lineRepo,
		aggregator: ledger.NewAggregator(),
	}
}

// PeriodSummaryResponse represents sales totals over a period
type PeriodSummaryResponse struct {
	PeriodStart    time.Time       `json:"period_start"`
	PeriodEnd      time.Time       `json:"period_end"`
	SaleCount      int64           `json:"sale_count"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	DebtAmount     decimal.Decimal `json:"debt_amount"`
	AvgSaleAmount  decimal.Decimal `json:"avg_sale_amount"`
	CollectionRate decimal.Decimal `json:"collection_rate"` // paid / total, 0..1
}

// DebtOverviewResponse represents the store's outstanding debt position
type DebtOverviewResponse struct {
	DebtorCount  int             `json:"debtor_count"`
	OverdueCount int             `json:"overdue_count"`
	TotalDebt    decimal.Decimal `json:"total_debt"`
	OverdueDebt  decimal.Decimal `json:"overdue_debt"`
}

// TopProductsRequest selects the product ranking variant
type TopProductsRequest struct {
	Order string `form:"order" binding:"omitempty,oneof=top slow"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ProductRankingResponse lists products ranked by units sold over a period
type ProductRankingResponse struct {
	PeriodStart time.Time            `json:"period_start"`
	PeriodEnd   time.Time            `json:"period_end"`
	Order       string               `json:"order"`
	Products    []sales.ProductSales `json:"products"`
}

// ===================== Summaries =====================

// DailySummary returns the sales totals for one calendar day
func (s *ReportService) DailySummary(ctx context.Context, tenantID uuid.UUID, date time.Time) (*PeriodSummaryResponse, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return s.PeriodSummary(ctx, tenantID, start, start.AddDate(0, 0, 1))
}

// PeriodSummary returns the sales totals for an arbitrary period
func (s *ReportService) PeriodSummary(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*PeriodSummaryResponse, error) {
	totals, err := s.saleRepo.SumTotalsByDateRange(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	response := &PeriodSummaryResponse{
		PeriodStart:    from,
		PeriodEnd:      to,
		SaleCount:      totals.Count,
		TotalAmount:    totals.TotalAmount,
		PaidAmount:     totals.PaidAmount,
		DebtAmount:     totals.DebtAmount,
		AvgSaleAmount:  decimal.Zero,
		CollectionRate: decimal.Zero,
	}
	if totals.Count > 0 {
		response.AvgSaleAmount = totals.TotalAmount.DivRound(decimal.NewFromInt(totals.Count), 2)
	}
	if totals.TotalAmount.IsPositive() {
		response.CollectionRate = totals.PaidAmount.DivRound(totals.TotalAmount, 4)
	}
	return response, nil
}

// defaultRankingLimit bounds a product ranking when no limit is given
const defaultRankingLimit = 10

// TopProducts ranks products by base units sold within [from, to).
// Order "top" (the default) returns the best sellers; "slow" flips the
// ranking so the slowest movers among sold products come first.
func (s *ReportService) TopProducts(ctx context.Context, tenantID uuid.UUID, from, to time.Time, req TopProductsRequest) (*ProductRankingResponse, error) {
	rows, err := s.saleRepo.SumItemsByProduct(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	order := req.Order
	if order == "" {
		order = "top"
	}
	if order == "slow" {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultRankingLimit
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}

	return &ProductRankingResponse{
		PeriodStart: from,
		PeriodEnd:   to,
		Order:       order,
		Products:    rows,
	}, nil
}

// DebtOverview summarizes the store's outstanding debt by debtor
func (s *ReportService) DebtOverview(ctx context.Context, tenantID uuid.UUID) (*DebtOverviewResponse, error) {
	lines, err := s.lineRepo.FindDebtsByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	debtors := s.aggregator.Aggregate(lines)
	now := time.Now()

	response := &DebtOverviewResponse{
		DebtorCount: len(debtors),
		TotalDebt:   decimal.Zero,
		OverdueDebt: decimal.Zero,
	}
	for _, debtor := range debtors {
		response.TotalDebt = response.TotalDebt.Add(debtor.TotalDebt)
		if debtor.IsOverdue(now) {
			response.OverdueCount++
			response.OverdueDebt = response.OverdueDebt.Add(debtor.TotalDebt)
		}
	}
	return response, nil
}

// ===================== Exports =====================

var debtorCSVHeader = []string{
	"customer", "phone", "total_debt", "total_paid",
	"open_lines", "first_sale", "last_activity", "overdue",
}

// ExportDebtorsCSV writes the store's outstanding debtors as CSV,
// largest debt first. Dates are RFC 3339 so spreadsheets and scripts
// both parse them.
func (s *ReportService) ExportDebtorsCSV(ctx context.Context, tenantID uuid.UUID, w io.Writer) error {
	lines, err := s.lineRepo.FindDebtsByTenant(ctx, tenantID)
	if err != nil {
		return err
	}

	debtors := s.aggregator.Aggregate(lines)
	s.aggregator.Sort(debtors, ledger.DebtorSortByDebt)
	now := time.Now()

	writer := csv.NewWriter(w)
	if err := writer.Write(debtorCSVHeader); err != nil {
		return err
	}

	for _, debtor := range debtors {
		record := []string{
			debtor.DisplayName,
			debtor.Phone,
			debtor.TotalDebt.StringFixed(2),
			debtor.TotalPaid.StringFixed(2),
			fmt.Sprintf("%d", len(debtor.Lines)),
			debtor.FirstActivity.Format(time.RFC3339),
			debtor.LastActivity.Format(time.RFC3339),
			fmt.Sprintf("%t", debtor.IsOverdue(now)),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// exportPageSize bounds sale reads while streaming an export
const exportPageSize = 500

var saleCSVHeader = []string{
	"sale_id", "occurred_at", "customer", "payment_method",
	"total", "paid", "debt", "items",
}

// ExportSalesCSV writes the sales recorded within [from, to) as CSV,
// oldest first, one row per sale.
func (s *ReportService) ExportSalesCSV(ctx context.Context, tenantID uuid.UUID, from, to time.Time, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(saleCSVHeader); err != nil {
		return err
	}

	filter := shared.DefaultFilter()
	filter.PageSize = exportPageSize
	filter.OrderBy = "occurred_at"
	filter.OrderDir = "asc"

	for page := 1; ; page++ {
		filter.Page = page

		salesPage, _, err := s.saleRepo.FindByDateRange(ctx, tenantID, from, to, filter)
		if err != nil {
			return err
		}
		for _, sale := range salesPage {
			record := []string{
				sale.ID.String(),
				sale.OccurredAt.Format(time.RFC3339),
				sale.CustomerName,
				string(sale.PaymentMethod),
				sale.TotalAmount.StringFixed(2),
				sale.PaidAmount.StringFixed(2),
				sale.DebtAmount.StringFixed(2),
				fmt.Sprintf("%d", len(sale.Items)),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
		if len(salesPage) < exportPageSize {
			break
		}
	}

	writer.Flush()
	return writer.Error()
}
