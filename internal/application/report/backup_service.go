package report

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/crmpro/backend/internal/domain/catalog"
	"github.com/crmpro/backend/internal/domain/ledger"
	"github.com/crmpro/backend/internal/domain/sales"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// backupPageSize bounds catalog reads while building a backup
const backupPageSize = 500

// BackupService exports a store's data as a JSON document the owner
// can download and keep
type BackupService struct {
	productRepo catalog.ProductRepository
	saleRepo    sales.SaleRepository
	lineRepo    ledger.SaleLineRepository
}

// NewBackupService creates a new BackupService
func NewBackupService(productRepo catalog.ProductRepository, saleRepo sales.SaleRepository, lineRepo ledger.SaleLineRepository) *BackupService {
	return &BackupService{productRepo: productRepo, saleRepo: saleRepo, lineRepo: lineRepo}
}

// BackupDocument is the top-level structure of a store backup
type BackupDocument struct {
	ExportedAt time.Time        `json:"exported_at"`
	TenantID   uuid.UUID        `json:"tenant_id"`
	Products   []BackupProduct  `json:"products"`
	Sales      []BackupSale     `json:"sales"`
	OpenDebts  []BackupDebtLine `json:"open_debts"`
}

// BackupProduct is one catalog entry in a backup
type BackupProduct struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Barcode      string          `json:"barcode,omitempty"`
	Unit         string          `json:"unit"`
	PackSize     int64           `json:"pack_size"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	StockQty     decimal.Decimal `json:"stock_qty"`
	Status       string          `json:"status"`
}

// BackupSale is one settled sale in a backup
type BackupSale struct {
	ID            uuid.UUID        `json:"id"`
	CustomerName  string           `json:"customer_name,omitempty"`
	PaymentMethod string           `json:"payment_method"`
	TotalAmount   decimal.Decimal  `json:"total_amount"`
	PaidAmount    decimal.Decimal  `json:"paid_amount"`
	DebtAmount    decimal.Decimal  `json:"debt_amount"`
	OccurredAt    time.Time        `json:"occurred_at"`
	Items         []BackupSaleItem `json:"items"`
}

// BackupSaleItem is one line of a sale in a backup
type BackupSaleItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// BackupDebtLine is one outstanding debt line in a backup
type BackupDebtLine struct {
	ID           uuid.UUID       `json:"id"`
	CustomerName string          `json:"customer_name"`
	ProductName  string          `json:"product_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	Debt         decimal.Decimal `json:"debt"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

// Export writes the full backup document as indented JSON
func (s *BackupService) Export(ctx context.Context, tenantID uuid.UUID, w io.Writer) error {
	doc := BackupDocument{
		ExportedAt: time.Now(),
		TenantID:   tenantID,
		Products:   make([]BackupProduct, 0),
		Sales:      make([]BackupSale, 0),
		OpenDebts:  make([]BackupDebtLine, 0),
	}

	filter := shared.DefaultFilter()
	filter.PageSize = backupPageSize
	filter.OrderBy = "name"
	filter.OrderDir = "asc"

	for page := 1; ; page++ {
		filter.Page = page

		products, err := s.productRepo.FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		for i := range products {
			p := &products[i]
			doc.Products = append(doc.Products, BackupProduct{
				ID:           p.ID,
				Name:         p.Name,
				Barcode:      p.Barcode,
				Unit:         p.Unit,
				PackSize:     p.PackSize,
				CostPrice:    p.CostPrice,
				SellingPrice: p.SellingPrice,
				StockQty:     p.StockQty,
				Status:       string(p.Status),
			})
		}
		if len(products) < backupPageSize {
			break
		}
	}

	saleFilter := shared.DefaultFilter()
	saleFilter.PageSize = backupPageSize
	saleFilter.OrderBy = "occurred_at"
	saleFilter.OrderDir = "asc"

	for page := 1; ; page++ {
		saleFilter.Page = page

		salesPage, err := s.saleRepo.FindAllForTenant(ctx, tenantID, saleFilter)
		if err != nil {
			return err
		}
		for i := range salesPage {
			sale := &salesPage[i]
			entry := BackupSale{
				ID:            sale.ID,
				CustomerName:  sale.CustomerName,
				PaymentMethod: string(sale.PaymentMethod),
				TotalAmount:   sale.TotalAmount,
				PaidAmount:    sale.PaidAmount,
				DebtAmount:    sale.DebtAmount,
				OccurredAt:    sale.OccurredAt,
				Items:         make([]BackupSaleItem, 0, len(sale.Items)),
			}
			for _, item := range sale.Items {
				entry.Items = append(entry.Items, BackupSaleItem{
					ProductID:   item.ProductID,
					ProductName: item.ProductName,
					Quantity:    item.Quantity,
					UnitPrice:   item.UnitPrice,
					LineTotal:   item.LineTotal,
				})
			}
			doc.Sales = append(doc.Sales, entry)
		}
		if len(salesPage) < backupPageSize {
			break
		}
	}

	lines, err := s.lineRepo.FindDebtsByTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	for _, line := range lines {
		doc.OpenDebts = append(doc.OpenDebts, BackupDebtLine{
			ID:           line.ID,
			CustomerName: line.CustomerName,
			ProductName:  line.ProductName,
			TotalAmount:  line.TotalAmount,
			PaidAmount:   line.PaidAmount,
			Debt:         line.Debt,
			OccurredAt:   line.OccurredAt,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}
