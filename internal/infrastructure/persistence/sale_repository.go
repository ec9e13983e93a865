package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/crmpro/backend/internal/domain/sales"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/crmpro/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale by its ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a sale by ID within a tenant
func (r *GormSaleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all sales matching the filter
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Sale, error) {
	var saleModels []models.SaleModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SaleModel{}).Preload("Items"), filter)

	if err := query.Find(&saleModels).Error; err != nil {
		return nil, err
	}
	return toDomainSales(saleModels), nil
}

// FindAllForTenant finds all sales for a tenant
func (r *GormSaleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Sale, error) {
	var saleModels []models.SaleModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.SaleModel{}).Preload("Items").
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&saleModels).Error; err != nil {
		return nil, err
	}
	return toDomainSales(saleModels), nil
}

// FindByDateRange returns sales recorded within [from, to) together
// with the unpaginated total count
func (r *GormSaleRepository) FindByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time, filter shared.Filter) ([]*sales.Sale, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.SaleModel{}).
		Where("tenant_id = ? AND occurred_at >= ? AND occurred_at < ?", tenantID, from, to)
	base = r.applyFilterWithoutPagination(base, filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var saleModels []models.SaleModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.SaleModel{}).Preload("Items").
			Where("tenant_id = ? AND occurred_at >= ? AND occurred_at < ?", tenantID, from, to),
		filter,
	)
	if err := query.Find(&saleModels).Error; err != nil {
		return nil, 0, err
	}

	result := make([]*sales.Sale, len(saleModels))
	for i := range saleModels {
		result[i] = saleModels[i].ToDomain()
	}
	return result, total, nil
}

// saleTotalsRow receives the aggregate scan
type saleTotalsRow struct {
	Count       int64
	TotalAmount decimal.Decimal
	PaidAmount  decimal.Decimal
	DebtAmount  decimal.Decimal
}

// SumTotalsByDateRange returns total revenue, paid and debt amounts
// for sales within [from, to)
func (r *GormSaleRepository) SumTotalsByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*sales.SaleTotals, error) {
	var row saleTotalsRow
	if err := r.db.WithContext(ctx).
		Model(&models.SaleModel{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total_amount, COALESCE(SUM(paid_amount), 0) AS paid_amount, COALESCE(SUM(debt_amount), 0) AS debt_amount").
		Where("tenant_id = ? AND occurred_at >= ? AND occurred_at < ?", tenantID, from, to).
		Scan(&row).Error; err != nil {
		return nil, err
	}
	return &sales.SaleTotals{
		Count:       row.Count,
		TotalAmount: row.TotalAmount,
		PaidAmount:  row.PaidAmount,
		DebtAmount:  row.DebtAmount,
	}, nil
}

// SumItemsByProduct aggregates sold base units and revenue per product
// for sales within [from, to), most units sold first
func (r *GormSaleRepository) SumItemsByProduct(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]sales.ProductSales, error) {
	var rows []sales.ProductSales
	if err := r.db.WithContext(ctx).
		Table("sale_items").
		Select("sale_items.product_id, sale_items.product_name, COALESCE(SUM(sale_items.base_units), 0) AS units_sold, COALESCE(SUM(sale_items.line_total), 0) AS revenue, COUNT(DISTINCT sale_items.sale_id) AS sale_count").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.tenant_id = ? AND sales.occurred_at >= ? AND sales.occurred_at < ?", tenantID, from, to).
		Group("sale_items.product_id, sale_items.product_name").
		Order("units_sold DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Save creates or updates a sale with its items in a transaction
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	model := models.SaleModelFromDomain(sale)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := model.Items
		model.Items = nil
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Save(items).Error
	})
}

// Delete deletes a sale and its items
func (r *GormSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.SaleItemModel{}, "sale_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.SaleModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts sales matching the filter
func (r *GormSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.SaleModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormSaleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, SaleSortFields, "occurred_at")
	orderDir := "DESC"
	if strings.ToLower(filter.OrderDir) == "asc" {
		orderDir = "ASC"
	}
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSaleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("customer_name ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		case "sold_by":
			query = query.Where("sold_by = ?", value)
		case "has_debt":
			if value == true {
				query = query.Where("debt_amount > 0")
			} else {
				query = query.Where("debt_amount = 0")
			}
		}
	}

	return query
}

func toDomainSales(saleModels []models.SaleModel) []sales.Sale {
	result := make([]sales.Sale, len(saleModels))
	for i := range saleModels {
		result[i] = *saleModels[i].ToDomain()
	}
	return result
}

// Ensure GormSaleRepository implements SaleRepository
var _ sales.SaleRepository = (*GormSaleRepository)(nil)
