package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/crmpro/backend/internal/domain/ledger"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/crmpro/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSaleLineRepository implements SaleLineRepository using GORM
type GormSaleLineRepository struct {
	db *gorm.DB
}

// NewGormSaleLineRepository creates a new GormSaleLineRepository
func NewGormSaleLineRepository(db *gorm.DB) *GormSaleLineRepository {
	return &GormSaleLineRepository{db: db}
}

// FindByID finds a sale line by its ID
func (r *GormSaleLineRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.SaleLine, error) {
	var model models.SaleLineModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a sale line by ID within a tenant
func (r *GormSaleLineRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.SaleLine, error) {
	var model models.SaleLineModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all sale lines matching the filter
func (r *GormSaleLineRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.SaleLine, error) {
	var lineModels []models.SaleLineModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SaleLineModel{}), filter)

	if err := query.Find(&lineModels).Error; err != nil {
		return nil, err
	}
	return toDomainSaleLines(lineModels), nil
}

// FindAllForTenant finds all sale lines for a tenant
func (r *GormSaleLineRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ledger.SaleLine, error) {
	var lineModels []models.SaleLineModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.SaleLineModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&lineModels).Error; err != nil {
		return nil, err
	}
	return toDomainSaleLines(lineModels), nil
}

// FindDebtsByTenant returns all lines with positive debt for a tenant,
// oldest first so payments apply in recording order
func (r *GormSaleLineRepository) FindDebtsByTenant(ctx context.Context, tenantID uuid.UUID) ([]*ledger.SaleLine, error) {
	var lineModels []models.SaleLineModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND debt > 0", tenantID).
		Order("occurred_at ASC, created_at ASC").
		Find(&lineModels).Error; err != nil {
		return nil, err
	}
	return toDomainSaleLinePtrs(lineModels), nil
}

// FindDebtsByCustomer returns a customer's lines with positive debt,
// matched on the normalized customer name, oldest first
func (r *GormSaleLineRepository) FindDebtsByCustomer(ctx context.Context, tenantID uuid.UUID, normalizedName string) ([]*ledger.SaleLine, error) {
	var lineModels []models.SaleLineModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND normalized_customer = ? AND debt > 0", tenantID, normalizedName).
		Order("occurred_at ASC, created_at ASC").
		Find(&lineModels).Error; err != nil {
		return nil, err
	}
	return toDomainSaleLinePtrs(lineModels), nil
}

// FindBySale returns all lines belonging to one sale
func (r *GormSaleLineRepository) FindBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]*ledger.SaleLine, error) {
	var lineModels []models.SaleLineModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sale_id = ?", tenantID, saleID).
		Order("created_at ASC").
		Find(&lineModels).Error; err != nil {
		return nil, err
	}
	return toDomainSaleLinePtrs(lineModels), nil
}

// Save creates or updates a sale line
func (r *GormSaleLineRepository) Save(ctx context.Context, line *ledger.SaleLine) error {
	if err := line.CheckInvariant(); err != nil {
		return err
	}
	model := models.SaleLineModelFromDomain(line)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a sale line with an optimistic version check.
// The domain has already incremented the version, so the row must
// still hold the version the line was loaded at.
func (r *GormSaleLineRepository) SaveWithLock(ctx context.Context, line *ledger.SaleLine) error {
	if err := line.CheckInvariant(); err != nil {
		return err
	}
	model := models.SaleLineModelFromDomain(line)

	result := r.db.WithContext(ctx).
		Model(&models.SaleLineModel{}).
		Where("id = ? AND version = ?", line.ID, line.Version-1).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// SaveAll persists new lines in one transaction
func (r *GormSaleLineRepository) SaveAll(ctx context.Context, lines []*ledger.SaleLine) error {
	if len(lines) == 0 {
		return nil
	}
	lineModels := make([]*models.SaleLineModel, len(lines))
	for i, line := range lines {
		if err := line.CheckInvariant(); err != nil {
			return err
		}
		lineModels[i] = models.SaleLineModelFromDomain(line)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(lineModels).Error
	})
}

// Delete deletes a sale line
func (r *GormSaleLineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SaleLineModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts sale lines matching the filter
func (r *GormSaleLineRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.SaleLineModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormSaleLineRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, SaleLineSortFields, "occurred_at")
	orderDir := "ASC"
	if strings.ToLower(filter.OrderDir) == "desc" {
		orderDir = "DESC"
	}
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSaleLineRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("customer_name ILIKE ? OR product_name ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "sale_id":
			query = query.Where("sale_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "customer":
			query = query.Where("normalized_customer = ?", value)
		case "has_debt":
			if value == true {
				query = query.Where("debt > 0")
			} else {
				query = query.Where("debt = 0")
			}
		case "occurred_after":
			query = query.Where("occurred_at >= ?", value)
		case "occurred_before":
			query = query.Where("occurred_at < ?", value)
		}
	}

	return query
}

func toDomainSaleLines(lineModels []models.SaleLineModel) []ledger.SaleLine {
	lines := make([]ledger.SaleLine, len(lineModels))
	for i, model := range lineModels {
		lines[i] = *model.ToDomain()
	}
	return lines
}

func toDomainSaleLinePtrs(lineModels []models.SaleLineModel) []*ledger.SaleLine {
	lines := make([]*ledger.SaleLine, len(lineModels))
	for i := range lineModels {
		lines[i] = lineModels[i].ToDomain()
	}
	return lines
}

// Ensure GormSaleLineRepository implements SaleLineRepository
var _ ledger.SaleLineRepository = (*GormSaleLineRepository)(nil)
