package persistence

import (
	"context"
	"errors"

	"github.com/crmpro/backend/internal/domain/inventory"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/crmpro/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockCountRepository implements StockCountRepository using GORM
type GormStockCountRepository struct {
	db *gorm.DB
}

// NewGormStockCountRepository creates a new GormStockCountRepository
func NewGormStockCountRepository(db *gorm.DB) *GormStockCountRepository {
	return &GormStockCountRepository{db: db}
}

// FindByID finds a stock count by its ID
func (r *GormStockCountRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockCount, error) {
	var model models.StockCountModel
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

// FindByIDForTenant finds a stock count by ID within a tenant
func (r *GormStockCountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.StockCount, error) {
	var model models.StockCountModel
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

// FindDraftByTenant returns the open draft session for a tenant, if any
func (r *GormStockCountRepository) FindDraftByTenant(ctx context.Context, tenantID uuid.UUID) (*inventory.StockCount, error) {
	var model models.StockCountModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND status = ?", tenantID, inventory.StockCountStatusDraft).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByStatus returns sessions in the given status, newest first.
// Item rows are not loaded for listings.
func (r *GormStockCountRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status inventory.StockCountStatus, filter shared.Filter) (*shared.Paginated[inventory.StockCount], error) {
	base := r.db.WithContext(ctx).Model(&models.StockCountModel{}).
		Where("tenant_id = ? AND status = ?", tenantID, status)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var countModels []models.StockCountModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.StockCountModel{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)
	if err := query.Find(&countModels).Error; err != nil {
		return nil, err
	}

	items := make([]inventory.StockCount, len(countModels))
	for i := range countModels {
		items[i] = *countModels[i].ToDomain()
	}
	paginated := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &paginated, nil
}

// FindAll finds all stock counts matching the filter
func (r *GormStockCountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockCount, error) {
	var countModels []models.StockCountModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.StockCountModel{}), filter)

	if err := query.Find(&countModels).Error; err != nil {
		return nil, err
	}
	return toDomainStockCounts(countModels), nil
}

// FindAllForTenant finds all stock counts for a tenant
func (r *GormStockCountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.StockCount, error) {
	var countModels []models.StockCountModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.StockCountModel{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&countModels).Error; err != nil {
		return nil, err
	}
	return toDomainStockCounts(countModels), nil
}

// Save saves a stock count with its items in a transaction. Items no
// longer present in the aggregate are removed.
func (r *GormStockCountRepository) Save(ctx context.Context, sc *inventory.StockCount) error {
	model := models.StockCountModelFromDomain(sc)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := model.Items
		model.Items = nil
		if err := tx.Save(model).Error; err != nil {
			return err
		}

		if len(items) == 0 {
			return tx.Delete(&models.StockCountItemModel{}, "count_id = ?", model.ID).Error
		}

		keepIDs := make([]uuid.UUID, len(items))
		for i, item := range items {
			keepIDs[i] = item.ID
		}
		if err := tx.Delete(&models.StockCountItemModel{}, "count_id = ? AND id NOT IN ?", model.ID, keepIDs).Error; err != nil {
			return err
		}
		return tx.Save(items).Error
	})
}

// Delete deletes a stock count and its items
func (r *GormStockCountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.StockCountItemModel{}, "count_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.StockCountModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts stock counts matching the filter
func (r *GormStockCountRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.StockCountModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormStockCountRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, StockCountSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormStockCountRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("note ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "started_by":
			query = query.Where("started_by = ?", value)
		case "completed_after":
			query = query.Where("completed_at >= ?", value)
		case "completed_before":
			query = query.Where("completed_at < ?", value)
		}
	}

	return query
}

func toDomainStockCounts(countModels []models.StockCountModel) []inventory.StockCount {
	result := make([]inventory.StockCount, len(countModels))
	for i := range countModels {
		result[i] = *countModels[i].ToDomain()
	}
	return result
}

// Ensure GormStockCountRepository implements StockCountRepository
var _ inventory.StockCountRepository = (*GormStockCountRepository)(nil)
