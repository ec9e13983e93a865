package persistence

import (
	"context"
	"errors"

	"github.com/crmpro/backend/internal/domain/billing"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPlanRepository implements PlanRepository using GORM
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new GormPlanRepository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// FindByID finds a plan by its ID
func (r *GormPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Plan, error) {
	var plan billing.Plan
	if err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// FindByCode looks a plan up by its tier code
func (r *GormPlanRepository) FindByCode(ctx context.Context, code billing.PlanCode) (*billing.Plan, error) {
	var plan billing.Plan
	if err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// FindActive returns plans open for new subscriptions
func (r *GormPlanRepository) FindActive(ctx context.Context) ([]billing.Plan, error) {
	var plans []billing.Plan
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("monthly_price ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// FindAll finds all plans matching the filter
func (r *GormPlanRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Plan, error) {
	var plans []billing.Plan
	query := r.db.WithContext(ctx).Model(&billing.Plan{})
	if active, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", active)
	}

	if err := query.Order("monthly_price ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// Save creates or updates a plan
func (r *GormPlanRepository) Save(ctx context.Context, plan *billing.Plan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

// Delete deletes a plan
func (r *GormPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.Plan{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts plans matching the filter
func (r *GormPlanRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&billing.Plan{})
	if active, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", active)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormPlanRepository implements PlanRepository
var _ billing.PlanRepository = (*GormPlanRepository)(nil)
