package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/crmpro/backend/internal/domain/billing"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentRequestRepository implements PaymentRequestRepository using GORM
type GormPaymentRequestRepository struct {
	db *gorm.DB
}

// NewGormPaymentRequestRepository creates a new GormPaymentRequestRepository
func NewGormPaymentRequestRepository(db *gorm.DB) *GormPaymentRequestRepository {
	return &GormPaymentRequestRepository{db: db}
}

// FindByID finds a payment request by its ID
func (r *GormPaymentRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PaymentRequest, error) {
	var request billing.PaymentRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindByTenant returns a tenant's requests, newest first
func (r *GormPaymentRequestRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[billing.PaymentRequest], error) {
	base := r.db.WithContext(ctx).Model(&billing.PaymentRequest{}).
		Where("tenant_id = ?", tenantID)
	if status, ok := filter.Filters["status"]; ok {
		base = base.Where("status = ?", status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&billing.PaymentRequest{}).
		Where("tenant_id = ?", tenantID)
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	query = r.applyPagination(query, filter)

	var requests []billing.PaymentRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}

	paginated := shared.NewPaginated(requests, total, filter.Page, filter.PageSize)
	return &paginated, nil
}

// FindPending returns all requests awaiting review, oldest first
func (r *GormPaymentRequestRepository) FindPending(ctx context.Context, filter shared.Filter) (*shared.Paginated[billing.PaymentRequest], error) {
	base := r.db.WithContext(ctx).Model(&billing.PaymentRequest{}).
		Where("status = ?", billing.PaymentRequestStatusPending)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&billing.PaymentRequest{}).
		Where("status = ?", billing.PaymentRequestStatusPending)
	query = r.applyPagination(query, filter)

	var requests []billing.PaymentRequest
	if err := query.Order("created_at ASC").Find(&requests).Error; err != nil {
		return nil, err
	}

	paginated := shared.NewPaginated(requests, total, filter.Page, filter.PageSize)
	return &paginated, nil
}

// FindAll finds all payment requests matching the filter
func (r *GormPaymentRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.PaymentRequest, error) {
	var requests []billing.PaymentRequest
	query := r.db.WithContext(ctx).Model(&billing.PaymentRequest{})
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if tenantID, ok := filter.Filters["tenant_id"]; ok {
		query = query.Where("tenant_id = ?", tenantID)
	}
	query = r.applyPagination(query, filter)

	orderBy := ValidateSortField(filter.OrderBy, PaymentRequestSortFields, "created_at")
	orderDir := "DESC"
	if strings.ToLower(filter.OrderDir) == "asc" {
		orderDir = "ASC"
	}
	if err := query.Order(orderBy + " " + orderDir).Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Save creates or updates a payment request
func (r *GormPaymentRequestRepository) Save(ctx context.Context, request *billing.PaymentRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

// Delete deletes a payment request
func (r *GormPaymentRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.PaymentRequest{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts payment requests matching the filter
func (r *GormPaymentRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&billing.PaymentRequest{})
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if tenantID, ok := filter.Filters["tenant_id"]; ok {
		query = query.Where("tenant_id = ?", tenantID)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPaymentRequestRepository) applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// Ensure GormPaymentRequestRepository implements PaymentRequestRepository
var _ billing.PaymentRequestRepository = (*GormPaymentRequestRepository)(nil)
