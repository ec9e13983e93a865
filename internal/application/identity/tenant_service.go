package identity

import (
	"context"

	"github.com/crmpro/backend/internal/domain/identity"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/crmpro/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantService handles store registration and profile management
type TenantService struct {
	tenantRepo identity.TenantRepository
	userRepo   identity.UserRepository
	eventBus   shared.EventBus
}

// NewTenantService creates a new TenantService
func NewTenantService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	eventBus shared.EventBus,
) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		eventBus:   eventBus,
	}
}

// Register creates a new store on a free trial together with its
// admin account
func (s *TenantService) Register(ctx context.Context, req RegisterTenantRequest) (*RegisterTenantResponse, error) {
	tenant, err := identity.NewTenant(req.StoreName, req.Phone)
	if err != nil {
		return nil, err
	}

	admin, err := identity.NewUser(tenant.ID, req.Username, req.Password, identity.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if req.FullName != "" {
		if err := admin.SetFullName(req.FullName); err != nil {
			return nil, err
		}
	}

	if err := tenant.SetOwner(admin.ID); err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, admin); err != nil {
		// roll the orphaned store back so the name can be retried
		if delErr := s.tenantRepo.Delete(ctx, tenant.ID); delErr != nil {
			logger.FromContext(ctx).Error("failed to clean up store after admin creation failure",
				zap.String("tenant_id", tenant.ID.String()), zap.Error(delErr))
		}
		return nil, err
	}

	s.publishEvents(ctx, tenant)

	return &RegisterTenantResponse{
		Tenant: ToTenantResponse(tenant),
		Admin:  ToUserResponse(admin),
	}, nil
}

// Get returns a store's profile
func (s *TenantService) Get(ctx context.Context, tenantID uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	response := ToTenantResponse(tenant)
	return &response, nil
}

// Update changes a store's profile
func (s *TenantService) Update(ctx context.Context, tenantID uuid.UUID, req UpdateTenantRequest) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if err := tenant.Update(req.Name, req.Phone, req.Address); err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	response := ToTenantResponse(tenant)
	return &response, nil
}

// ListExpiring returns active stores whose subscription runs out within
// the given number of days, for renewal reminders
func (s *TenantService) ListExpiring(ctx context.Context, withinDays int) ([]TenantResponse, error) {
	tenants, err := s.tenantRepo.FindExpiring(ctx, withinDays)
	if err != nil {
		return nil, err
	}

	responses := make([]TenantResponse, len(tenants))
	for i := range tenants {
		responses[i] = ToTenantResponse(&tenants[i])
	}
	return responses, nil
}

// publishEvents publishes and clears pending domain events
func (s *TenantService) publishEvents(ctx context.Context, tenant *identity.Tenant) {
	if s.eventBus == nil {
		return
	}
	for _, event := range tenant.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	tenant.ClearDomainEvents()
}
