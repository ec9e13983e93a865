package identity

import (
	"context"

	"github.com/crmpro/backend/internal/domain/identity"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserQuota answers whether a tenant's plan allows another user.
// Implemented by the billing subscription service.
type UserQuota interface {
	EnsureCanAddUser(ctx context.Context, tenantID uuid.UUID) error
}

// UserService handles staff account management
type UserService struct {
	userRepo identity.UserRepository
	quota    UserQuota
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, quota UserQuota) *UserService {
	return &UserService{userRepo: userRepo, quota: quota}
}

// ===================== Query Methods =====================

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// List retrieves all users for a tenant
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID) ([]UserResponse, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 100
	filter.OrderBy = "username"
	filter.OrderDir = "asc"

	users, err := s.userRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return ToUserResponses(users), nil
}

// ===================== Command Methods =====================

// Create creates a staff account, enforcing the tenant's plan quota
func (s *UserService) Create(ctx context.Context, tenantID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	if s.quota != nil {
		if err := s.quota.EnsureCanAddUser(ctx, tenantID); err != nil {
			return nil, err
		}
	}

	if _, err := s.userRepo.FindByUsername(ctx, tenantID, req.Username); err == nil {
		return nil, shared.NewDomainError("USERNAME_TAKEN", "Username is already in use")
	}

	user, err := identity.NewUser(tenantID, req.Username, req.Password, identity.UserRole(req.Role))
	if err != nil {
		return nil, err
	}
	if req.FullName != "" {
		if err := user.SetFullName(req.FullName); err != nil {
			return nil, err
		}
	}
	if req.Phone != "" {
		if err := user.SetPhone(req.Phone); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// Update changes a staff account's profile and role
func (s *UserService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := user.SetFullName(req.FullName); err != nil {
		return nil, err
	}
	if err := user.SetPhone(req.Phone); err != nil {
		return nil, err
	}
	if req.Role != "" {
		if err := user.ChangeRole(identity.UserRole(req.Role)); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// ResetPassword sets a new password without the old one. Admin only,
// enforced at the transport layer.
func (s *UserService) ResetPassword(ctx context.Context, tenantID, id uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}

	return s.userRepo.Save(ctx, user)
}

// Activate re-enables a deactivated account
func (s *UserService) Activate(ctx context.Context, tenantID, id uuid.UUID) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := user.Activate(); err != nil {
		return err
	}

	return s.userRepo.Save(ctx, user)
}

// Deactivate disables an account without deleting its sales history
func (s *UserService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := user.Deactivate(); err != nil {
		return err
	}

	return s.userRepo.Save(ctx, user)
}
