package identity

import (
	"context"
	"testing"

	"github.com/crmpro/backend/internal/domain/identity"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserQuota is a mock implementation of UserQuota
type MockUserQuota struct {
	mock.Mock
}

func (m *MockUserQuota) EnsureCanAddUser(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func TestUserService_Create(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates a seller account", func(t *testing.T) {
		repo := new(MockUserRepository)
		quota := new(MockUserQuota)
		quota.On("EnsureCanAddUser", mock.Anything, tenantID).Return(nil)
		repo.On("FindByUsername", mock.Anything, tenantID, "karim").Return(nil, shared.ErrNotFound)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		service := NewUserService(repo, quota)
		result, err := service.Create(context.Background(), tenantID, CreateUserRequest{
			Username: "karim", Password: "parol123", Role: "seller", FullName: "Karim Rahimov",
		})

		require.NoError(t, err)
		assert.Equal(t, "karim", result.Username)
		assert.Equal(t, "seller", result.Role)
		assert.Equal(t, "active", result.Status)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		quota := new(MockUserQuota)
		quota.On("EnsureCanAddUser", mock.Anything, tenantID).Return(nil)

		existing, err := identity.NewUser(tenantID, "karim", "parol123", identity.RoleSeller)
		require.NoError(t, err)
		repo.On("FindByUsername", mock.Anything, tenantID, "karim").Return(existing, nil)

		service := NewUserService(repo, quota)
		_, err = service.Create(context.Background(), tenantID, CreateUserRequest{
			Username: "karim", Password: "parol123", Role: "seller",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "USERNAME_TAKEN", domainErr.Code)
		repo.AssertNotCalled(t, "Save")
	})

	t.Run("plan quota blocks creation", func(t *testing.T) {
		repo := new(MockUserRepository)
		quota := new(MockUserQuota)
		quota.On("EnsureCanAddUser", mock.Anything, tenantID).Return(shared.ErrQuotaExceeded)

		service := NewUserService(repo, quota)
		_, err := service.Create(context.Background(), tenantID, CreateUserRequest{
			Username: "karim", Password: "parol123", Role: "seller",
		})

		assert.Equal(t, shared.ErrQuotaExceeded, err)
		repo.AssertNotCalled(t, "FindByUsername")
	})
}

func TestUserService_UpdateAndDeactivate(t *testing.T) {
	tenantID := uuid.New()

	t.Run("promotes a seller to admin", func(t *testing.T) {
		repo := new(MockUserRepository)
		user, err := identity.NewUser(tenantID, "karim", "parol123", identity.RoleSeller)
		require.NoError(t, err)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, user.ID).Return(user, nil)
		repo.On("Save", mock.Anything, user).Return(nil)

		service := NewUserService(repo, nil)
		result, err := service.Update(context.Background(), tenantID, user.ID, UpdateUserRequest{
			Role: "admin",
		})

		require.NoError(t, err)
		assert.Equal(t, "admin", result.Role)
	})

	t.Run("deactivate then activate round-trips", func(t *testing.T) {
		repo := new(MockUserRepository)
		user, err := identity.NewUser(tenantID, "karim", "parol123", identity.RoleSeller)
		require.NoError(t, err)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, user.ID).Return(user, nil)
		repo.On("Save", mock.Anything, user).Return(nil)

		service := NewUserService(repo, nil)
		require.NoError(t, service.Deactivate(context.Background(), tenantID, user.ID))
		assert.False(t, user.IsActive())

		require.NoError(t, service.Activate(context.Background(), tenantID, user.ID))
		assert.True(t, user.IsActive())
	})

	t.Run("admin reset changes the password without the old one", func(t *testing.T) {
		repo := new(MockUserRepository)
		user, err := identity.NewUser(tenantID, "karim", "eskiparol", identity.RoleSeller)
		require.NoError(t, err)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, user.ID).Return(user, nil)
		repo.On("Save", mock.Anything, user).Return(nil)

		service := NewUserService(repo, nil)
		err = service.ResetPassword(context.Background(), tenantID, user.ID, ResetPasswordRequest{
			NewPassword: "yangiparol",
		})

		require.NoError(t, err)
		assert.True(t, user.VerifyPassword("yangiparol"))
	})
}

func TestTenantService_Register(t *testing.T) {
	t.Run("creates a trial store with its admin", func(t *testing.T) {
		tenantRepo := new(MockTenantRepository)
		userRepo := new(MockUserRepository)
		tenantRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		userRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		service := NewTenantService(tenantRepo, userRepo, nil)
		result, err := service.Register(context.Background(), RegisterTenantRequest{
			StoreName: "Baraka Market",
			Phone:     "+998901234567",
			Username:  "aziz",
			Password:  "parol123",
		})

		require.NoError(t, err)
		assert.Equal(t, "Baraka Market", result.Tenant.Name)
		assert.Equal(t, "trial", result.Tenant.Status)
		assert.NotNil(t, result.Tenant.SubscriptionEnd)
		assert.Equal(t, "admin", result.Admin.Role)
	})

	t.Run("admin save failure removes the orphaned store", func(t *testing.T) {
		tenantRepo := new(MockTenantRepository)
		userRepo := new(MockUserRepository)
		tenantRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		userRepo.On("Save", mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists)
		tenantRepo.On("Delete", mock.Anything, mock.Anything).Return(nil)

		service := NewTenantService(tenantRepo, userRepo, nil)
		_, err := service.Register(context.Background(), RegisterTenantRequest{
			StoreName: "Baraka Market",
			Username:  "aziz",
			Password:  "parol123",
		})

		assert.Equal(t, shared.ErrAlreadyExists, err)
		tenantRepo.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
