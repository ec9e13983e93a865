package identity

import (
	"time"

	"github.com/crmpro/backend/internal/domain/identity"
	"github.com/crmpro/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
)

// RegisterTenantRequest represents a new store registration
type RegisterTenantRequest struct {
	StoreName string `json:"store_name" binding:"required,max=200"`
	Phone     string `json:"phone" binding:"omitempty,max=50"`
	Username  string `json:"username" binding:"required,min=3,max=100"`
	Password  string `json:"password" binding:"required,min=6,max=72"`
	FullName  string `json:"full_name" binding:"omitempty,max=200"`
}

// UpdateTenantRequest represents a store profile update
type UpdateTenantRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Phone   string `json:"phone" binding:"omitempty,max=50"`
	Address string `json:"address" binding:"omitempty,max=500"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	TenantID uuid.UUID `json:"tenant_id" binding:"required"`
	Username string    `json:"username" binding:"required"`
	Password string    `json:"password" binding:"required"`
}

// SuperAdminLoginRequest represents platform operator credentials
type SuperAdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest represents a self-service password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=72"`
}

// CreateUserRequest represents an admin creating a staff account
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	FullName string `json:"full_name" binding:"omitempty,max=200"`
	Phone    string `json:"phone" binding:"omitempty,max=50"`
	Role     string `json:"role" binding:"required,oneof=admin seller"`
}

// UpdateUserRequest represents a staff account update
type UpdateUserRequest struct {
	FullName string `json:"full_name" binding:"omitempty,max=200"`
	Phone    string `json:"phone" binding:"omitempty,max=50"`
	Role     string `json:"role" binding:"omitempty,oneof=admin seller"`
}

// ResetPasswordRequest represents an admin password reset
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=6,max=72"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	FullName    string     `json:"full_name,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TenantResponse represents a store in API responses
type TenantResponse struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Phone           string     `json:"phone,omitempty"`
	Address         string     `json:"address,omitempty"`
	Status          string     `json:"status"`
	PlanID          *uuid.UUID `json:"plan_id,omitempty"`
	SubscriptionEnd *time.Time `json:"subscription_end,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// LoginResponse carries the token pair and the logged-in user
type LoginResponse struct {
	Tokens *auth.TokenPair `json:"tokens"`
	User   UserResponse    `json:"user"`
}

// RegisterTenantResponse carries the new store and its admin account
type RegisterTenantResponse struct {
	Tenant TenantResponse `json:"tenant"`
	Admin  UserResponse   `json:"admin"`
}

// ToUserResponse converts a domain user to a response DTO
func ToUserResponse(user *identity.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		FullName:    user.FullName,
		Phone:       user.Phone,
		Role:        string(user.Role),
		Status:      string(user.Status),
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// ToUserResponses converts a slice of domain users to response DTOs
func ToUserResponses(users []identity.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses
}

// ToTenantResponse converts a domain tenant to a response DTO
func ToTenantResponse(tenant *identity.Tenant) TenantResponse {
	return TenantResponse{
		ID:              tenant.ID,
		Name:            tenant.Name,
		Phone:           tenant.Phone,
		Address:         tenant.Address,
		Status:          string(tenant.Status),
		PlanID:          tenant.PlanID,
		SubscriptionEnd: tenant.SubscriptionEnd,
		CreatedAt:       tenant.CreatedAt,
	}
}
