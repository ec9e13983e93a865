package identity

import (
	"context"
	"errors"

	"github.com/crmpro/backend/internal/domain/identity"
	"github.com/crmpro/backend/internal/domain/shared"
	"github.com/crmpro/backend/internal/infrastructure/auth"
	"github.com/crmpro/backend/internal/infrastructure/config"
	"github.com/crmpro/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles login, token refresh and logout
type AuthService struct {
	userRepo   identity.UserRepository
	tenantRepo identity.TenantRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	platform   config.PlatformConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo identity.UserRepository,
	tenantRepo identity.TenantRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	platform config.PlatformConfig,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		platform:   platform,
	}
}

// Login verifies credentials and issues a token pair. The store must
// still be operational: suspended or expired stores cannot log in.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.TenantID, req.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.VerifyPassword(req.Password) {
		logger.FromContext(ctx).Warn("failed login attempt",
			zap.String("tenant_id", req.TenantID.String()),
			zap.String("username", req.Username))
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, shared.NewDomainError("USER_INACTIVE", "User account is deactivated")
	}

	tenant, err := s.tenantRepo.FindByID(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}
	if !tenant.IsOperational() {
		return nil, shared.ErrSubscriptionExpired
	}

	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: tenant.ID,
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
	if err != nil {
		return nil, err
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		// login stands even if the timestamp write fails
		logger.FromContext(ctx).Warn("failed to record login time", zap.Error(err))
	}

	return &LoginResponse{
		Tokens: tokens,
		User:   ToUserResponse(user),
	}, nil
}

// SuperAdminLogin verifies the config-designated platform operator
// credentials and issues a token pair carrying the super admin role.
// The operator is not a tenant user: the token carries the nil tenant
// and the fixed operator ID, and the session cannot be refreshed, only
// renewed by logging in again.
func (s *AuthService) SuperAdminLogin(ctx context.Context, req SuperAdminLoginRequest) (*auth.TokenPair, error) {
	if s.platform.AdminPasswordHash == "" {
		return nil, shared.ErrInvalidCredentials
	}
	if req.Username != s.platform.AdminUsername {
		// burn a hash comparison anyway so the two failure modes take
		// the same time
		_ = bcrypt.CompareHashAndPassword([]byte(s.platform.AdminPasswordHash), []byte(req.Password))
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.platform.AdminPasswordHash), []byte(req.Password)); err != nil {
		logger.FromContext(ctx).Warn("failed super admin login attempt",
			zap.String("username", req.Username))
		return nil, shared.ErrInvalidCredentials
	}

	return s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: uuid.Nil,
		UserID:   auth.SuperAdminID,
		Username: s.platform.AdminUsername,
		Role:     auth.RoleSuperAdmin,
	})
}

// Refresh exchanges a valid refresh token for a fresh token pair
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, shared.ErrUnauthorized
		}
	}

	tenantID, err := claims.GetTenantUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, shared.ErrUnauthorized
	}

	tokens, err := s.jwtService.RefreshTokenPair(req.RefreshToken, user.Username, string(user.Role))
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	// the old refresh token is single-use
	if s.blacklist != nil {
		_ = s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL())
	}

	return tokens, nil
}

// Logout revokes the presented access token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.blacklist == nil || claims == nil {
		return nil
	}
	return s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL())
}

// GetCurrentUser returns the authenticated user's profile
func (s *AuthService) GetCurrentUser(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// ChangePassword changes the authenticated user's own password
func (s *AuthService) ChangePassword(ctx context.Context, tenantID, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return err
	}

	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}

	return s.userRepo.Save(ctx, user)
}
