package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crmpro/backend/internal/infrastructure/auth"
	"github.com/crmpro/backend/internal/infrastructure/logger"
	"github.com/crmpro/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar is implemented by handlers that register their own routes.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Config configures the HTTP router.
type Config struct {
	Logger         *zap.Logger
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	Mode           string
}

// Router wires middleware and handlers into a gin engine.
type Router struct {
	engine     *gin.Engine
	api        *gin.RouterGroup
	registrars []RouteRegistrar
}

// New creates a router with the standard middleware chain. Authentication
// covers everything under /api/v1 except registration, login, refresh and
// the health probe.
func New(cfg Config) *Router {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(cfg.Logger),
		logger.GinMiddleware(cfg.Logger),
		logger.Recovery(cfg.Logger),
	)

	api := engine.Group("/api/v1")
	api.Use(middleware.JWTMiddleware(middleware.JWTMiddlewareConfig{
		JWTService:     cfg.JWTService,
		TokenBlacklist: cfg.TokenBlacklist,
		SkipPaths: []string{
			"/api/v1/health",
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/super-admin/login",
			"/api/v1/auth/refresh",
		},
	}))

	return &Router{engine: engine, api: api}
}

// Register adds handlers to the router.
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Setup registers all routes and returns the engine.
func (r *Router) Setup() *gin.Engine {
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(r.api)
	}
	return r.engine
}
