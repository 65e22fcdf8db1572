// Package leads provides the lead pipeline bounded context module.
// This file wires the repository, cache, list engine, service and handler
// together and registers the module's routes.
package leads

import (
	"rental_portal_backend/internal/events"
	apphttp "rental_portal_backend/internal/http"
	"rental_portal_backend/internal/leads/cache"
	"rental_portal_backend/internal/leads/handler"
	"rental_portal_backend/internal/leads/query"
	"rental_portal_backend/internal/leads/repository"
	"rental_portal_backend/internal/leads/service"
	"rental_portal_backend/internal/leads/transport"
	"rental_portal_backend/platform/config"
	"rental_portal_backend/platform/logger"
	"rental_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/text/language"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewService builds the lead service without any HTTP surface. The scheduler
// binary uses it directly. rdb may be nil, in which case nothing is cached.
func NewService(pool *pgxpool.Pool, eventBus events.Bus, cfg config.LeadsConfig, log *logger.Logger, rdb *redis.Client) *service.Service {
	repo := repository.New(pool)

	engine := query.New(query.Options{
		WeekStart:       cfg.GetLeadsWeekStart(),
		Locale:          language.Make(cfg.GetLeadsLocale()),
		DefaultPageSize: cfg.GetLeadsDefaultPageSize(),
		MaxPageSize:     cfg.GetLeadsMaxPageSize(),
	})

	return service.New(repo, eventBus, log,
		service.WithCache(cache.New(rdb, cfg.GetMetricsCacheTTL())),
		service.WithEngine(engine),
		service.WithLocation(cfg.GetLeadsTimezone()),
		service.WithPhoneRegion(cfg.GetPhoneDefaultRegion()),
	)
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, cfg config.LeadsConfig, log *logger.Logger, rdb *redis.Client) (*Module, error) {
	if err := transport.RegisterValidations(val); err != nil {
		return nil, err
	}

	svc := NewService(pool, eventBus, cfg, log, rdb)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the lead service for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// All leads routes require authentication
	leadsGroup := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(leadsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
