package service

import (
	"context"
	"time"

	"rental_portal_backend/internal/events"
	"rental_portal_backend/internal/leads/cache"
	"rental_portal_backend/internal/leads/domain"
	"rental_portal_backend/internal/leads/metrics"
	"rental_portal_backend/internal/leads/query"
	"rental_portal_backend/internal/leads/repository"
	"rental_portal_backend/platform/logger"
)

// Cache is the snapshot cache the service reads through. A nil *cache.Cache
// satisfies it and caches nothing.
type Cache interface {
	GetMetrics(ctx context.Context) (metrics.Metrics, bool, error)
	SetMetrics(ctx context.Context, m metrics.Metrics) error
	GetSellers(ctx context.Context) ([]domain.Seller, bool, error)
	SetSellers(ctx context.Context, sellers []domain.Seller) error
	InvalidateMetrics(ctx context.Context) error
}

type Service struct {
	repo        repository.LeadsRepository
	cache       Cache
	bus         events.Bus
	engine      *query.Engine
	log         *logger.Logger
	clock       func() time.Time
	location    *time.Location
	phoneRegion string
}

type Option func(*Service)

// WithCache reads metrics and the seller directory through c.
func WithCache(c Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithEngine sets the list engine options (week start, locale, page size).
func WithEngine(e *query.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithLocation evaluates date ranges in loc.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithPhoneRegion sets the region used to normalise intake phone numbers.
func WithPhoneRegion(region string) Option {
	return func(s *Service) {
		if region != "" {
			s.phoneRegion = region
		}
	}
}

func New(repo repository.LeadsRepository, bus events.Bus, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		cache:       (*cache.Cache)(nil),
		bus:         bus,
		engine:      query.New(query.DefaultOptions()),
		log:         log,
		clock:       time.Now,
		location:    time.UTC,
		phoneRegion: "MX",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Discard()
	}
	return s
}

// now is the injected clock in the configured location, truncated to the
// precision Postgres stores.
func (s *Service) now() time.Time {
	return s.clock().In(s.location).Truncate(time.Microsecond)
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, event)
}
