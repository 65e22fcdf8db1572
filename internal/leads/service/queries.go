package service

import (
	"context"
	"log/slog"
	"strings"

	"rental_portal_backend/internal/leads/domain"
	"rental_portal_backend/internal/leads/metrics"
	"rental_portal_backend/internal/leads/query"
	"rental_portal_backend/internal/leads/repository"
	"rental_portal_backend/internal/leads/transport"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// snapshot fetches the leads and the seller directory concurrently.
func (s *Service) snapshot(ctx context.Context) ([]domain.Lead, domain.Sellers, error) {
	var (
		leads   []domain.Lead
		sellers domain.Sellers
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.repo.List(gctx)
		if err != nil {
			return err
		}
		leads = list
		return nil
	})
	g.Go(func() error {
		dir, err := s.sellerDirectory(gctx, false)
		if err != nil {
			return err
		}
		sellers = dir
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, domain.Sellers{}, err
	}
	return leads, sellers, nil
}

// sellerDirectory reads the seller list through the cache unless fresh is
// set. Cache failures degrade to a direct read.
func (s *Service) sellerDirectory(ctx context.Context, fresh bool) (domain.Sellers, error) {
	if !fresh {
		list, ok, err := s.cache.GetSellers(ctx)
		if err != nil {
			s.log.WithContext(ctx).Warn("seller cache read failed", slog.String("error", err.Error()))
		}
		if ok {
			return domain.NewSellers(list), nil
		}
	}

	list, err := s.repo.ListSellers(ctx)
	if err != nil {
		return domain.Sellers{}, err
	}
	if err := s.cache.SetSellers(ctx, list); err != nil {
		s.log.WithContext(ctx).Warn("seller cache write failed", slog.String("error", err.Error()))
	}
	return domain.NewSellers(list), nil
}

// List runs the filter-sort-paginate engine over the current snapshot.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	leads, sellers, err := s.snapshot(ctx)
	if err != nil {
		return transport.LeadListResponse{}, mapError("leads.List", err)
	}

	res := s.engine.Apply(leads, sellers,
		query.Filter{
			Search:    req.Search,
			Status:    req.Status,
			Seller:    req.Seller,
			DateRange: query.ParseDateRange(req.DateRange),
		},
		query.Sort{
			Field: query.ParseSortField(req.SortBy),
			Order: query.ParseSortOrder(req.SortOrder),
		},
		query.ParsePage(req.Page, req.PageSize),
		s.now(),
	)

	return transport.LeadListResponse{
		Items:      toLeadResponses(res.Items, sellers),
		Total:      res.Total,
		Page:       res.Page,
		PageSize:   res.PageSize,
		TotalPages: res.TotalPages,
	}, nil
}

// Inbox returns the new, unassigned leads awaiting triage.
func (s *Service) Inbox(ctx context.Context) (transport.InboxResponse, error) {
	leads, err := s.repo.List(ctx)
	if err != nil {
		return transport.InboxResponse{}, mapError("leads.Inbox", err)
	}

	inbox := domain.ComputeInbox(leads)
	return transport.InboxResponse{
		Items: toLeadResponses(inbox, nil),
		Total: len(inbox),
	}, nil
}

// Metrics returns the dashboard figures, served from the cache when warm.
func (s *Service) Metrics(ctx context.Context) (metrics.Metrics, error) {
	cached, ok, err := s.cache.GetMetrics(ctx)
	if err != nil {
		s.log.WithContext(ctx).Warn("metrics cache read failed", slog.String("error", err.Error()))
	}
	if ok {
		return cached, nil
	}

	leads, err := s.repo.List(ctx)
	if err != nil {
		return metrics.Metrics{}, mapError("leads.Metrics", err)
	}

	m := metrics.Compute(leads, s.now())
	if err := s.cache.SetMetrics(ctx, m); err != nil {
		s.log.WithContext(ctx).Warn("metrics cache write failed", slog.String("error", err.Error()))
	}
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, mapError("leads.GetByID", err)
	}

	sellers, err := s.responseSellers(ctx, lead)
	if err != nil {
		return transport.LeadResponse{}, mapError("leads.GetByID", err)
	}
	return toLeadResponse(lead, sellers), nil
}

// Activity returns the lead's audit trail, newest first.
func (s *Service) Activity(ctx context.Context, id uuid.UUID, limit int) (transport.ActivityListResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return transport.ActivityListResponse{}, mapError("leads.Activity", err)
	}

	items, err := s.repo.ListActivity(ctx, id, repository.ClampActivityLimit(limit))
	if err != nil {
		return transport.ActivityListResponse{}, mapError("leads.Activity", err)
	}

	resp := transport.ActivityListResponse{Items: make([]transport.ActivityResponse, len(items))}
	for i, item := range items {
		resp.Items[i] = toActivityResponse(item)
	}
	return resp, nil
}

// Sellers lists the seller directory, for assignment pickers.
func (s *Service) Sellers(ctx context.Context) (transport.SellerListResponse, error) {
	dir, err := s.sellerDirectory(ctx, false)
	if err != nil {
		return transport.SellerListResponse{}, mapError("leads.Sellers", err)
	}

	list := dir.List()
	resp := transport.SellerListResponse{Items: make([]transport.SellerResponse, len(list))}
	for i, seller := range list {
		resp.Items[i] = toSellerResponse(seller)
	}
	return resp, nil
}

// Statuses exposes the status registry so UIs never hard-code labels.
func (s *Service) Statuses() transport.StatusListResponse {
	return transport.StatusListResponse{
		Items:    domain.All(),
		Pipeline: domain.PipelineOrder(),
	}
}

// responseSellers loads the directory only when the lead has a seller.
func (s *Service) responseSellers(ctx context.Context, lead domain.Lead) (domain.SellerDirectory, error) {
	if lead.IsUnassigned() {
		return nil, nil
	}
	dir, err := s.sellerDirectory(ctx, false)
	if err != nil {
		return nil, err
	}
	return dir, nil
}

func normalizeEmail(email string) *string {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
