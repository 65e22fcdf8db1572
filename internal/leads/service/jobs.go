package service

import (
	"context"
	"slices"
	"time"

	"rental_portal_backend/internal/leads/domain"
	"rental_portal_backend/internal/leads/metrics"
	"rental_portal_backend/internal/leads/repository"
)

// SnapshotMetrics computes fresh metrics, persists them and refreshes the
// cache. Used by the daily scheduler job.
func (s *Service) SnapshotMetrics(ctx context.Context) (metrics.Metrics, error) {
	const op = "leads.SnapshotMetrics"

	leads, err := s.repo.List(ctx)
	if err != nil {
		return metrics.Metrics{}, mapError(op, err)
	}

	now := s.now()
	m := metrics.Compute(leads, now)

	counts := make(map[string]int, len(m.StatusCounts))
	for status, n := range m.StatusCounts {
		counts[string(status)] = n
	}

	err = s.repo.InsertMetricsSnapshot(ctx, repository.MetricsSnapshot{
		TakenAt:        now,
		Total:          m.Total,
		Unassigned:     m.Unassigned,
		NewToday:       m.NewToday,
		Completed:      m.Completed,
		ConversionRate: m.ConversionRate,
		StatusCounts:   counts,
	})
	if err != nil {
		return metrics.Metrics{}, mapError(op, err)
	}

	if err := s.cache.SetMetrics(ctx, m); err != nil {
		s.log.WithContext(ctx).Warn("metrics cache write failed", "error", err.Error())
	}
	return m, nil
}

// StaleInbox returns inbox leads that have waited longer than olderThan,
// oldest first.
func (s *Service) StaleInbox(ctx context.Context, olderThan time.Duration) ([]domain.Lead, error) {
	leads, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError("leads.StaleInbox", err)
	}

	cutoff := s.now().Add(-olderThan)
	stale := make([]domain.Lead, 0)
	for _, lead := range domain.ComputeInbox(leads) {
		if lead.CreatedAt.Before(cutoff) {
			stale = append(stale, lead)
		}
	}

	slices.SortStableFunc(stale, func(a, b domain.Lead) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return stale, nil
}
