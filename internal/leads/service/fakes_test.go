package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"rental_portal_backend/internal/leads/domain"
	"rental_portal_backend/internal/leads/metrics"
	"rental_portal_backend/internal/leads/repository"

	"github.com/google/uuid"
)

type activityEntry struct {
	leadID  uuid.UUID
	actorID uuid.UUID
	action  string
	meta    map[string]interface{}
}

// fakeRepo is an in-memory LeadsRepository with the same CAS semantics
// as the Postgres implementation.
type fakeRepo struct {
	mu        sync.Mutex
	leads     []domain.Lead
	sellers   []domain.Seller
	activity  []activityEntry
	snapshots []repository.MetricsSnapshot
	commits   int
	listErr   error

	lastActivityLimit int

	// beforeCommit runs with the lock released, letting a test simulate a
	// concurrent writer.
	beforeCommit func()
}

var _ repository.LeadsRepository = (*fakeRepo)(nil)

func (f *fakeRepo) List(ctx context.Context) ([]domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Lead, len(f.leads))
	for i, l := range f.leads {
		out[i] = l.Clone()
	}
	return out, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.leads {
		if l.ID == id {
			return l.Clone(), nil
		}
	}
	return domain.Lead{}, &domain.LeadNotFoundError{LeadID: id}
}

func (f *fakeRepo) Create(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lead.Version = 1
	f.leads = append(f.leads, lead.Clone())
	return lead, nil
}

func (f *fakeRepo) Commit(ctx context.Context, lead domain.Lead, expected int64) (domain.Lead, error) {
	if f.beforeCommit != nil {
		f.beforeCommit()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := lead.Validate(); err != nil {
		return domain.Lead{}, err
	}
	for i, l := range f.leads {
		if l.ID != lead.ID {
			continue
		}
		if l.Version != expected {
			return domain.Lead{}, &domain.ConcurrencyConflictError{LeadID: lead.ID}
		}
		lead.Version = l.Version + 1
		f.leads[i] = lead.Clone()
		f.commits++
		return lead, nil
	}
	return domain.Lead{}, &domain.LeadNotFoundError{LeadID: lead.ID}
}

func (f *fakeRepo) ListSellers(ctx context.Context) ([]domain.Seller, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Seller(nil), f.sellers...), nil
}

func (f *fakeRepo) AddActivity(ctx context.Context, leadID uuid.UUID, actorID uuid.UUID, action string, meta map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activity = append(f.activity, activityEntry{leadID: leadID, actorID: actorID, action: action, meta: meta})
	return nil
}

func (f *fakeRepo) ListActivity(ctx context.Context, leadID uuid.UUID, limit int) ([]repository.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastActivityLimit = limit
	out := make([]repository.Activity, 0)
	for i := len(f.activity) - 1; i >= 0; i-- {
		a := f.activity[i]
		if a.leadID != leadID {
			continue
		}
		actor := a.actorID
		out = append(out, repository.Activity{ID: uuid.New(), LeadID: a.leadID, ActorID: &actor, Action: a.action, Meta: a.meta})
	}
	return out, nil
}

func (f *fakeRepo) InsertMetricsSnapshot(ctx context.Context, snap repository.MetricsSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots = append(f.snapshots, snap)
	return nil
}

// bump simulates another writer committing to a lead at the given time.
func (f *fakeRepo) bump(id uuid.UUID, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.leads {
		if f.leads[i].ID == id {
			f.leads[i].UpdatedAt = at
			f.leads[i].Version++
		}
	}
}

func (f *fakeRepo) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.activity))
	for i, a := range f.activity {
		out[i] = a.action
	}
	return out
}

type fakeCache struct {
	mu            sync.Mutex
	metrics       *metrics.Metrics
	sellers       []domain.Seller
	invalidations int
	readErr       error
}

func (c *fakeCache) GetMetrics(ctx context.Context) (metrics.Metrics, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return metrics.Metrics{}, false, c.readErr
	}
	if c.metrics == nil {
		return metrics.Metrics{}, false, nil
	}
	return *c.metrics, true, nil
}

func (c *fakeCache) SetMetrics(ctx context.Context, m metrics.Metrics) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = &m
	return nil
}

func (c *fakeCache) GetSellers(ctx context.Context) ([]domain.Seller, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return nil, false, c.readErr
	}
	if c.sellers == nil {
		return nil, false, nil
	}
	return append([]domain.Seller(nil), c.sellers...), true, nil
}

func (c *fakeCache) SetSellers(ctx context.Context, sellers []domain.Seller) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sellers = append([]domain.Seller{}, sellers...)
	return nil
}

func (c *fakeCache) InvalidateMetrics(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = nil
	c.invalidations++
	return nil
}

var errBoom = errors.New("boom")
