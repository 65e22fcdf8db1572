package repository

import (
	"context"

	"rental_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to the lead snapshot.
type LeadReader interface {
	List(ctx context.Context) ([]domain.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
}

// LeadWriter persists lead changes. Commit is a compare-and-swap on the
// Version the caller read.
type LeadWriter interface {
	Create(ctx context.Context, lead domain.Lead) (domain.Lead, error)
	Commit(ctx context.Context, lead domain.Lead, expectedVersion int64) (domain.Lead, error)
}

// SellerReader lists the seller directory.
type SellerReader interface {
	ListSellers(ctx context.Context) ([]domain.Seller, error)
}

// ActivityLogger records activity/audit trail on leads.
type ActivityLogger interface {
	AddActivity(ctx context.Context, leadID uuid.UUID, actorID uuid.UUID, action string, meta map[string]interface{}) error
	ListActivity(ctx context.Context, leadID uuid.UUID, limit int) ([]Activity, error)
}

// SnapshotWriter persists periodic metrics snapshots.
type SnapshotWriter interface {
	InsertMetricsSnapshot(ctx context.Context, snap MetricsSnapshot) error
}

// =====================================
// Composite Interface
// =====================================

// LeadsRepository defines the complete interface for leads data operations.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	SellerReader
	ActivityLogger
	SnapshotWriter
}

// Ensure Repository implements LeadsRepository
var _ LeadsRepository = (*Repository)(nil)
