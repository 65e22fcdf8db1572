package repository

import (
	"context"
	"errors"

	"rental_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a lead id does not resolve.
var ErrNotFound = domain.ErrLeadNotFound

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `id, first_name, last_name, email, phone, status, assigned_seller_id, source,
	budget_min::float8, budget_max::float8, created_at, updated_at, version`

func scanLead(row pgx.Row) (domain.Lead, error) {
	var lead domain.Lead
	var status string
	err := row.Scan(
		&lead.ID, &lead.FirstName, &lead.LastName, &lead.Email, &lead.Phone, &status,
		&lead.AssignedSellerID, &lead.Source, &lead.BudgetMin, &lead.BudgetMax,
		&lead.CreatedAt, &lead.UpdatedAt, &lead.Version,
	)
	if err != nil {
		return domain.Lead{}, err
	}
	lead.Status = domain.Status(status)
	return lead, nil
}

// List returns the full lead snapshot, newest first.
func (r *Repository) List(ctx context.Context) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, lead)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, &domain.LeadNotFoundError{LeadID: id}
	}
	return lead, err
}

// Create inserts a lead built by domain.NewLead, keeping its id and timestamps.
func (r *Repository) Create(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	if err := lead.Validate(); err != nil {
		return domain.Lead{}, err
	}

	return scanLead(r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			id, first_name, last_name, email, phone, status, assigned_seller_id, source,
			budget_min, budget_max, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+leadColumns,
		lead.ID, lead.FirstName, lead.LastName, lead.Email, lead.Phone, string(lead.Status),
		lead.AssignedSellerID, lead.Source, lead.BudgetMin, lead.BudgetMax,
		lead.CreatedAt, lead.UpdatedAt,
	))
}

// Commit writes the mutable fields of lead (status, seller, updated_at) and
// bumps version, only if the stored version still equals expectedVersion.
// Zero rows means either the lead is gone or another writer got there
// first; a follow-up existence check tells the two apart.
func (r *Repository) Commit(ctx context.Context, lead domain.Lead, expectedVersion int64) (domain.Lead, error) {
	if err := lead.Validate(); err != nil {
		return domain.Lead{}, err
	}

	stored, err := scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads
		SET status = $2, assigned_seller_id = $3, updated_at = $4, version = version + 1
		WHERE id = $1 AND version = $5
		RETURNING `+leadColumns,
		lead.ID, string(lead.Status), lead.AssignedSellerID, lead.UpdatedAt, expectedVersion,
	))
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, err
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM leads WHERE id = $1)`, lead.ID).Scan(&exists); err != nil {
		return domain.Lead{}, err
	}
	if !exists {
		return domain.Lead{}, &domain.LeadNotFoundError{LeadID: lead.ID}
	}
	return domain.Lead{}, &domain.ConcurrencyConflictError{LeadID: lead.ID}
}
