package repository

import (
	"context"

	"rental_portal_backend/internal/leads/domain"
)

// ListSellers returns the active sellers ordered by name.
func (r *Repository) ListSellers(ctx context.Context) ([]domain.Seller, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, first_name, last_name
		FROM sellers
		WHERE is_active = true
		ORDER BY first_name ASC, last_name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Seller, 0)
	for rows.Next() {
		var s domain.Seller
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName); err != nil {
			return nil, err
		}
		items = append(items, s)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}
