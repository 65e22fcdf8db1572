package repository

import (
	"context"
	"encoding/json"
	"time"
)

// MetricsSnapshot is a persisted copy of the dashboard figures.
type MetricsSnapshot struct {
	TakenAt        time.Time
	Total          int
	Unassigned     int
	NewToday       int
	Completed      int
	ConversionRate int
	StatusCounts   map[string]int
}

// InsertMetricsSnapshot stores one row in lead_metrics_snapshots.
func (r *Repository) InsertMetricsSnapshot(ctx context.Context, snap MetricsSnapshot) error {
	counts, err := json.Marshal(snap.StatusCounts)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO lead_metrics_snapshots (
			taken_at, total, unassigned, new_today, completed, conversion_rate, status_counts
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, snap.TakenAt, snap.Total, snap.Unassigned, snap.NewToday, snap.Completed, snap.ConversionRate, counts)
	return err
}
