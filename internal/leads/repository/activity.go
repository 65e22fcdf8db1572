package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Activity actions written by the leads service.
const (
	ActionCreated       = "lead_created"
	ActionStatusChanged = "status_changed"
	ActionAssigned      = "assigned"
	ActionUnassigned    = "unassigned"
)

// Activity page bounds.
const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 200
)

// ClampActivityLimit maps a requested limit onto [1, MaxActivityLimit];
// non-positive values get DefaultActivityLimit.
func ClampActivityLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultActivityLimit
	case limit > MaxActivityLimit:
		return MaxActivityLimit
	}
	return limit
}

type Activity struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	ActorID   *uuid.UUID
	Action    string
	Meta      map[string]any
	CreatedAt time.Time
}

// AddActivity appends to the lead's audit trail. A uuid.Nil actorID is stored
// as NULL for system actions.
func (r *Repository) AddActivity(ctx context.Context, leadID uuid.UUID, actorID uuid.UUID, action string, meta map[string]interface{}) error {
	metaJSON := []byte("{}")
	if meta != nil {
		encoded, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		metaJSON = encoded
	}

	var actor *uuid.UUID
	if actorID != uuid.Nil {
		actor = &actorID
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO lead_activity (lead_id, actor_id, action, meta)
		VALUES ($1, $2, $3, $4)
	`, leadID, actor, action, metaJSON)
	return err
}

// ListActivity returns the most recent entries for a lead, newest first.
func (r *Repository) ListActivity(ctx context.Context, leadID uuid.UUID, limit int) ([]Activity, error) {
	limit = ClampActivityLimit(limit)

	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, actor_id, action, meta, created_at
		FROM lead_activity
		WHERE lead_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, leadID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Activity, 0)
	for rows.Next() {
		var item Activity
		var rawMeta []byte
		if err := rows.Scan(&item.ID, &item.LeadID, &item.ActorID, &item.Action, &rawMeta, &item.CreatedAt); err != nil {
			return nil, err
		}
		if len(rawMeta) > 0 {
			if err := json.Unmarshal(rawMeta, &item.Meta); err != nil {
				return nil, err
			}
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}
