// Package metrics aggregates dashboard figures over a lead snapshot.
package metrics

import (
	"math"
	"time"

	"rental_portal_backend/internal/leads/domain"
)

// StageCount is the number of leads sitting in one pipeline stage.
type StageCount struct {
	Status domain.Status `json:"status"`
	Label  string        `json:"label"`
	Count  int           `json:"count"`
}

// Metrics is the dashboard summary for a snapshot.
type Metrics struct {
	Total          int                   `json:"total"`
	Unassigned     int                   `json:"unassigned"`
	NewToday       int                   `json:"newToday"`
	Completed      int                   `json:"completed"`
	ConversionRate int                   `json:"conversionRate"`
	Pipeline       []StageCount          `json:"pipeline"`
	StatusCounts   map[domain.Status]int `json:"statusCounts"`
}

// Compute derives Metrics from leads. NewToday counts leads created in the
// last 24 hours. Pipeline is parallel to domain.PipelineOrder(); terminal
// and outlier statuses only appear in StatusCounts.
func Compute(leads []domain.Lead, now time.Time) Metrics {
	since := now.Add(-24 * time.Hour)

	counts := make(map[domain.Status]int, len(domain.All()))
	for _, info := range domain.All() {
		counts[info.Status] = 0
	}

	m := Metrics{Total: len(leads)}
	for _, l := range leads {
		counts[l.Status]++
		if l.IsUnassigned() {
			m.Unassigned++
		}
		if !l.CreatedAt.Before(since) {
			m.NewToday++
		}
		if domain.IsWon(l.Status) {
			m.Completed++
		}
	}

	order := domain.PipelineOrder()
	m.Pipeline = make([]StageCount, len(order))
	for i, s := range order {
		m.Pipeline[i] = StageCount{Status: s, Label: s.Label(), Count: counts[s]}
	}
	m.StatusCounts = counts
	m.ConversionRate = ConversionRate(m.Completed, m.Total)

	return m
}

// ConversionRate is completed/total as a whole percentage, rounded half
// away from zero. It is 0 when total is 0.
func ConversionRate(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) * 100 / float64(total)))
}
