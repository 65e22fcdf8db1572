package query

import (
	"strings"
	"time"

	"rental_portal_backend/internal/leads/domain"
)

const (
	// All disables the status or seller filter.
	All = "all"
	// Unassigned selects leads without a seller in the seller filter.
	Unassigned = "unassigned"
)

// DateRange is a createdAt window relative to the injected now.
type DateRange string

const (
	DateRangeAll   DateRange = "all"
	DateRangeToday DateRange = "today"
	DateRangeWeek  DateRange = "week"
	DateRangeMonth DateRange = "month"
)

// ParseDateRange maps unknown or blank values to DateRangeAll.
func ParseDateRange(raw string) DateRange {
	switch r := DateRange(strings.ToLower(strings.TrimSpace(raw))); r {
	case DateRangeToday, DateRangeWeek, DateRangeMonth:
		return r
	default:
		return DateRangeAll
	}
}

// Filter holds the predicates; they are combined with AND. Blank string
// fields behave like "all".
type Filter struct {
	Search    string
	Status    string
	Seller    string
	DateRange DateRange
}

type compiledFilter struct {
	search  string
	status  string
	seller  string
	since   time.Time
	bounded bool
}

func compileFilter(f Filter, now time.Time, weekStart time.Weekday) compiledFilter {
	cf := compiledFilter{
		search: strings.ToLower(strings.TrimSpace(f.Search)),
		status: strings.TrimSpace(f.Status),
		seller: strings.ToLower(strings.TrimSpace(f.Seller)),
	}
	if cf.status == All {
		cf.status = ""
	}
	if cf.seller == All {
		cf.seller = ""
	}

	switch f.DateRange {
	case DateRangeToday:
		cf.since = now.Add(-24 * time.Hour)
		cf.bounded = true
	case DateRangeWeek:
		cf.since = StartOfWeek(now, weekStart)
		cf.bounded = true
	case DateRangeMonth:
		cf.since = StartOfMonth(now)
		cf.bounded = true
	}
	return cf
}

func (cf compiledFilter) match(l domain.Lead) bool {
	if cf.status != "" && string(l.Status) != cf.status {
		return false
	}

	switch cf.seller {
	case "":
	case Unassigned:
		if l.AssignedSellerID != nil {
			return false
		}
	default:
		if l.AssignedSellerID == nil || l.AssignedSellerID.String() != cf.seller {
			return false
		}
	}

	if cf.bounded && l.CreatedAt.Before(cf.since) {
		return false
	}

	if cf.search != "" && !matchesSearch(l, cf.search) {
		return false
	}

	return true
}

func matchesSearch(l domain.Lead, needle string) bool {
	if strings.Contains(strings.ToLower(l.FirstName+" "+l.LastName), needle) {
		return true
	}
	if l.Email != nil && strings.Contains(strings.ToLower(*l.Email), needle) {
		return true
	}
	if l.Phone != nil && strings.Contains(strings.ToLower(*l.Phone), needle) {
		return true
	}
	return false
}

// StartOfWeek returns midnight of the most recent weekStart day on or
// before now, in now's location.
func StartOfWeek(now time.Time, weekStart time.Weekday) time.Time {
	offset := (int(now.Weekday()) - int(weekStart) + 7) % 7
	y, m, d := now.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, now.Location())
}

// StartOfMonth returns midnight on the first of now's month, in now's location.
func StartOfMonth(now time.Time) time.Time {
	y, m, _ := now.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
}
