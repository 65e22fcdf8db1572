// Package query implements the filter-sort-paginate pipeline that every
// lead list screen runs over a snapshot. It is pure: callers inject now
// and the seller directory, and the input slice is never modified.
package query

import (
	"slices"
	"time"

	"rental_portal_backend/internal/leads/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Options tune locale-dependent behaviour.
type Options struct {
	// WeekStart anchors the "week" date range.
	WeekStart time.Weekday
	// Locale drives name and seller collation.
	Locale language.Tag
	// DefaultPageSize replaces non-positive page sizes.
	DefaultPageSize int
	// MaxPageSize caps the page size. The effective size is echoed in
	// Result.PageSize and TotalPages is computed from it.
	MaxPageSize int
}

// DefaultOptions matches the Mexican Spanish UI: weeks start on Monday.
func DefaultOptions() Options {
	return Options{
		WeekStart:       time.Monday,
		Locale:          language.MustParse("es-MX"),
		DefaultPageSize: DefaultPageSize,
		MaxPageSize:     MaxPageSize,
	}
}

// Engine applies filter, sort and pagination with fixed Options.
type Engine struct {
	opts Options
}

// New creates an engine. Zero-valued fields fall back to DefaultOptions.
func New(opts Options) *Engine {
	def := DefaultOptions()
	if opts.Locale == language.Und {
		opts.Locale = def.Locale
	}
	if opts.MaxPageSize < 1 {
		opts.MaxPageSize = def.MaxPageSize
	}
	if opts.DefaultPageSize < 1 {
		opts.DefaultPageSize = def.DefaultPageSize
	}
	if opts.DefaultPageSize > opts.MaxPageSize {
		opts.DefaultPageSize = opts.MaxPageSize
	}
	return &Engine{opts: opts}
}

// Result is one page of a filtered, sorted snapshot.
type Result struct {
	Items      []domain.Lead
	Total      int
	TotalPages int
	Page       int
	PageSize   int
}

// Apply filters leads, sorts the matches stably and slices the requested
// page. Total counts matches before pagination. Out-of-range pages and
// sizes are clamped; unknown sort fields sort by createdAt.
func (e *Engine) Apply(leads []domain.Lead, sellers domain.SellerDirectory, f Filter, s Sort, p Page, now time.Time) Result {
	cf := compileFilter(f, now, e.opts.WeekStart)

	matched := make([]domain.Lead, 0, len(leads))
	for _, l := range leads {
		if cf.match(l) {
			matched = append(matched, l)
		}
	}

	// A collator keeps scratch buffers, so one per call.
	coll := collate.New(e.opts.Locale)
	slices.SortStableFunc(matched, comparator(s, sellers, coll))

	page, size, totalPages, start, end := window(p, len(matched), e.opts.DefaultPageSize, e.opts.MaxPageSize)

	return Result{
		Items:      slices.Clip(matched[start:end]),
		Total:      len(matched),
		TotalPages: totalPages,
		Page:       page,
		PageSize:   size,
	}
}

// Filter returns the leads matching f in input order, without paging.
func (e *Engine) Filter(leads []domain.Lead, f Filter, now time.Time) []domain.Lead {
	cf := compileFilter(f, now, e.opts.WeekStart)
	out := make([]domain.Lead, 0)
	for _, l := range leads {
		if cf.match(l) {
			out = append(out, l)
		}
	}
	return out
}

var defaultEngine = New(DefaultOptions())

// Apply runs the default engine.
func Apply(leads []domain.Lead, sellers domain.SellerDirectory, f Filter, s Sort, p Page, now time.Time) Result {
	return defaultEngine.Apply(leads, sellers, f, s, p, now)
}
