package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Lead is a prospective tenant or buyer tracked through the pipeline.
// Values are treated as immutable snapshots: operations return a new Lead.
type Lead struct {
	ID               uuid.UUID
	FirstName        string
	LastName         string
	Email            *string
	Phone            *string
	Status           Status
	AssignedSellerID *uuid.UUID
	Source           *string
	BudgetMin        *float64
	BudgetMax        *float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
	// Version is the optimistic-concurrency counter. The store bumps it on
	// every commit; domain operations carry it through unchanged.
	Version int64
}

// FullName is "first last" with surrounding blanks trimmed.
func (l Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// IsUnassigned reports whether no seller owns the lead.
func (l Lead) IsUnassigned() bool {
	return l.AssignedSellerID == nil
}

// InInbox reports whether the lead is new and awaiting triage.
func (l Lead) InInbox() bool {
	return l.AssignedSellerID == nil && l.Status == StatusNewLead
}

// BudgetReference is the larger of the present budget bounds, or 0.
func (l Lead) BudgetReference() float64 {
	var ref float64
	if l.BudgetMin != nil && *l.BudgetMin > ref {
		ref = *l.BudgetMin
	}
	if l.BudgetMax != nil && *l.BudgetMax > ref {
		ref = *l.BudgetMax
	}
	return ref
}

// Clone returns a copy that shares no pointers with l.
func (l Lead) Clone() Lead {
	out := l
	out.Email = cloneString(l.Email)
	out.Phone = cloneString(l.Phone)
	out.Source = cloneString(l.Source)
	out.BudgetMin = cloneFloat(l.BudgetMin)
	out.BudgetMax = cloneFloat(l.BudgetMax)
	if l.AssignedSellerID != nil {
		id := *l.AssignedSellerID
		out.AssignedSellerID = &id
	}
	return out
}

// Validate enforces the record invariants this package owns.
func (l Lead) Validate() error {
	if !IsValid(l.Status) {
		return &InvalidStatusError{Status: string(l.Status)}
	}
	return nil
}

// NewLeadParams carries the intake fields for a fresh lead.
type NewLeadParams struct {
	FirstName string
	LastName  string
	Email     *string
	Phone     *string
	Source    *string
	BudgetMin *float64
	BudgetMax *float64
}

// NewLead builds a lead the way intake creates it: status nuevo_lead,
// no seller, both timestamps set to now.
func NewLead(params NewLeadParams, now time.Time) Lead {
	return Lead{
		ID:        uuid.New(),
		FirstName: strings.TrimSpace(params.FirstName),
		LastName:  strings.TrimSpace(params.LastName),
		Email:     cloneString(params.Email),
		Phone:     cloneString(params.Phone),
		Status:    StatusNewLead,
		Source:    cloneString(params.Source),
		BudgetMin: cloneFloat(params.BudgetMin),
		BudgetMax: cloneFloat(params.BudgetMax),
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
