// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"rental_portal_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

const (
	NameLeadCreated       = "leads.lead.created"
	NameLeadStatusChanged = "leads.lead.status_changed"
	NameLeadAssigned      = "leads.lead.assigned"
	NameLeadUnassigned    = "leads.lead.unassigned"
)

// LeadCreated is published when intake stores a new lead.
type LeadCreated struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
	Source string    `json:"source,omitempty"`
}

func (e LeadCreated) EventName() string { return NameLeadCreated }

// LeadStatusChanged is published after a status transition is committed.
type LeadStatusChanged struct {
	BaseEvent
	LeadID  uuid.UUID `json:"leadId"`
	ActorID uuid.UUID `json:"actorId"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	Kind    string    `json:"kind"`
}

func (e LeadStatusChanged) EventName() string { return NameLeadStatusChanged }

// LeadAssigned is published when a lead gets or changes its seller.
type LeadAssigned struct {
	BaseEvent
	LeadID         uuid.UUID  `json:"leadId"`
	ActorID        uuid.UUID  `json:"actorId"`
	SellerID       uuid.UUID  `json:"sellerId"`
	PreviousSeller *uuid.UUID `json:"previousSellerId,omitempty"`
}

func (e LeadAssigned) EventName() string { return NameLeadAssigned }

// LeadUnassigned is published when a lead goes back to the unassigned pool.
type LeadUnassigned struct {
	BaseEvent
	LeadID         uuid.UUID  `json:"leadId"`
	ActorID        uuid.UUID  `json:"actorId"`
	PreviousSeller *uuid.UUID `json:"previousSellerId,omitempty"`
}

func (e LeadUnassigned) EventName() string { return NameLeadUnassigned }
