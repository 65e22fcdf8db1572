package domain

import (
	"time"

	"github.com/google/uuid"
)

// ComputeInbox returns the leads that are new and unassigned, in input order.
func ComputeInbox(leads []Lead) []Lead {
	out := make([]Lead, 0)
	for _, l := range leads {
		if l.InInbox() {
			out = append(out, l)
		}
	}
	return out
}

// FindLead returns the lead with id from leads.
func FindLead(leads []Lead, id uuid.UUID) (Lead, bool) {
	for _, l := range leads {
		if l.ID == id {
			return l, true
		}
	}
	return Lead{}, false
}

// Assign sets the owning seller of leadID. The seller is checked before
// the lead so nothing is resolved for an unknown seller. Reassignment is
// the same operation. Status is not consulted.
func Assign(leads []Lead, leadID, sellerID uuid.UUID, sellers SellerDirectory, now time.Time) (Lead, error) {
	if sellers == nil {
		return Lead{}, &UnknownSellerError{SellerID: sellerID}
	}
	if _, ok := sellers.Lookup(sellerID); !ok {
		return Lead{}, &UnknownSellerError{SellerID: sellerID}
	}

	lead, ok := FindLead(leads, leadID)
	if !ok {
		return Lead{}, &LeadNotFoundError{LeadID: leadID}
	}

	return AssignLead(lead, sellerID, now), nil
}

// AssignLead sets the seller on a lead already resolved by the caller.
// The seller must have been validated against the directory.
func AssignLead(lead Lead, sellerID uuid.UUID, now time.Time) Lead {
	out := lead.Clone()
	id := sellerID
	out.AssignedSellerID = &id
	out.UpdatedAt = now
	return out
}

// Unassign clears the seller and refreshes UpdatedAt.
func Unassign(lead Lead, now time.Time) Lead {
	out := lead.Clone()
	out.AssignedSellerID = nil
	out.UpdatedAt = now
	return out
}
