package query

import (
	"cmp"
	"strings"

	"rental_portal_backend/internal/leads/domain"

	"golang.org/x/text/collate"
)

// SortField selects the comparator.
type SortField string

const (
	SortByName      SortField = "name"
	SortByStatus    SortField = "status"
	SortBySeller    SortField = "seller"
	SortByBudget    SortField = "budget"
	SortByCreatedAt SortField = "createdAt"
)

// ParseSortField falls back to createdAt for unknown values.
func ParseSortField(raw string) SortField {
	switch f := SortField(strings.TrimSpace(raw)); f {
	case SortByName, SortByStatus, SortBySeller, SortByBudget, SortByCreatedAt:
		return f
	default:
		return SortByCreatedAt
	}
}

// SortOrder is the single direction toggle.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// ParseSortOrder falls back to desc, the newest-first default of lead lists.
func ParseSortOrder(raw string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(raw), string(Asc)) {
		return Asc
	}
	return Desc
}

// Sort selects the sort key and direction.
type Sort struct {
	Field SortField
	Order SortOrder
}

// comparator returns a total order for the field plus the direction.
// The seller comparator handles direction itself so leads without a
// seller stay at the tail both ways.
func comparator(s Sort, sellers domain.SellerDirectory, coll *collate.Collator) func(a, b domain.Lead) int {
	sign := 1
	if s.Order == Desc {
		sign = -1
	}

	switch ParseSortField(string(s.Field)) {
	case SortByName:
		return func(a, b domain.Lead) int {
			return sign * coll.CompareString(a.FullName(), b.FullName())
		}
	case SortByStatus:
		return func(a, b domain.Lead) int {
			return sign * strings.Compare(string(a.Status), string(b.Status))
		}
	case SortBySeller:
		return func(a, b domain.Lead) int {
			ar, an := sellerSortKey(a, sellers)
			br, bn := sellerSortKey(b, sellers)
			if ar != br {
				return cmp.Compare(ar, br)
			}
			if ar != sellerKnown {
				return 0
			}
			return sign * coll.CompareString(an, bn)
		}
	case SortByBudget:
		return func(a, b domain.Lead) int {
			return sign * cmp.Compare(a.BudgetReference(), b.BudgetReference())
		}
	default:
		return func(a, b domain.Lead) int {
			return sign * a.CreatedAt.Compare(b.CreatedAt)
		}
	}
}

// Seller sort groups. The order between groups is fixed in both
// directions: named sellers, then sellers missing from the directory,
// then unassigned leads.
const (
	sellerKnown = iota
	sellerMissing
	sellerNone
)

// sellerSortKey returns the lead's seller group and, for known sellers,
// the first name. A seller id absent from the directory still counts as
// assigned, matching the seller filter.
func sellerSortKey(l domain.Lead, sellers domain.SellerDirectory) (int, string) {
	if l.AssignedSellerID == nil {
		return sellerNone, ""
	}
	if sellers == nil {
		return sellerMissing, ""
	}
	s, ok := sellers.Lookup(*l.AssignedSellerID)
	if !ok {
		return sellerMissing, ""
	}
	return sellerKnown, s.FirstName
}
