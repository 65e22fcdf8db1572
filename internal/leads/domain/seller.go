package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Seller owns leads once assigned.
type Seller struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
}

// FullName is "first last".
func (s Seller) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// SellerDirectory resolves seller ids. Sellers is the in-memory
// implementation built from the external directory's list.
type SellerDirectory interface {
	Lookup(id uuid.UUID) (Seller, bool)
}

// Sellers is an immutable id index over a seller list.
type Sellers struct {
	list []Seller
	byID map[uuid.UUID]Seller
}

// NewSellers indexes list. Later duplicates win.
func NewSellers(list []Seller) Sellers {
	byID := make(map[uuid.UUID]Seller, len(list))
	for _, s := range list {
		byID[s.ID] = s
	}
	return Sellers{list: append([]Seller(nil), list...), byID: byID}
}

// Lookup returns the seller for id.
func (s Sellers) Lookup(id uuid.UUID) (Seller, bool) {
	seller, ok := s.byID[id]
	return seller, ok
}

// List returns the sellers in the order they were supplied.
func (s Sellers) List() []Seller {
	return append([]Seller(nil), s.list...)
}

// Len returns the number of distinct sellers.
func (s Sellers) Len() int {
	return len(s.byID)
}
