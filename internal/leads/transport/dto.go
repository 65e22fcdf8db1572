package transport

import (
	"time"

	"rental_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Request DTOs
type CreateLeadRequest struct {
	FirstName string   `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string   `json:"lastName" validate:"max=100"`
	Email     string   `json:"email,omitempty" validate:"required_without=Phone,omitempty,email,max=254"`
	Phone     string   `json:"phone,omitempty" validate:"required_without=Email,omitempty,min=5,max=30"`
	Source    string   `json:"source,omitempty" validate:"omitempty,max=60"`
	BudgetMin *float64 `json:"budgetMin,omitempty" validate:"omitempty,gte=0"`
	BudgetMax *float64 `json:"budgetMax,omitempty" validate:"omitempty,gte=0"`
}

type UpdateLeadStatusRequest struct {
	Status string `json:"status" validate:"required,leadstatus"`
}

// AssignLeadRequest sets the owning seller. An explicit null sellerId
// returns the lead to the unassigned pool.
type AssignLeadRequest struct {
	SellerID OptionalUUID `json:"sellerId" validate:"-"`
}

// ListLeadsRequest carries the list screen controls. Every field is
// optional and kept raw: the engine clamps or defaults whatever is out of
// range or malformed, so a list request is never rejected.
type ListLeadsRequest struct {
	Search    string `form:"search"`
	Status    string `form:"status"`
	Seller    string `form:"seller"`
	DateRange string `form:"dateRange"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
	Page      string `form:"page"`
	PageSize  string `form:"pageSize"`
}

// Response DTOs
type SellerResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	FullName  string    `json:"fullName"`
}

type LeadResponse struct {
	ID               uuid.UUID       `json:"id"`
	FirstName        string          `json:"firstName"`
	LastName         string          `json:"lastName"`
	FullName         string          `json:"fullName"`
	Email            *string         `json:"email,omitempty"`
	Phone            *string         `json:"phone,omitempty"`
	Status           domain.Status   `json:"status"`
	StatusLabel      string          `json:"statusLabel"`
	AssignedSellerID *uuid.UUID      `json:"assignedSellerId"`
	AssignedSeller   *SellerResponse `json:"assignedSeller,omitempty"`
	Source           *string         `json:"source,omitempty"`
	BudgetMin        *float64        `json:"budgetMin,omitempty"`
	BudgetMax        *float64        `json:"budgetMax,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

type InboxResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}

type StatusListResponse struct {
	Items    []domain.StatusInfo `json:"items"`
	Pipeline []domain.Status     `json:"pipeline"`
}

type ActivityResponse struct {
	ID        uuid.UUID      `json:"id"`
	Action    string         `json:"action"`
	ActorID   *uuid.UUID     `json:"actorId,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

type ActivityListResponse struct {
	Items []ActivityResponse `json:"items"`
}

type SellerListResponse struct {
	Items []SellerResponse `json:"items"`
}
