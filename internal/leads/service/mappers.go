package service

import (
	"rental_portal_backend/internal/leads/domain"
	"rental_portal_backend/internal/leads/repository"
	"rental_portal_backend/internal/leads/transport"
)

func toLeadResponse(lead domain.Lead, sellers domain.SellerDirectory) transport.LeadResponse {
	resp := transport.LeadResponse{
		ID:               lead.ID,
		FirstName:        lead.FirstName,
		LastName:         lead.LastName,
		FullName:         lead.FullName(),
		Email:            lead.Email,
		Phone:            lead.Phone,
		Status:           lead.Status,
		StatusLabel:      lead.Status.Label(),
		AssignedSellerID: lead.AssignedSellerID,
		Source:           lead.Source,
		BudgetMin:        lead.BudgetMin,
		BudgetMax:        lead.BudgetMax,
		CreatedAt:        lead.CreatedAt,
		UpdatedAt:        lead.UpdatedAt,
	}

	if lead.AssignedSellerID != nil && sellers != nil {
		if seller, ok := sellers.Lookup(*lead.AssignedSellerID); ok {
			sr := toSellerResponse(seller)
			resp.AssignedSeller = &sr
		}
	}

	return resp
}

func toLeadResponses(leads []domain.Lead, sellers domain.SellerDirectory) []transport.LeadResponse {
	items := make([]transport.LeadResponse, len(leads))
	for i, lead := range leads {
		items[i] = toLeadResponse(lead, sellers)
	}
	return items
}

func toSellerResponse(seller domain.Seller) transport.SellerResponse {
	return transport.SellerResponse{
		ID:        seller.ID,
		FirstName: seller.FirstName,
		LastName:  seller.LastName,
		FullName:  seller.FullName(),
	}
}

func toActivityResponse(a repository.Activity) transport.ActivityResponse {
	return transport.ActivityResponse{
		ID:        a.ID,
		Action:    a.Action,
		ActorID:   a.ActorID,
		Meta:      a.Meta,
		CreatedAt: a.CreatedAt,
	}
}
