package service

import (
	"context"
	"errors"
	"log/slog"

	"rental_portal_backend/internal/events"
	"rental_portal_backend/internal/leads/domain"
	"rental_portal_backend/internal/leads/repository"
	"rental_portal_backend/internal/leads/transport"
	"rental_portal_backend/platform/apperr"
	"rental_portal_backend/platform/phone"
	"rental_portal_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Create stores a new lead from intake: status nuevo_lead, no seller.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest, actorID uuid.UUID) (transport.LeadResponse, error) {
	if req.BudgetMin != nil && req.BudgetMax != nil && *req.BudgetMax < *req.BudgetMin {
		return transport.LeadResponse{}, apperr.Validation("budgetMax must not be lower than budgetMin").
			WithOp("leads.Create").WithCode(CodeInvalidBudget)
	}

	params := domain.NewLeadParams{
		FirstName: sanitize.Text(req.FirstName),
		LastName:  sanitize.Text(req.LastName),
		Email:     normalizeEmail(req.Email),
		BudgetMin: req.BudgetMin,
		BudgetMax: req.BudgetMax,
	}
	if p := phone.NormalizeE164(req.Phone, s.phoneRegion); p != "" {
		params.Phone = &p
	}
	params.Source = sanitize.OptionalText(req.Source)

	stored, err := s.repo.Create(ctx, domain.NewLead(params, s.now()))
	if err != nil {
		return transport.LeadResponse{}, mapError("leads.Create", err)
	}

	s.afterCommit(ctx)
	s.recordActivity(ctx, stored.ID, actorID, repository.ActionCreated, map[string]interface{}{
		"status": string(stored.Status),
	})

	event := events.LeadCreated{BaseEvent: events.NewBaseEvent(stored.CreatedAt), LeadID: stored.ID}
	if stored.Source != nil {
		event.Source = *stored.Source
	}
	s.publish(ctx, event)

	return toLeadResponse(stored, nil), nil
}

// Transition moves a lead to another status. Any registered status may
// follow any other; the kind is only recorded.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, req transport.UpdateLeadStatusRequest, actorID uuid.UUID) (transport.LeadResponse, error) {
	const op = "leads.Transition"

	next, err := domain.ParseStatus(req.Status)
	if err != nil {
		return transport.LeadResponse{}, mapError(op, err)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, mapError(op, err)
	}

	updated, err := domain.Transition(current, next, s.now())
	if err != nil {
		return transport.LeadResponse{}, mapError(op, err)
	}

	stored, err := s.commit(ctx, op, updated, current.Version)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	kind := domain.DescribeTransition(current.Status, stored.Status)
	s.log.WithContext(ctx).LeadTransitioned(id.String(), string(current.Status), string(stored.Status), string(kind))
	s.recordActivity(ctx, id, actorID, repository.ActionStatusChanged, map[string]interface{}{
		"from": string(current.Status),
		"to":   string(stored.Status),
		"kind": string(kind),
	})
	s.publish(ctx, events.LeadStatusChanged{
		BaseEvent: events.NewBaseEvent(stored.UpdatedAt),
		LeadID:    id,
		ActorID:   actorID,
		From:      string(current.Status),
		To:        string(stored.Status),
		Kind:      string(kind),
	})

	sellers, err := s.responseSellers(ctx, stored)
	if err != nil {
		return transport.LeadResponse{}, mapError(op, err)
	}
	return toLeadResponse(stored, sellers), nil
}

// Assign gives a lead to sellerID, replacing any previous seller. The
// seller is validated before the lead is resolved.
func (s *Service) Assign(ctx context.Context, id, sellerID uuid.UUID, actorID uuid.UUID) (transport.LeadResponse, error) {
	const op = "leads.Assign"

	sellers, err := s.sellerDirectory(ctx, false)
	if err != nil {
		return transport.LeadResponse{}, mapError(op, err)
	}
	if _, ok := sellers.Lookup(sellerID); !ok {
		// The cached directory may predate the seller.
		if sellers, err = s.sellerDirectory(ctx, true); err != nil {
			return transport.LeadResponse{}, mapError(op, err)
		}
	}

	var snapshot []domain.Lead
	current, err := s.repo.GetByID(ctx, id)
	switch {
	case err == nil:
		snapshot = []domain.Lead{current}
	case !errors.Is(err, domain.ErrLeadNotFound):
		return transport.LeadResponse{}, mapError(op, err)
	}

	updated, err := domain.Assign(snapshot, id, sellerID, sellers, s.now())
	if err != nil {
		return transport.LeadResponse{}, mapError(op, err)
	}

	stored, err := s.commit(ctx, op, updated, current.Version)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.log.WithContext(ctx).LeadAssigned(id.String(), sellerString(current.AssignedSellerID), sellerID.String())
	s.recordActivity(ctx, id, actorID, repository.ActionAssigned, map[string]interface{}{
		"from": sellerString(current.AssignedSellerID),
		"to":   sellerID.String(),
	})
	s.publish(ctx, events.LeadAssigned{
		BaseEvent:      events.NewBaseEvent(stored.UpdatedAt),
		LeadID:         id,
		ActorID:        actorID,
		SellerID:       sellerID,
		PreviousSeller: current.AssignedSellerID,
	})

	return toLeadResponse(stored, sellers), nil
}

// Unassign returns a lead to the unassigned pool. Unassigning a lead that
// has no seller is a no-op and does not bump its version.
func (s *Service) Unassign(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (transport.LeadResponse, error) {
	const op = "leads.Unassign"

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, mapError(op, err)
	}
	if current.IsUnassigned() {
		return toLeadResponse(current, nil), nil
	}

	stored, err := s.commit(ctx, op, domain.Unassign(current, s.now()), current.Version)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.log.WithContext(ctx).LeadAssigned(id.String(), sellerString(current.AssignedSellerID), "")
	s.recordActivity(ctx, id, actorID, repository.ActionUnassigned, map[string]interface{}{
		"from": sellerString(current.AssignedSellerID),
	})
	s.publish(ctx, events.LeadUnassigned{
		BaseEvent:      events.NewBaseEvent(stored.UpdatedAt),
		LeadID:         id,
		ActorID:        actorID,
		PreviousSeller: current.AssignedSellerID,
	})

	return toLeadResponse(stored, nil), nil
}

// commit writes next if the stored version still equals expected.
func (s *Service) commit(ctx context.Context, op string, next domain.Lead, expected int64) (domain.Lead, error) {
	stored, err := s.repo.Commit(ctx, next, expected)
	if err != nil {
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			s.log.WithContext(ctx).CommitConflict(op, next.ID.String())
		}
		return domain.Lead{}, mapError(op, err)
	}
	s.afterCommit(ctx)
	return stored, nil
}

func (s *Service) afterCommit(ctx context.Context) {
	if err := s.cache.InvalidateMetrics(ctx); err != nil {
		s.log.WithContext(ctx).Warn("metrics cache invalidation failed", slog.String("error", err.Error()))
	}
}

// recordActivity is best effort: the change is already committed.
func (s *Service) recordActivity(ctx context.Context, leadID, actorID uuid.UUID, action string, meta map[string]interface{}) {
	if err := s.repo.AddActivity(ctx, leadID, actorID, action, meta); err != nil {
		s.log.WithContext(ctx).DatabaseError("lead_activity_insert", err)
	}
}

func sellerString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
