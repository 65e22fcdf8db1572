package service

import (
	"errors"
	"fmt"

	"rental_portal_backend/internal/leads/domain"
	"rental_portal_backend/platform/apperr"
)

// Stable error codes returned to clients.
const (
	CodeInvalidStatus       = "invalid_status"
	CodeUnknownSeller       = "unknown_seller"
	CodeLeadNotFound        = "lead_not_found"
	CodeConcurrencyConflict = "concurrency_conflict"
	CodeInvalidBudget       = "invalid_budget"
	CodeSellerRequired      = "seller_required"
)

// mapError translates domain failures into apperr kinds. Anything it does
// not recognise is wrapped with op and surfaces as an internal error.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var (
		invalid  *domain.InvalidStatusError
		unknown  *domain.UnknownSellerError
		notFound *domain.LeadNotFoundError
		conflict *domain.ConcurrencyConflictError
	)

	switch {
	case errors.As(err, &invalid):
		return apperr.Wrap(apperr.KindValidation, invalid.Error(), err).
			WithOp(op).WithCode(CodeInvalidStatus).
			WithDetails(map[string]string{"status": invalid.Status})
	case errors.As(err, &unknown):
		return apperr.Wrap(apperr.KindValidation, unknown.Error(), err).
			WithOp(op).WithCode(CodeUnknownSeller).
			WithDetails(map[string]string{"sellerId": unknown.SellerID.String()})
	case errors.As(err, &notFound):
		return apperr.Wrap(apperr.KindNotFound, "lead not found", err).
			WithOp(op).WithCode(CodeLeadNotFound)
	case errors.As(err, &conflict):
		return apperr.Wrap(apperr.KindConflict, "lead was modified by someone else; reload and try again", err).
			WithOp(op).WithCode(CodeConcurrencyConflict)
	case errors.Is(err, domain.ErrLeadNotFound):
		return apperr.Wrap(apperr.KindNotFound, "lead not found", err).
			WithOp(op).WithCode(CodeLeadNotFound)
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return apperr.Wrap(apperr.KindConflict, "lead was modified by someone else; reload and try again", err).
			WithOp(op).WithCode(CodeConcurrencyConflict)
	}

	if _, ok := apperr.As(err); ok {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
