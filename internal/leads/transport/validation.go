package transport

import (
	"rental_portal_backend/internal/leads/domain"
	"rental_portal_backend/platform/validator"

	playground "github.com/go-playground/validator/v10"
)

// TagLeadStatus validates a string against the status registry.
const TagLeadStatus = "leadstatus"

// RegisterValidations adds the leads-specific tags to val.
func RegisterValidations(val *validator.Validator) error {
	return val.RegisterValidation(TagLeadStatus, func(fl playground.FieldLevel) bool {
		_, err := domain.ParseStatus(fl.Field().String())
		return err == nil
	})
}
