package check_availability

import (
	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/pkg/validate"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Hours == 0 {
		req.Hours = domain.MinBookingHours
	}
	if req.Pax == 0 {
		req.Pax = domain.MinPax
	}

	if err := validate.Struct(req); err != nil {
		return domain.NewValidationError("%v", err)
	}
	return nil
}
