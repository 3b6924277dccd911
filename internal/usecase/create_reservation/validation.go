package create_reservation

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/pkg/validate"
)

// applyDefaults заполняет необязательные поля
func applyDefaults(req *Request) {
	if req.Hours == 0 {
		req.Hours = domain.MinBookingHours
	}
	if req.Pax == 0 {
		req.Pax = domain.MinPax
	}
	req.Customer.Email = strings.ToLower(strings.TrimSpace(req.Customer.Email))
	req.Customer.Name = strings.TrimSpace(req.Customer.Name)
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if err := validate.Struct(req); err != nil {
		return domain.NewValidationError("%v", err)
	}

	method := domain.PaymentMethod(req.PaymentMethod)
	if !req.Actor.IsAdmin() && !isPublicMethod(method) {
		return domain.NewValidationError("payment method %s is not available for online booking", method)
	}

	if req.CustomHourlyRate != nil {
		if !req.Actor.IsAdmin() {
			return domain.NewValidationError("custom hourly rate can only be set by staff")
		}
		if req.CustomHourlyRate.IsNegative() {
			return domain.NewValidationError("custom hourly rate must not be negative")
		}
	}

	return nil
}

func isPublicMethod(m domain.PaymentMethod) bool {
	for _, pm := range domain.PublicPaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

// clampStart бронирование в прошлом не отклоняется, а сдвигается на now
func clampStart(start *time.Time, now time.Time) time.Time {
	if start == nil || start.Before(now) {
		return now
	}
	return *start
}

// hoursDuration длительность для дробного числа часов
func hoursDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

// validateCashBooking ограничения на оплату наличными для клиента
func (uc *UseCase) validateCashBooking(stats domain.CustomerStats) error {
	if stats.ActiveCashBookings >= uc.opts.MaxActiveCashBookings {
		return domain.NewValidationError(
			"you already have %d active cash reservations; please pay for them or choose online payment",
			stats.ActiveCashBookings)
	}

	if stats.TotalBookings > uc.opts.CancellationCheckMinBookings &&
		stats.CancellationRate() > uc.opts.MaxCancellationRatePercent {
		return domain.NewValidationError(
			"cash payment is unavailable due to a high cancellation rate (%.0f%%); please use online payment",
			stats.CancellationRate())
	}

	return nil
}
