package cancel_reservation

import (
	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	cancelReservation "github.com/m04kA/SMC-SpaceBooking/internal/usecase/cancel_reservation"
)

// CancelRequest HTTP модель запроса; тело необязательно
type CancelRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// CancelResponse HTTP модель ответа
type CancelResponse struct {
	ID              int64   `json:"id"`
	Status          string  `json:"status"`
	HoursUntilStart float64 `json:"hoursUntilStart"`
	Percentage      int     `json:"refundPercentage"`
	RefundAmount    string  `json:"refundAmount"`
	CancellationFee string  `json:"cancellationFee"`
	Refund          *Refund `json:"refund,omitempty"`
}

type Refund struct {
	ID              int64  `json:"id"`
	Status          string `json:"status"`
	ReferenceNumber string `json:"referenceNumber"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelReservation.Response) *CancelResponse {
	out := &CancelResponse{
		ID:              resp.ReservationID,
		Status:          resp.Status,
		HoursUntilStart: resp.HoursUntilStart,
		Percentage:      resp.Percentage,
		RefundAmount:    domain.MoneyString(resp.RefundAmount),
		CancellationFee: domain.MoneyString(resp.CancellationFee),
	}
	if resp.Refund != nil {
		out.Refund = &Refund{
			ID:              resp.Refund.ID,
			Status:          resp.Refund.Status,
			ReferenceNumber: resp.Refund.ReferenceNumber,
		}
	}
	return out
}
