package end_reservation_early

import (
	"github.com/m04kA/SMC-SpaceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	endEarly "github.com/m04kA/SMC-SpaceBooking/internal/usecase/end_reservation_early"
)

// EndEarlyResponse HTTP модель ответа
type EndEarlyResponse struct {
	ID          int64   `json:"id"`
	Status      string  `json:"status"`
	BilledHours float64 `json:"billedHours"`
	EndTime     string  `json:"endTime"`
	TotalCost   string  `json:"totalCost"`
	AmountPaid  string  `json:"amountPaid"`
	RefundDue   string  `json:"refundDue"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *endEarly.Response) *EndEarlyResponse {
	return &EndEarlyResponse{
		ID:          resp.ReservationID,
		Status:      resp.Status,
		BilledHours: resp.BilledHours,
		EndTime:     handlers.FormatTime(resp.EndTime),
		TotalCost:   domain.MoneyString(resp.TotalCost),
		AmountPaid:  domain.MoneyString(resp.AmountPaid),
		RefundDue:   domain.MoneyString(resp.RefundDue),
	}
}
