package extend_reservation

import (
	"github.com/m04kA/SMC-SpaceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	extendReservation "github.com/m04kA/SMC-SpaceBooking/internal/usecase/extend_reservation"
)

// ExtendRequest HTTP модель запроса
type ExtendRequest struct {
	Hours int `json:"hours"`
}

// ExtendResponse HTTP модель ответа
type ExtendResponse struct {
	ID              int64   `json:"id"`
	Status          string  `json:"status"`
	Hours           float64 `json:"hours"`
	EndTime         string  `json:"endTime"`
	ExtensionCost   string  `json:"extensionCost"`
	TotalCost       string  `json:"totalCost"`
	AmountPaid      string  `json:"amountPaid"`
	AmountRemaining string  `json:"amountRemaining"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *extendReservation.Response) *ExtendResponse {
	return &ExtendResponse{
		ID:              resp.ReservationID,
		Status:          resp.Status,
		Hours:           resp.Hours,
		EndTime:         handlers.FormatTime(resp.EndTime),
		ExtensionCost:   domain.MoneyString(resp.ExtensionCost),
		TotalCost:       domain.MoneyString(resp.TotalCost),
		AmountPaid:      domain.MoneyString(resp.AmountPaid),
		AmountRemaining: domain.MoneyString(resp.AmountRemaining),
	}
}
