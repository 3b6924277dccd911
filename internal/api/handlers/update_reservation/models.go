package update_reservation

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SpaceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	updateReservation "github.com/m04kA/SMC-SpaceBooking/internal/usecase/update_reservation"
)

// UpdateReservationRequest HTTP модель запроса, отсутствующие поля не меняются
type UpdateReservationRequest struct {
	Status           *string          `json:"status,omitempty"`
	PaymentMethod    *string          `json:"paymentMethod,omitempty"`
	Hours            *float64         `json:"hours,omitempty"`
	Pax              *int             `json:"pax,omitempty"`
	SpaceID          *int64           `json:"spaceId,omitempty"`
	Notes            *string          `json:"notes,omitempty"`
	StartTime        string           `json:"startTime,omitempty"`
	AmountPaid       *decimal.Decimal `json:"amountPaid,omitempty"`
	CustomHourlyRate *decimal.Decimal `json:"customHourlyRate,omitempty"`
	RemoveDiscount   bool             `json:"removeDiscount,omitempty"`
}

// ReservationResponse HTTP модель ответа
type ReservationResponse struct {
	ID              int64   `json:"id"`
	Status          string  `json:"status"`
	SpaceID         *int64  `json:"spaceId,omitempty"`
	StartTime       string  `json:"startTime"`
	EndTime         *string `json:"endTime,omitempty"`
	Hours           float64 `json:"hours"`
	Pax             int     `json:"pax"`
	TotalCost       string  `json:"totalCost"`
	AmountPaid      string  `json:"amountPaid"`
	AmountRemaining string  `json:"amountRemaining"`
	IsDiscounted    bool    `json:"isDiscounted"`
	Rechecked       bool    `json:"rechecked"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateReservationRequest) ToUseCaseRequest(actor domain.Actor, reservationID int64) (*updateReservation.Request, error) {
	start, err := handlers.ParseTime(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &updateReservation.Request{
		Actor:            actor,
		ReservationID:    reservationID,
		Status:           r.Status,
		PaymentMethod:    r.PaymentMethod,
		Hours:            r.Hours,
		Pax:              r.Pax,
		SpaceID:          r.SpaceID,
		Notes:            r.Notes,
		StartTime:        start,
		AmountPaid:       r.AmountPaid,
		CustomHourlyRate: r.CustomHourlyRate,
		RemoveDiscount:   r.RemoveDiscount,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:              resp.ReservationID,
		Status:          resp.Status,
		SpaceID:         resp.SpaceID,
		StartTime:       handlers.FormatTime(resp.StartTime),
		EndTime:         handlers.FormatOptionalTime(resp.EndTime),
		Hours:           resp.Hours,
		Pax:             resp.Pax,
		TotalCost:       domain.MoneyString(resp.TotalCost),
		AmountPaid:      domain.MoneyString(resp.AmountPaid),
		AmountRemaining: domain.MoneyString(resp.AmountRemaining),
		IsDiscounted:    resp.IsDiscounted,
		Rechecked:       resp.Rechecked,
	}
}
