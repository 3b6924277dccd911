package create_reservation

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SpaceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	createReservation "github.com/m04kA/SMC-SpaceBooking/internal/usecase/create_reservation"
)

// CreateReservationRequest HTTP модель запроса
type CreateReservationRequest struct {
	SpaceTypeID      int64            `json:"spaceTypeId"`
	SpaceID          *int64           `json:"spaceId,omitempty"`
	PaymentMethod    string           `json:"paymentMethod"`
	Hours            float64          `json:"hours"`
	Pax              int              `json:"pax"`
	StartTime        string           `json:"startTime,omitempty"` // RFC3339
	Notes            *string          `json:"notes,omitempty"`
	CustomHourlyRate *decimal.Decimal `json:"customHourlyRate,omitempty"`
	Customer         CustomerRequest  `json:"customer"`
}

type CustomerRequest struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone,omitempty"`
	CompanyName *string `json:"companyName,omitempty"`
}

// ReservationResponse HTTP модель ответа
type ReservationResponse struct {
	ID            int64   `json:"id"`
	Status        string  `json:"status"`
	TotalCost     string  `json:"totalCost"`
	AmountPaid    string  `json:"amountPaid"`
	SpaceTypeName string  `json:"spaceTypeName"`
	SpaceName     *string `json:"spaceName,omitempty"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	HoldUntil     *string `json:"holdUntil,omitempty"`
	IsDiscounted  bool    `json:"isDiscounted"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(actor domain.Actor) (*createReservation.Request, error) {
	start, err := handlers.ParseTime(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		Actor:            actor,
		SpaceTypeID:      r.SpaceTypeID,
		SpaceID:          r.SpaceID,
		PaymentMethod:    r.PaymentMethod,
		Hours:            r.Hours,
		Pax:              r.Pax,
		StartTime:        start,
		Notes:            r.Notes,
		CustomHourlyRate: r.CustomHourlyRate,
		Customer: createReservation.CustomerInput{
			Name:        r.Customer.Name,
			Email:       r.Customer.Email,
			Phone:       r.Customer.Phone,
			CompanyName: r.Customer.CompanyName,
		},
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:            resp.ReservationID,
		Status:        resp.Status,
		TotalCost:     domain.MoneyString(resp.TotalCost),
		AmountPaid:    domain.MoneyString(resp.AmountPaid),
		SpaceTypeName: resp.SpaceTypeName,
		SpaceName:     resp.SpaceName,
		StartTime:     handlers.FormatTime(resp.StartTime),
		EndTime:       handlers.FormatTime(resp.EndTime),
		HoldUntil:     handlers.FormatOptionalTime(resp.HoldUntil),
		IsDiscounted:  resp.IsDiscounted,
	}
}
