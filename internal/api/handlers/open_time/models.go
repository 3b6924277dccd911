package open_time

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SpaceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	openTime "github.com/m04kA/SMC-SpaceBooking/internal/usecase/open_time"
)

// StartRequest HTTP модель запуска; клиент по customerId или по контактам
type StartRequest struct {
	CustomerID       *int64           `json:"customerId,omitempty"`
	Customer         *CustomerRequest `json:"customer,omitempty"`
	PaymentMethod    string           `json:"paymentMethod,omitempty"`
	Pax              int              `json:"pax,omitempty"`
	CustomHourlyRate *decimal.Decimal `json:"customHourlyRate,omitempty"`
	Notes            *string          `json:"notes,omitempty"`
}

type CustomerRequest struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

type StartResponse struct {
	ID         int64  `json:"id"`
	SpaceID    int64  `json:"spaceId"`
	SpaceName  string `json:"spaceName"`
	CustomerID int64  `json:"customerId"`
	StartTime  string `json:"startTime"`
	HourlyRate string `json:"hourlyRate"`
}

type EndResponse struct {
	ID             int64   `json:"id"`
	Status         string  `json:"status"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	ElapsedMinutes int     `json:"elapsedMinutes"`
	BilledHours    float64 `json:"billedHours"`
	TotalCost      string  `json:"totalCost"`
	IsDiscounted   bool    `json:"isDiscounted"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *StartRequest) ToUseCaseRequest(actor domain.Actor, spaceID int64) *openTime.StartRequest {
	req := &openTime.StartRequest{
		Actor:            actor,
		SpaceID:          spaceID,
		CustomerID:       r.CustomerID,
		PaymentMethod:    r.PaymentMethod,
		Pax:              r.Pax,
		CustomHourlyRate: r.CustomHourlyRate,
		Notes:            r.Notes,
	}
	if r.Customer != nil {
		req.Customer = &openTime.CustomerInput{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
			Phone: r.Customer.Phone,
		}
	}
	return req
}

func FromStartResponse(resp *openTime.StartResponse) *StartResponse {
	return &StartResponse{
		ID:         resp.ReservationID,
		SpaceID:    resp.SpaceID,
		SpaceName:  resp.SpaceName,
		CustomerID: resp.CustomerID,
		StartTime:  handlers.FormatTime(resp.StartTime),
		HourlyRate: domain.MoneyString(resp.HourlyRate),
	}
}

func FromEndResponse(resp *openTime.EndResponse) *EndResponse {
	return &EndResponse{
		ID:             resp.ReservationID,
		Status:         resp.Status,
		StartTime:      handlers.FormatTime(resp.StartTime),
		EndTime:        handlers.FormatTime(resp.EndTime),
		ElapsedMinutes: resp.ElapsedMinutes,
		BilledHours:    resp.BilledHours,
		TotalCost:      domain.MoneyString(resp.TotalCost),
		IsDiscounted:   resp.IsDiscounted,
	}
}
