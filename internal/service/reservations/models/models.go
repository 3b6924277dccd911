package models

import (
	"time"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

// ReservationResponse бронирование с вычисленными суммами
type ReservationResponse struct {
	ID              int64   `json:"id"`
	CustomerID      int64   `json:"customerId"`
	UserID          *int64  `json:"userId,omitempty"`
	SpaceID         *int64  `json:"spaceId,omitempty"`
	SpaceName       *string `json:"spaceName,omitempty"`
	SpaceTypeID     *int64  `json:"spaceTypeId,omitempty"`
	SpaceTypeName   *string `json:"spaceTypeName,omitempty"`
	PaymentMethod   string  `json:"paymentMethod"`
	Status          string  `json:"status"`
	Hours           float64 `json:"hours"`
	Pax             int     `json:"pax"`
	StartTime       string  `json:"startTime"`
	EndTime         *string `json:"endTime,omitempty"`
	IsOpenTime      bool    `json:"isOpenTime"`
	HourlyRate      string  `json:"hourlyRate"`
	RateSource      string  `json:"rateSource"`
	IsDiscounted    bool    `json:"isDiscounted"`
	TotalCost       string  `json:"totalCost"`
	AmountPaid      string  `json:"amountPaid"`
	AmountRemaining string  `json:"amountRemaining"`
	HoldUntil       *string `json:"holdUntil,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`

	Refunds      []RefundResponse      `json:"refunds,omitempty"`
	Transactions []TransactionResponse `json:"transactions,omitempty"`
}

// RefundResponse возврат по бронированию
type RefundResponse struct {
	ID              int64   `json:"id"`
	RefundAmount    string  `json:"refundAmount"`
	CancellationFee string  `json:"cancellationFee"`
	Status          string  `json:"status"`
	ReferenceNumber string  `json:"referenceNumber"`
	Reason          string  `json:"reason"`
	ProcessedAt     *string `json:"processedAt,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

// TransactionResponse запись журнала операций
type TransactionResponse struct {
	ID              int64  `json:"id"`
	Type            string `json:"type"`
	Amount          string `json:"amount"`
	Status          string `json:"status"`
	ReferenceNumber string `json:"referenceNumber"`
	Description     string `json:"description"`
	CreatedAt       string `json:"createdAt"`
}

// ReservationListResponse история бронирований клиента
type ReservationListResponse struct {
	CustomerID   int64                  `json:"customerId"`
	Reservations []*ReservationResponse `json:"reservations"`
	Total        int                    `json:"total"`
}

// RefundQuoteResponse предварительный расчет возврата
type RefundQuoteResponse struct {
	ReservationID   int64   `json:"reservationId"`
	AmountPaid      string  `json:"amountPaid"`
	RefundAmount    string  `json:"refundAmount"`
	CancellationFee string  `json:"cancellationFee"`
	Percentage      int     `json:"refundPercentage"`
	HoursUntilStart float64 `json:"hoursUntilStart"`
}

// FromDomainReservation space и spaceType нужны только для цепочки ставок и могут быть nil
func FromDomainReservation(res *domain.Reservation, space *domain.Space, spaceType *domain.SpaceType) *ReservationResponse {
	rate := res.EffectiveRate(space, spaceType)

	resp := &ReservationResponse{
		ID:              res.ID,
		CustomerID:      res.CustomerID,
		UserID:          res.UserID,
		SpaceID:         res.SpaceID,
		SpaceTypeID:     res.SpaceTypeID,
		PaymentMethod:   string(res.PaymentMethod),
		Status:          string(res.Status),
		Hours:           res.Hours,
		Pax:             res.Pax,
		StartTime:       res.StartTime.Format(time.RFC3339),
		EndTime:         formatOptional(res.EndTime),
		IsOpenTime:      res.IsOpenTime,
		HourlyRate:      domain.MoneyString(rate.Rate),
		RateSource:      string(rate.Source),
		IsDiscounted:    res.IsDiscounted,
		TotalCost:       domain.MoneyString(res.TotalCost(space, spaceType)),
		AmountPaid:      domain.MoneyString(res.AmountPaid),
		AmountRemaining: domain.MoneyString(res.AmountRemaining(space, spaceType)),
		HoldUntil:       formatOptional(res.HoldUntil),
		Notes:           res.Notes,
		CreatedAt:       res.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       res.UpdatedAt.Format(time.RFC3339),
	}
	if space != nil {
		resp.SpaceName = &space.Name
	}
	if spaceType != nil {
		resp.SpaceTypeName = &spaceType.Name
	}

	return resp
}

// FromDomainRefunds конвертирует возвраты
func FromDomainRefunds(refunds []*domain.Refund) []RefundResponse {
	out := make([]RefundResponse, 0, len(refunds))
	for _, rf := range refunds {
		out = append(out, RefundResponse{
			ID:              rf.ID,
			RefundAmount:    domain.MoneyString(rf.RefundAmount),
			CancellationFee: domain.MoneyString(rf.CancellationFee),
			Status:          string(rf.Status),
			ReferenceNumber: rf.ReferenceNumber,
			Reason:          rf.Reason,
			ProcessedAt:     formatOptional(rf.ProcessedAt),
			CreatedAt:       rf.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}

// FromDomainTransactions конвертирует записи журнала
func FromDomainTransactions(entries []*domain.TransactionLog) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, TransactionResponse{
			ID:              e.ID,
			Type:            string(e.Type),
			Amount:          domain.MoneyString(e.Amount),
			Status:          string(e.Status),
			ReferenceNumber: e.ReferenceNumber,
			Description:     e.Description,
			CreatedAt:       e.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}

// FromDomainQuote конвертирует расчет возврата
func FromDomainQuote(res *domain.Reservation, q domain.RefundQuote) *RefundQuoteResponse {
	return &RefundQuoteResponse{
		ReservationID:   res.ID,
		AmountPaid:      domain.MoneyString(res.AmountPaid),
		RefundAmount:    domain.MoneyString(q.RefundAmount),
		CancellationFee: domain.MoneyString(q.CancellationFee),
		Percentage:      q.Percentage,
		HoursUntilStart: q.HoursUntilStart,
	}
}

// ToDomainStatus проверяет строку статуса из запроса
func ToDomainStatus(status string) (domain.ReservationStatus, error) {
	s := domain.ReservationStatus(status)
	if !s.IsValid() {
		return "", domain.NewValidationError("unknown reservation status %q", status)
	}
	return s, nil
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
