package notifications

import "time"

// EventType тип события бронирования
type EventType string

const (
	EventReservationCreated   EventType = "reservation.created"
	EventReservationCancelled EventType = "reservation.cancelled"
	EventHoldExpired          EventType = "reservation.hold_expired"
	EventReservationCompleted EventType = "reservation.completed"
	EventRefundCreated        EventType = "refund.created"
)

// Event сообщение для внешних получателей (почта, SMS, отчеты)
type Event struct {
	Type          EventType `json:"type"`
	ReservationID int64     `json:"reservation_id"`
	CustomerID    int64     `json:"customer_id"`
	Status        string    `json:"status"`
	Amount        string    `json:"amount,omitempty"`
	Reference     string    `json:"reference,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
