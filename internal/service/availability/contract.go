package availability

import (
	"context"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

// ReservationRepository источник активных бронирований
type ReservationRepository interface {
	ListBlocking(ctx context.Context, filter domain.OverlapFilter) ([]*domain.Reservation, error)
}
