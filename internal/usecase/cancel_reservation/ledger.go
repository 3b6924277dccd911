package cancel_reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/internal/integrations/notifications"
)

const defaultReason = "Reservation cancelled"

// record пишет запись в журнал операций по брони
func (uc *UseCase) record(
	ctx context.Context,
	actor domain.Actor,
	res *domain.Reservation,
	kind domain.TransactionType,
	status domain.TransactionStatus,
	amount decimal.Decimal,
	prefix string,
	description string,
) error {
	_, err := uc.repos.Ledger.Record(ctx, &domain.TransactionLog{
		Type:            kind,
		ReservationID:   res.ID,
		CustomerID:      res.CustomerID,
		ProcessedBy:     actor.ProcessedBy(),
		Amount:          amount,
		PaymentMethod:   res.PaymentMethod,
		Status:          status,
		ReferenceNumber: domain.NewReferenceNumber(prefix),
		Description:     description,
	})
	if err != nil {
		return fmt.Errorf("%w: record %s: %v", ErrInternal, kind, err)
	}
	return nil
}

func (uc *UseCase) publish(ctx context.Context, kind notifications.EventType, res *domain.Reservation, reference string, at time.Time) {
	err := uc.publisher.Publish(ctx, notifications.Event{
		Type:          kind,
		ReservationID: res.ID,
		CustomerID:    res.CustomerID,
		Status:        string(res.Status),
		Amount:        domain.MoneyString(res.AmountPaid),
		Reference:     reference,
		OccurredAt:    at,
	})
	if err != nil {
		uc.logger.Warn("CancelReservation: failed to publish %s for reservation id=%d: %v", kind, res.ID, err)
	}
}

func reasonOrDefault(req *Request) string {
	if req.Reason == nil || *req.Reason == "" {
		return defaultReason
	}
	return *req.Reason
}
