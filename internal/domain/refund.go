package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RefundStatus processing state of a refund
type RefundStatus string

const (
	RefundPending    RefundStatus = "pending"
	RefundProcessing RefundStatus = "processing"
	RefundCompleted  RefundStatus = "completed"
	RefundFailed     RefundStatus = "failed"
)

// Refund created when a paid reservation is cancelled
type Refund struct {
	ID                 int64
	ReservationID      int64
	CustomerID         int64
	ProcessedBy        *int64
	RefundAmount       decimal.Decimal
	OriginalAmountPaid decimal.Decimal
	CancellationFee    decimal.Decimal
	RefundMethod       PaymentMethod
	Status             RefundStatus
	Reason             string
	Notes              *string
	ReferenceNumber    string
	ProcessedAt        *time.Time

	CreatedAt time.Time
}

// RefundQuote result of the refund policy for a reservation at a moment
type RefundQuote struct {
	RefundAmount    decimal.Decimal
	CancellationFee decimal.Decimal
	HoursUntilStart float64
	Percentage      int
}

// TransactionType kind of money movement
type TransactionType string

const (
	TransactionPayment      TransactionType = "payment"
	TransactionRefund       TransactionType = "refund"
	TransactionCancellation TransactionType = "cancellation"
)

// TransactionStatus state of a ledger entry
type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionPending   TransactionStatus = "pending"
	TransactionApproved  TransactionStatus = "approved"
)

// TransactionLog append-only ledger entry. Payments are positive, refunds negative.
type TransactionLog struct {
	ID              int64
	Type            TransactionType
	ReservationID   int64
	CustomerID      int64
	ProcessedBy     *int64
	Amount          decimal.Decimal
	PaymentMethod   PaymentMethod
	Status          TransactionStatus
	ReferenceNumber string
	Description     string

	CreatedAt time.Time
}

// Reference number prefixes
const (
	RefPrefixPayment      = "PAY"
	RefPrefixRefund       = "REF"
	RefPrefixCancellation = "CAN"
)

// NewReferenceNumber builds a reference like PAY-1A2B3C4D5E6F
func NewReferenceNumber(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strings.ToUpper(id[:12])
}
