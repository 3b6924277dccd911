package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder_Counters(t *testing.T) {
	m := NewWithRegistry("test", prometheus.NewRegistry())

	m.ReservationCreated("cash")
	m.ReservationCreated("cash")
	m.ReservationCreated("gcash")
	m.ReservationTransitioned("cancel")
	m.BookingRejected("capacity")
	m.RefundRequested(250.5)
	m.RefundRequested(0)
	m.HoldExpired()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReservationsCreated.WithLabelValues("cash")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReservationsCreated.WithLabelValues("gcash")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReservationTransitions.WithLabelValues("cancel")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingRejections.WithLabelValues("capacity")))
	assert.Equal(t, 250.5, testutil.ToFloat64(m.RefundAmountRequested))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExpiredHoldsCancelled))
}

func TestNop_ImplementsRecorder(t *testing.T) {
	var r Recorder = Nop{}
	r.ReservationCreated("cash")
	r.OccupancyCorrected()
}
