package metrics

// Recorder доменные счетчики, которые дергают use case'ы
type Recorder interface {
	ReservationCreated(paymentMethod string)
	ReservationTransitioned(action string)
	BookingRejected(reason string)
	RefundRequested(amount float64)
	HoldExpired()
	OccupancyCorrected()
}

func (m *Metrics) ReservationCreated(paymentMethod string) {
	m.ReservationsCreated.WithLabelValues(paymentMethod).Inc()
}

func (m *Metrics) ReservationTransitioned(action string) {
	m.ReservationTransitions.WithLabelValues(action).Inc()
}

func (m *Metrics) BookingRejected(reason string) {
	m.BookingRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) RefundRequested(amount float64) {
	if amount <= 0 {
		return
	}
	m.RefundAmountRequested.Add(amount)
}

func (m *Metrics) HoldExpired() {
	m.ExpiredHoldsCancelled.Inc()
}

func (m *Metrics) OccupancyCorrected() {
	m.OccupancyCorrections.Inc()
}

// Nop используется, когда метрики выключены
type Nop struct{}

func (Nop) ReservationCreated(string)      {}
func (Nop) ReservationTransitioned(string) {}
func (Nop) BookingRejected(string)         {}
func (Nop) RefundRequested(float64)        {}
func (Nop) HoldExpired()                   {}
func (Nop) OccupancyCorrected()            {}
