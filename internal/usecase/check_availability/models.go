package check_availability

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request модель запроса на проверку доступности
type Request struct {
	StartTime *time.Time // nil или прошлое время заменяется текущим
	Hours     int        `validate:"gte=1,lte=12"` // 0 означает 1 час
	Pax       int        `validate:"gte=1,lte=20"` // 0 означает 1 человек
}

// Response доступность всех типов пространств в запрошенном окне
type Response struct {
	StartTime  time.Time
	EndTime    time.Time
	Hours      int
	Pax        int
	SpaceTypes []SpaceTypeAvailability
}

// SpaceTypeAvailability вместимость одного типа в окне
type SpaceTypeAvailability struct {
	SpaceTypeID       int64
	Name              string
	TotalSlots        int
	AvailableCapacity int
	RequestedPax      int
	CanAccommodate    bool
	HourlyRate        decimal.Decimal

	// Alternatives другие часы того же дня, заполняется только если
	// запрошенное окно не вмещает pax
	Alternatives []Alternative
}

// Alternative окно той же длительности с достаточной вместимостью
type Alternative struct {
	StartTime         time.Time
	EndTime           time.Time
	AvailableCapacity int
}
