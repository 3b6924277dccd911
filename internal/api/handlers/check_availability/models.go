package check_availability

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-SpaceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	checkAvailability "github.com/m04kA/SMC-SpaceBooking/internal/usecase/check_availability"
)

// AvailabilityResponse HTTP модель ответа
type AvailabilityResponse struct {
	StartTime  string                  `json:"startTime"`
	EndTime    string                  `json:"endTime"`
	Hours      int                     `json:"hours"`
	Pax        int                     `json:"pax"`
	SpaceTypes []SpaceTypeAvailability `json:"spaceTypes"`
}

type SpaceTypeAvailability struct {
	SpaceTypeID       int64         `json:"spaceTypeId"`
	Name              string        `json:"name"`
	TotalSlots        int           `json:"totalSlots"`
	AvailableCapacity int           `json:"availableCapacity"`
	RequestedPax      int           `json:"requestedPax"`
	CanAccommodate    bool          `json:"canAccommodate"`
	HourlyRate        string        `json:"hourlyRate"`
	Alternatives      []Alternative `json:"alternatives,omitempty"`
}

type Alternative struct {
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	AvailableCapacity int    `json:"availableCapacity"`
}

// ToUseCaseRequest собирает запрос из query: startTime (RFC3339), hours, pax
func ToUseCaseRequest(q url.Values) (*checkAvailability.Request, error) {
	req := &checkAvailability.Request{}

	start, err := handlers.ParseTime(q.Get("startTime"))
	if err != nil {
		return nil, err
	}
	req.StartTime = start

	if req.Hours, err = intParam(q, "hours"); err != nil {
		return nil, err
	}
	if req.Pax, err = intParam(q, "pax"); err != nil {
		return nil, err
	}

	return req, nil
}

func intParam(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("некорректный параметр %s: %q", name, raw)
	}
	return v, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkAvailability.Response) *AvailabilityResponse {
	types := make([]SpaceTypeAvailability, len(resp.SpaceTypes))
	for i, st := range resp.SpaceTypes {
		types[i] = SpaceTypeAvailability{
			SpaceTypeID:       st.SpaceTypeID,
			Name:              st.Name,
			TotalSlots:        st.TotalSlots,
			AvailableCapacity: st.AvailableCapacity,
			RequestedPax:      st.RequestedPax,
			CanAccommodate:    st.CanAccommodate,
			HourlyRate:        domain.MoneyString(st.HourlyRate),
		}
		for _, alt := range st.Alternatives {
			types[i].Alternatives = append(types[i].Alternatives, Alternative{
				StartTime:         handlers.FormatTime(alt.StartTime),
				EndTime:           handlers.FormatTime(alt.EndTime),
				AvailableCapacity: alt.AvailableCapacity,
			})
		}
	}

	return &AvailabilityResponse{
		StartTime:  handlers.FormatTime(resp.StartTime),
		EndTime:    handlers.FormatTime(resp.EndTime),
		Hours:      resp.Hours,
		Pax:        resp.Pax,
		SpaceTypes: types,
	}
}
