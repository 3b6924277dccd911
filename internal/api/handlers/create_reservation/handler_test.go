package create_reservation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaceBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	createReservation "github.com/m04kA/SMC-SpaceBooking/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-SpaceBooking/pkg/logger"
)

type stubUseCase struct {
	got  *createReservation.Request
	resp *createReservation.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *createReservation.Request) (*createReservation.Response, error) {
	s.got = req
	return s.resp, s.err
}

const body = `{
	"spaceTypeId": 3,
	"paymentMethod": "gcash",
	"hours": 2,
	"pax": 2,
	"startTime": "2026-04-06T10:00:00Z",
	"customer": {"name": "Ana", "email": "ana@example.com"}
}`

func serve(uc *stubUseCase, actor domain.Actor, payload string) *httptest.ResponseRecorder {
	h := NewHandler(uc, logger.NewWriter(io.Discard, "error"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(payload))
	req = req.WithContext(middleware.WithActor(req.Context(), actor))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	start := time.Date(2026, 4, 6, 10, 0, 0, 0, time.UTC)
	uc := &stubUseCase{resp: &createReservation.Response{
		ReservationID: 11,
		Status:        string(domain.StatusPaid),
		TotalCost:     decimal.NewFromInt(200),
		AmountPaid:    decimal.NewFromInt(200),
		SpaceTypeName: "Hot Desk",
		StartTime:     start,
		EndTime:       start.Add(2 * time.Hour),
	}}

	rec := serve(uc, domain.Actor{}, body)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(3), uc.got.SpaceTypeID)
	assert.Equal(t, "ana@example.com", uc.got.Customer.Email)
	require.NotNil(t, uc.got.StartTime)
	assert.True(t, uc.got.StartTime.Equal(start))

	var got ReservationResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, int64(11), got.ID)
	assert.Equal(t, "200.00", got.TotalCost)
	assert.Equal(t, "2026-04-06T12:00:00Z", got.EndTime)
}

func TestHandle_CapacityExceeded(t *testing.T) {
	uc := &stubUseCase{err: fmt.Errorf("wrap: %w", &domain.CapacityExceededError{Available: 1, Requested: 2})}

	rec := serve(uc, domain.Actor{}, body)

	require.Equal(t, http.StatusConflict, rec.Code)
	var got handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.NotNil(t, got.AvailableCapacity)
	assert.Equal(t, 1, *got.AvailableCapacity)
}

func TestHandle_BadInput(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"malformed json", `{"spaceTypeId":`},
		{"unknown field", `{"spaceTypeId": 1, "discount": 50}`},
		{"bad start time", `{"spaceTypeId": 1, "startTime": "monday 10am"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{}
			rec := serve(uc, domain.Actor{}, tt.payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}
