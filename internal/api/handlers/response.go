package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

const (
	msgInternalError = "внутренняя ошибка сервера"
	msgNotFound      = "не найдено"
	msgForbidden     = "доступ запрещен"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error             string `json:"error"`
	AvailableCapacity *int   `json:"availableCapacity,omitempty"`
}

// DecodeJSON читает тело запроса, неизвестные поля запрещены
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// DecodeOptionalJSON пустое тело не считается ошибкой
func DecodeOptionalJSON(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := DecodeJSON(r, v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondDomainError переводит доменную ошибку в HTTP статус и
// возвращает его для логирования
func RespondDomainError(w http.ResponseWriter, err error) int {
	var capErr *domain.CapacityExceededError

	switch {
	case errors.As(err, &capErr):
		available := capErr.Available
		RespondJSON(w, http.StatusConflict, ErrorResponse{Error: capErr.Error(), AvailableCapacity: &available})
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation):
		RespondBadRequest(w, err.Error())
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrCapacityExceeded):
		RespondError(w, http.StatusConflict, err.Error())
		return http.StatusConflict
	case errors.Is(err, domain.ErrForbidden):
		RespondForbidden(w, msgForbidden)
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidTransition):
		RespondError(w, http.StatusUnprocessableEntity, err.Error())
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		RespondNotFound(w, notFoundMessage(err))
		return http.StatusNotFound
	}

	RespondInternalError(w)
	return http.StatusInternalServerError
}

// ErrorLogger то, что нужно RespondUseCaseError от логгера
type ErrorLogger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RespondUseCaseError отвечает по доменной ошибке; 5xx пишется в Error, остальное в Warn
func RespondUseCaseError(w http.ResponseWriter, logger ErrorLogger, route string, err error) {
	status := RespondDomainError(w, err)
	if status >= http.StatusInternalServerError {
		logger.Error("%s - Failed: %v", route, err)
		return
	}
	logger.Warn("%s - Rejected with %d: %v", route, status, err)
}

// PathID положительный int64 из переменной маршрута
func PathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("некорректный %s: %q", name, raw)
	}
	return id, nil
}

// ParseTime RFC3339; пустая строка означает nil
func ParseTime(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("некорректное время %q, ожидается RFC3339", raw)
	}
	return &t, nil
}

// FormatTime RFC3339 в UTC для ответов
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func FormatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTime(*t)
	return &s
}

func notFoundMessage(err error) string {
	for _, known := range []error{
		domain.ErrReservationNotFound,
		domain.ErrSpaceNotFound,
		domain.ErrSpaceTypeNotFound,
		domain.ErrCustomerNotFound,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return msgNotFound
}
