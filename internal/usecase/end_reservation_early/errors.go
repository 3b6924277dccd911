package end_reservation_early

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("end_reservation_early: internal error")
)
