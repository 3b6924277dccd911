package extend_reservation

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("extend_reservation: internal error")
)
