package availability

import "errors"

var (
	// ErrInvalidScope фильтр без области (пространство, тип или клиент)
	ErrInvalidScope = errors.New("availability: overlap scope is empty")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("availability: internal error")
)
