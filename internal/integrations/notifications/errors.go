package notifications

import "errors"

var (
	// ErrConnect не удалось подключиться к брокеру
	ErrConnect = errors.New("notifications: failed to connect to broker")

	// ErrPublish не удалось опубликовать сообщение
	ErrPublish = errors.New("notifications: failed to publish event")

	// ErrClosed публикация после Close
	ErrClosed = errors.New("notifications: publisher closed")
)
