package approve_appointment

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("approve_appointment: internal error")
)
