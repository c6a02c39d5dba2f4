package reject_appointment

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reject_appointment: internal error")
)
