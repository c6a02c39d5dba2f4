package create_appointment

import "errors"

var (
	// ErrReferenceCodeExhausted возвращается, когда не удалось подобрать уникальный код записи
	ErrReferenceCodeExhausted = errors.New("create_appointment: reference code attempts exhausted")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
