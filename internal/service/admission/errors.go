package admission

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках проверки допуска
	ErrInternal = errors.New("admission: internal error")
)
