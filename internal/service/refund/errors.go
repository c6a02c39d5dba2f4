package refund

import "errors"

var (
	// ErrInvalidPolicy возвращается при некорректной настройке политики комиссии
	ErrInvalidPolicy = errors.New("refund: invalid fee policy")
)
