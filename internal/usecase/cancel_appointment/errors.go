package cancel_appointment

import "errors"

// BlockTypeCancellationLimit block_type превышения месячного лимита отмен
const BlockTypeCancellationLimit = "cancellation_limit"

var (
	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_appointment: internal error")
)
