package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrDuplicateReferenceCode возвращается, когда код записи уже занят
	ErrDuplicateReferenceCode = errors.New("appointment.repository: duplicate reference code")

	// ErrNotInTransaction возвращается, если блокировку даты пытаются взять вне транзакции
	ErrNotInTransaction = errors.New("appointment.repository: advisory lock requires a transaction")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
