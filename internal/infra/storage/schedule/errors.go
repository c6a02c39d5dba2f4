package schedule

import "errors"

var (
	// ErrNotFound возвращается, когда записи расписания на дату/день недели нет
	ErrNotFound = errors.New("schedule.repository: entry not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")

	// ErrInvalidTime возвращается, если в БД лежит некорректное время
	ErrInvalidTime = errors.New("schedule.repository: invalid time value")
)
