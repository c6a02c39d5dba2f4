package audit

import "errors"

var (
	// ErrMarshal возвращается, если снимок сущности не сериализуется в JSON
	ErrMarshal = errors.New("audit.repository: failed to marshal snapshot")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("audit.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("audit.repository: failed to execute query")
)
