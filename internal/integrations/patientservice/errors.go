package patientservice

import "errors"

var (
	// ErrPatientNotFound возвращается, когда пациент не найден
	ErrPatientNotFound = errors.New("patientservice client: patient not found")

	// ErrHMONotFound возвращается, когда страховка не найдена
	ErrHMONotFound = errors.New("patientservice client: hmo not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("patientservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("patientservice client: invalid response")
)
