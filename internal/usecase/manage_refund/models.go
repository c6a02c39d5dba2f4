package manage_refund

import "github.com/m04kA/SMC-ClinicBookingService/internal/domain"

// Action действие над заявкой на возврат
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionProcess Action = "process"
	ActionConfirm Action = "confirm"
)

// Request модель запроса на изменение заявки
type Request struct {
	RefundID int64
	Action   Action
	Actor    domain.Actor
	Note     *string // Комментарий администратора (approve/reject/process)
}

// Response модель ответа с заявкой
type Response struct {
	Refund      *domain.RefundRequest
	Appointment *domain.Appointment // Заполняется при подтверждении пациентом
}
