package record_payment

import "github.com/m04kA/SMC-ClinicBookingService/internal/domain"

// Request уведомление платежного шлюза об оплате
type Request struct {
	PaymentID int64
	Amount    float64
}

// Response модель ответа
type Response struct {
	Payment     *domain.Payment
	Appointment *domain.Appointment // nil для платежей визита без записи
}
