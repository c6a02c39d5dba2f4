package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	Actor         domain.BookingActor  // Кто записывает: сам пациент или персонал
	ServiceID     int64                // ID услуги
	Date          time.Time            // Дата приема (без времени)
	StartTime     types.TimeString     // Время начала ("09:00")
	PaymentMethod domain.PaymentMethod // cash | maya | hmo
	PatientHMOID  *int64               // Страховка пациента (обязательна для hmo)
	TeethCount    *int                 // Количество зубов для услуг с оплатой за зуб
	Notes         *string              // Заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment *domain.Appointment
	Payment     *domain.Payment // Платеж maya в ожидании оплаты, иначе nil
	Service     *domain.Service
}
