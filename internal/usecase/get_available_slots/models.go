package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// Request модель запроса на получение доступных начал записи
type Request struct {
	Actor      domain.Actor
	Date       time.Time
	ServiceID  int64
	PatientID  *int64 // Если задан, исключаются начала, пересекающиеся с записями пациента
	TeethCount *int
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time
	ServiceID       int64
	DurationMinutes int // Длительность, округленная до блоков
	Day             *domain.ClinicDaySnapshot
	Slots           []domain.AvailableSlot
}
