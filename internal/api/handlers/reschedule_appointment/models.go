package reschedule_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	rescheduleAppointment "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// RescheduleAppointmentRequest HTTP request model
type RescheduleAppointmentRequest struct {
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleAppointmentRequest) ToUseCaseRequest(appointmentID int64, actor domain.Actor) (*rescheduleAppointment.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}

	return &rescheduleAppointment.Request{
		AppointmentID: appointmentID,
		Actor:         actor,
		Date:          date,
		StartTime:     startTime,
	}, nil
}
