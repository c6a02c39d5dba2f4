package reject_appointment

import (
	"context"

	rejectAppointment "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/reject_appointment"
)

type RejectAppointmentUseCase interface {
	Execute(ctx context.Context, req *rejectAppointment.Request) (*rejectAppointment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
