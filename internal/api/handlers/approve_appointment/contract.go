package approve_appointment

import (
	"context"

	approveAppointment "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/approve_appointment"
)

type ApproveAppointmentUseCase interface {
	Execute(ctx context.Context, req *approveAppointment.Request) (*approveAppointment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
