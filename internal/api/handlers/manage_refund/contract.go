package manage_refund

import (
	"context"

	manageRefund "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/manage_refund"
)

type ManageRefundUseCase interface {
	Execute(ctx context.Context, req *manageRefund.Request) (*manageRefund.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
