package reject_appointment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/appointment"
)

// UseCase use case для отклонения записи персоналом
type UseCase struct {
	appointmentRepo AppointmentRepository
	paymentRepo     PaymentRepository
	txManager       TransactionManager
	sideEffects     SideEffects
	clock           Clock
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	paymentRepo PaymentRepository,
	txManager TransactionManager,
	sideEffects SideEffects,
	clock Clock,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		paymentRepo:     paymentRepo,
		txManager:       txManager,
		sideEffects:     sideEffects,
		clock:           clock,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute переводит запись pending -> rejected
// Статус оплаты сбрасывается в unpaid, неоплаченные платежи отменяются в той же транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RejectAppointment: id=%d by user=%d role=%s", req.AppointmentID, req.Actor.UserID, req.Actor.Role)

	if !req.Actor.IsStaff() {
		uc.logger.Warn("RejectAppointment: user=%d role=%s is not staff", req.Actor.UserID, req.Actor.Role)
		return nil, domain.NewAuthorizationError("role", "only staff may reject appointments")
	}

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RejectAppointment: validation failed: %v", err)
		return nil, err
	}
	note := strings.TrimSpace(req.Note)

	var (
		before, after *domain.Appointment
		cancelled     int64
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appointment, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return domain.NewNotFoundError("appointment", strconv.FormatInt(req.AppointmentID, 10))
			}
			uc.logger.Error("RejectAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
		}

		if appointment.Status != domain.StatusPending {
			uc.logger.Warn("RejectAppointment: id=%d already processed, status=%s", appointment.ID, appointment.Status)
			return domain.AlreadyProcessed(appointment.Status)
		}

		before = appointment.Clone()
		appointment.Status = domain.StatusRejected
		appointment.PaymentStatus = domain.AppointmentUnpaid
		appointment.CancelReason = &note
		if err := uc.appointmentRepo.Update(txCtx, appointment); err != nil {
			uc.logger.Error("RejectAppointment: failed to update appointment id=%d: %v", appointment.ID, err)
			return fmt.Errorf("%w: failed to update appointment: %w", ErrInternal, err)
		}

		cancelled, err = uc.paymentRepo.CancelOutstanding(txCtx, appointment.ID, uc.clock.Now())
		if err != nil {
			uc.logger.Error("RejectAppointment: failed to cancel payments of id=%d: %v", appointment.ID, err)
			return fmt.Errorf("%w: failed to cancel payments: %w", ErrInternal, err)
		}

		after = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("RejectAppointment: rejected appointment id=%d, cancelled %d payment(s)", after.ID, cancelled)
	uc.metrics.IncTransition(domain.ActionReject)

	uc.sideEffects.AppointmentChanged(ctx, domain.ActionReject, req.Actor, before, after, &domain.Notification{
		Audience:  domain.AudiencePatient,
		PatientID: &after.PatientID,
		Event:     "appointment.rejected",
		Subject:   "Appointment declined",
		Body: fmt.Sprintf("Your appointment on %s at %s was declined: %s",
			after.Date.Format(domain.DateFormat), after.TimeSlot, note),
		Data: map[string]string{
			"appointmentId": strconv.FormatInt(after.ID, 10),
			"referenceCode": after.ReferenceCode,
		},
	})

	return &Response{Appointment: after, PaymentsCancelled: cancelled}, nil
}
