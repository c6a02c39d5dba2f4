package approve_appointment

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/admission"
)

// UseCase use case для одобрения записи персоналом
type UseCase struct {
	appointmentRepo AppointmentRepository
	admission       Admission
	txManager       TransactionManager
	sideEffects     SideEffects
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	admission Admission,
	txManager TransactionManager,
	sideEffects SideEffects,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		admission:       admission,
		txManager:       txManager,
		sideEffects:     sideEffects,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute переводит запись pending -> approved
// Вместимость проверяется повторно без учета самой записи; при отказе состояние не меняется
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ApproveAppointment: id=%d by user=%d role=%s", req.AppointmentID, req.Actor.UserID, req.Actor.Role)

	if !req.Actor.IsStaff() {
		uc.logger.Warn("ApproveAppointment: user=%d role=%s is not staff", req.Actor.UserID, req.Actor.Role)
		return nil, domain.NewAuthorizationError("role", "only staff may approve appointments")
	}

	var before, after *domain.Appointment

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Получаем запись с блокировкой строки
		appointment, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return domain.NewNotFoundError("appointment", strconv.FormatInt(req.AppointmentID, 10))
			}
			uc.logger.Error("ApproveAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
		}

		// 2. Предусловие статуса
		if appointment.Status != domain.StatusPending {
			uc.logger.Warn("ApproveAppointment: id=%d already processed, status=%s", appointment.ID, appointment.Status)
			return domain.AlreadyProcessed(appointment.Status)
		}

		// 3. Повторная проверка вместимости под блокировкой даты
		if err := uc.appointmentRepo.LockDate(txCtx, appointment.Date); err != nil {
			uc.logger.Error("ApproveAppointment: failed to lock date: %v", err)
			return fmt.Errorf("%w: failed to lock date: %w", ErrInternal, err)
		}

		slot, err := uc.admission.SlotOf(txCtx, appointment)
		if err != nil {
			return err
		}
		committed, err := uc.admission.LoadCommitted(txCtx, appointment.Date)
		if err != nil {
			return err
		}
		if err := uc.admission.CheckCapacityIn(committed, slot, &appointment.ID, admission.StageApproval); err != nil {
			return err
		}

		// 4. Сохраняем новый статус
		before = appointment.Clone()
		appointment.Status = domain.StatusApproved
		if err := uc.appointmentRepo.Update(txCtx, appointment); err != nil {
			uc.logger.Error("ApproveAppointment: failed to update appointment id=%d: %v", appointment.ID, err)
			return fmt.Errorf("%w: failed to update appointment: %w", ErrInternal, err)
		}
		after = appointment

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("ApproveAppointment: approved appointment id=%d", after.ID)
	uc.metrics.IncTransition(domain.ActionApprove)

	uc.sideEffects.AppointmentChanged(ctx, domain.ActionApprove, req.Actor, before, after, &domain.Notification{
		Audience:  domain.AudiencePatient,
		PatientID: &after.PatientID,
		Event:     "appointment.approved",
		Subject:   "Appointment confirmed",
		Body: fmt.Sprintf("Your appointment on %s at %s is confirmed (code %s)",
			after.Date.Format(domain.DateFormat), after.TimeSlot, after.ReferenceCode),
		Data: map[string]string{
			"appointmentId": strconv.FormatInt(after.ID, 10),
			"referenceCode": after.ReferenceCode,
		},
	})

	return &Response{Appointment: after}, nil
}
