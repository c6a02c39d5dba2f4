package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/admission"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments"
)

// UseCase use case для переноса записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	directory       PatientDirectory
	admission       Admission
	txManager       TransactionManager
	sideEffects     SideEffects
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	directory PatientDirectory,
	admission Admission,
	txManager TransactionManager,
	sideEffects SideEffects,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		directory:       directory,
		admission:       admission,
		txManager:       txManager,
		sideEffects:     sideEffects,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute переносит запись на новую дату/время
// Проверяются шаги 1-5, 7 и 9 конвейера бронирования без учета прежнего слота записи.
// После переноса запись снова ждет одобрения, платеж не меняется
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: id=%d to %s %s by user=%d role=%s",
		req.AppointmentID, req.Date.Format(domain.DateFormat), req.StartTime, req.Actor.UserID, req.Actor.Role)

	// 0. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	current, err := uc.getAppointment(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}

	if err := appointments.CheckOwnership(ctx, uc.directory, req.Actor, current.PatientID); err != nil {
		uc.logger.Warn("RescheduleAppointment: user=%d may not reschedule id=%d: %v", req.Actor.UserID, current.ID, err)
		return nil, err
	}

	// Предусловие: оплаченная через maya запись в pending/approved
	if err := checkEligible(current); err != nil {
		uc.logger.Warn("RescheduleAppointment: id=%d not eligible: method=%s payment=%s status=%s",
			current.ID, current.PaymentMethod, current.PaymentStatus, current.Status)
		return nil, err
	}

	// 1. Дата в окне бронирования
	if err := uc.admission.CheckWindow(req.Date, req.Actor.IsStaff()); err != nil {
		uc.logger.Warn("RescheduleAppointment: %v", err)
		return nil, err
	}

	// 2-4. Новый слот той же длительности
	slot, err := uc.admission.ResolveSlot(ctx, req.Date, req.StartTime, current.TimeSlot.DurationMinutes())
	if err != nil {
		uc.logger.Warn("RescheduleAppointment: slot rejected: %v", err)
		return nil, err
	}

	// 5. Вместимость нового слота без учета самой записи
	if err := uc.admission.CheckCapacity(ctx, slot, &current.ID, admission.StageReschedule); err != nil {
		return nil, err
	}

	// 7. Блокировки пациента
	status, err := uc.directory.GetStatus(ctx, current.PatientID)
	if err != nil {
		uc.logger.Error("RescheduleAppointment: failed to get status of patient id=%d: %v", current.PatientID, err)
		return nil, fmt.Errorf("%w: failed to get patient status: %v", ErrInternal, err)
	}
	if err := admission.CheckPatientStatus(status); err != nil {
		uc.logger.Warn("RescheduleAppointment: patient id=%d is blocked: %v", current.PatientID, err)
		return nil, err
	}

	var before, after *domain.Appointment

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appointment, err := uc.getAppointment(txCtx, req.AppointmentID)
		if err != nil {
			return err
		}
		if err := checkEligible(appointment); err != nil {
			return err
		}

		// Старая и новая даты блокируются по возрастанию
		for _, date := range lockOrder(appointment.Date, slot.Date) {
			if err := uc.appointmentRepo.LockDate(txCtx, date); err != nil {
				uc.logger.Error("RescheduleAppointment: failed to lock date %s: %v", date.Format(domain.DateFormat), err)
				return fmt.Errorf("%w: failed to lock date: %w", ErrInternal, err)
			}
		}

		// 5, 9. Вместимость и пересечения без учета самой записи
		committed, err := uc.admission.LoadCommitted(txCtx, slot.Date)
		if err != nil {
			return err
		}
		if err := uc.admission.CheckCapacityIn(committed, slot, &appointment.ID, admission.StageReschedule); err != nil {
			return err
		}
		if err := admission.CheckOverlapIn(committed, appointment.PatientID, slot, &appointment.ID); err != nil {
			return err
		}

		before = appointment.Clone()
		appointment.Date = slot.Date
		appointment.TimeSlot = slot.Range
		appointment.Status = domain.StatusPending
		appointment.RemindedAt = nil
		if err := uc.appointmentRepo.Update(txCtx, appointment); err != nil {
			uc.logger.Error("RescheduleAppointment: failed to update appointment id=%d: %v", appointment.ID, err)
			return fmt.Errorf("%w: failed to update appointment: %w", ErrInternal, err)
		}

		after = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleAppointment: moved appointment id=%d from %s %s to %s %s",
		after.ID, before.Date.Format(domain.DateFormat), before.TimeSlot, after.Date.Format(domain.DateFormat), after.TimeSlot)
	uc.metrics.IncTransition(domain.ActionReschedule)

	uc.sideEffects.AppointmentChanged(ctx, domain.ActionReschedule, req.Actor, before, after, &domain.Notification{
		Audience:  domain.AudienceStaff,
		PatientID: &after.PatientID,
		Event:     "appointment.rescheduled",
		Subject:   "Appointment rescheduled",
		Body: fmt.Sprintf("Appointment %s moved to %s %s and awaits approval",
			after.ReferenceCode, after.Date.Format(domain.DateFormat), after.TimeSlot),
		Data: map[string]string{
			"appointmentId": strconv.FormatInt(after.ID, 10),
			"referenceCode": after.ReferenceCode,
		},
	})

	return &Response{Appointment: after}, nil
}

func (uc *UseCase) getAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	appointment, err := uc.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", id)
			return nil, domain.NewNotFoundError("appointment", strconv.FormatInt(id, 10))
		}
		uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
	}
	return appointment, nil
}
