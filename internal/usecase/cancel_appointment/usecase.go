package cancel_appointment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/appointment"
	paymentRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments"
)

// UseCase use case для отмены записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	paymentRepo     PaymentRepository
	refundRepo      RefundRepository
	settingsRepo    SettingsRepository
	directory       PatientDirectory
	calculator      RefundCalculator
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
	refundRepo RefundRepository,
	settingsRepo SettingsRepository,
	directory PatientDirectory,
	calculator RefundCalculator,
	txManager TransactionManager,
	sideEffects SideEffects,
	clock Clock,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		paymentRepo:     paymentRepo,
		refundRepo:      refundRepo,
		settingsRepo:    settingsRepo,
		directory:       directory,
		calculator:      calculator,
		txManager:       txManager,
		sideEffects:     sideEffects,
		clock:           clock,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute отменяет запись
// Отмена, платежи и заявка на возврат фиксируются одной транзакцией
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelAppointment: id=%d by user=%d role=%s", req.AppointmentID, req.Actor.UserID, req.Actor.Role)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Снимок настроек возвратов на время операции
	settings, err := uc.settingsRepo.GetRefundSetting(ctx)
	if err != nil {
		uc.logger.Error("CancelAppointment: failed to get refund settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get refund settings: %v", ErrInternal, err)
	}

	now := uc.clock.Now()

	var (
		before, after *domain.Appointment
		refund        *domain.RefundRequest
		quote         *domain.RefundQuote
	)

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		refund, quote = nil, nil

		// 3. Получаем запись с блокировкой строки
		appointment, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return domain.NewNotFoundError("appointment", strconv.FormatInt(req.AppointmentID, 10))
			}
			uc.logger.Error("CancelAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
		}

		// 4. Пациент отменяет только свои записи
		if err := appointments.CheckOwnership(txCtx, uc.directory, req.Actor, appointment.PatientID); err != nil {
			uc.logger.Warn("CancelAppointment: user=%d may not cancel id=%d: %v", req.Actor.UserID, appointment.ID, err)
			return err
		}

		// 5. Допустимость перехода
		if err := checkTransition(appointment, req.Actor); err != nil {
			uc.logger.Warn("CancelAppointment: id=%d status=%s payment=%s: %v",
				appointment.ID, appointment.Status, appointment.PaymentStatus, err)
			return err
		}

		// 6. Месячный лимит отмен для пациентов
		if err := uc.checkMonthlyLimit(txCtx, req.Actor, appointment.PatientID, settings, now); err != nil {
			return err
		}

		before = appointment.Clone()
		appointment.Status = domain.StatusCancelled
		appointment.CanceledAt = &now
		appointment.CancelReason = req.Reason

		// 7. Платежи maya: оплаченная запись ждет возврата, неоплаченные платежи отменяются
		if appointment.PaymentMethod == domain.PaymentMethodMaya {
			if appointment.PaymentStatus == domain.AppointmentPaid {
				refund, quote, err = uc.createRefund(txCtx, appointment, settings, now)
				if err != nil {
					return err
				}
			} else {
				cancelled, err := uc.paymentRepo.CancelOutstanding(txCtx, appointment.ID, now)
				if err != nil {
					uc.logger.Error("CancelAppointment: failed to cancel payments of id=%d: %v", appointment.ID, err)
					return fmt.Errorf("%w: failed to cancel payments: %w", ErrInternal, err)
				}
				appointment.PaymentStatus = domain.AppointmentUnpaid
				uc.logger.Info("CancelAppointment: cancelled %d outstanding payment(s) of id=%d", cancelled, appointment.ID)
			}
		}

		// 8. Сохраняем запись
		if err := uc.appointmentRepo.Update(txCtx, appointment); err != nil {
			uc.logger.Error("CancelAppointment: failed to update appointment id=%d: %v", appointment.ID, err)
			return fmt.Errorf("%w: failed to update appointment: %w", ErrInternal, err)
		}

		after = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CancelAppointment: cancelled appointment id=%d, refund created=%t", after.ID, refund != nil)
	uc.metrics.IncTransition(domain.ActionCancel)

	uc.sideEffects.AppointmentChanged(ctx, domain.ActionCancel, req.Actor, before, after, &domain.Notification{
		Audience:  domain.AudienceStaff,
		PatientID: &after.PatientID,
		Event:     "appointment.cancelled",
		Subject:   "Appointment cancelled",
		Body: fmt.Sprintf("Appointment %s on %s at %s was cancelled",
			after.ReferenceCode, after.Date.Format(domain.DateFormat), after.TimeSlot),
		Data: map[string]string{
			"appointmentId": strconv.FormatInt(after.ID, 10),
			"referenceCode": after.ReferenceCode,
		},
	})

	if refund != nil {
		uc.metrics.IncRefundRequest()
		uc.sideEffects.Audit(ctx, &domain.AuditEntry{
			Entity:    domain.EntityRefund,
			EntityID:  refund.ID,
			Action:    domain.ActionCancel,
			ActorID:   req.Actor.UserID,
			ActorRole: req.Actor.Role,
			After:     refund,
		})
	}

	return &Response{
		Appointment:          after,
		RefundRequestCreated: refund != nil,
		Refund:               refund,
		Quote:                quote,
	}, nil
}

// checkMonthlyLimit пациент не может отменить больше MonthlyCancellationLimit записей
// за календарный месяц; 0 - без ограничений, персонал не ограничен
func (uc *UseCase) checkMonthlyLimit(ctx context.Context, actor domain.Actor, patientID int64, settings domain.RefundSetting, now time.Time) error {
	if actor.Role != domain.RolePatient || settings.MonthlyCancellationLimit <= 0 {
		return nil
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	count, err := uc.appointmentRepo.CountCancellationsSince(ctx, patientID, monthStart)
	if err != nil {
		uc.logger.Error("CancelAppointment: failed to count cancellations of patient id=%d: %v", patientID, err)
		return fmt.Errorf("%w: failed to count cancellations: %w", ErrInternal, err)
	}

	if count >= settings.MonthlyCancellationLimit {
		uc.logger.Warn("CancelAppointment: patient id=%d reached monthly limit %d", patientID, settings.MonthlyCancellationLimit)
		return domain.NewAuthorizationError(BlockTypeCancellationLimit,
			fmt.Sprintf("monthly cancellation limit of %d reached", settings.MonthlyCancellationLimit))
	}
	return nil
}

// createRefund считает возврат по оплаченному платежу и создает заявку, если она нужна
func (uc *UseCase) createRefund(
	ctx context.Context,
	appointment *domain.Appointment,
	settings domain.RefundSetting,
	now time.Time,
) (*domain.RefundRequest, *domain.RefundQuote, error) {
	payment, err := uc.paymentRepo.GetPaidByAppointment(ctx, appointment.ID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			uc.logger.Warn("CancelAppointment: id=%d is marked paid but has no paid payment", appointment.ID)
			return nil, nil, nil
		}
		uc.logger.Error("CancelAppointment: failed to get paid payment of id=%d: %v", appointment.ID, err)
		return nil, nil, fmt.Errorf("%w: failed to get payment: %w", ErrInternal, err)
	}

	quote := uc.calculator.Quote(appointment, payment, settings, now)
	uc.logger.Info("CancelAppointment: id=%d quote original=%.2f fee=%.2f refund=%.2f",
		appointment.ID, quote.OriginalAmount, quote.CancellationFee, quote.RefundAmount)

	request := uc.calculator.NewRequest(appointment, payment, quote, settings, now)
	if request == nil {
		uc.logger.Info("CancelAppointment: zero refund for id=%d, request suppressed", appointment.ID)
		return nil, &quote, nil
	}

	created, err := uc.refundRepo.Create(ctx, request)
	if err != nil {
		uc.logger.Error("CancelAppointment: failed to create refund request for id=%d: %v", appointment.ID, err)
		return nil, nil, fmt.Errorf("%w: failed to create refund request: %w", ErrInternal, err)
	}

	return created, &quote, nil
}
