package record_payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/appointment"
	paymentRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/payment"
)

// UseCase use case фиксации оплаты по уведомлению шлюза
type UseCase struct {
	paymentRepo     PaymentRepository
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	sideEffects     SideEffects
	clock           Clock
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	paymentRepo PaymentRepository,
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	sideEffects SideEffects,
	clock Clock,
	logger Logger,
) *UseCase {
	return &UseCase{
		paymentRepo:     paymentRepo,
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		sideEffects:     sideEffects,
		clock:           clock,
		logger:          logger,
	}
}

// Execute переводит ожидающий платеж в paid и отмечает запись оплаченной
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RecordPayment: payment=%d amount=%.2f", req.PaymentID, req.Amount)

	if req.PaymentID <= 0 {
		return nil, domain.NewValidationError("payment_id", "must be positive")
	}
	if req.Amount <= 0 {
		return nil, domain.NewValidationError("amount", "must be positive")
	}

	now := uc.clock.Now()

	var (
		payment       *domain.Payment
		before, after *domain.Appointment
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		before, after = nil, nil

		p, err := uc.paymentRepo.GetByID(txCtx, req.PaymentID)
		if err != nil {
			if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
				return domain.NewNotFoundError("payment", strconv.FormatInt(req.PaymentID, 10))
			}
			uc.logger.Error("RecordPayment: failed to get payment id=%d: %v", req.PaymentID, err)
			return fmt.Errorf("%w: failed to get payment: %w", ErrInternal, err)
		}

		if !p.IsOutstanding() {
			uc.logger.Warn("RecordPayment: payment id=%d is %s", p.ID, p.Status)
			return domain.NewStateConflictError(string(p.Status), "already processed")
		}

		if err := uc.paymentRepo.MarkPaid(txCtx, p.ID, req.Amount, now); err != nil {
			uc.logger.Error("RecordPayment: failed to mark payment id=%d paid: %v", p.ID, err)
			return fmt.Errorf("%w: failed to mark payment paid: %w", ErrInternal, err)
		}
		p.Status = domain.PaymentPaid
		p.AmountPaid = req.Amount
		p.PaidAt = &now
		payment = p

		if p.AppointmentID == nil {
			return nil
		}

		appointment, err := uc.appointmentRepo.GetByID(txCtx, *p.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return domain.NewNotFoundError("appointment", strconv.FormatInt(*p.AppointmentID, 10))
			}
			uc.logger.Error("RecordPayment: failed to get appointment id=%d: %v", *p.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
		}

		before = appointment.Clone()
		appointment.PaymentStatus = domain.AppointmentPaid
		if err := uc.appointmentRepo.Update(txCtx, appointment); err != nil {
			uc.logger.Error("RecordPayment: failed to update appointment id=%d: %v", appointment.ID, err)
			return fmt.Errorf("%w: failed to update appointment: %w", ErrInternal, err)
		}
		after = appointment

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("RecordPayment: payment id=%d paid", payment.ID)

	uc.sideEffects.Audit(ctx, &domain.AuditEntry{
		Entity:    domain.EntityPayment,
		EntityID:  payment.ID,
		Action:    domain.ActionPaid,
		ActorID:   domain.SystemActor.UserID,
		ActorRole: domain.SystemActor.Role,
		After:     payment,
	})

	if after != nil {
		uc.sideEffects.AppointmentChanged(ctx, domain.ActionPaid, domain.SystemActor, before, after, &domain.Notification{
			Audience:  domain.AudiencePatient,
			PatientID: &after.PatientID,
			Event:     "payment.received",
			Subject:   "Payment received",
			Body:      fmt.Sprintf("We received %.2f for appointment %s", req.Amount, after.ReferenceCode),
			Data: map[string]string{
				"appointmentId": strconv.FormatInt(after.ID, 10),
				"paymentId":     strconv.FormatInt(payment.ID, 10),
			},
		})
	}

	return &Response{Payment: payment, Appointment: after}, nil
}
