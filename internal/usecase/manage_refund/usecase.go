package manage_refund

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/appointment"
	refundRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/refund"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments"
)

// UseCase use case жизненного цикла заявки на возврат
// pending -> approved | rejected (админ), approved -> processed (админ),
// processed -> подтверждено пациентом (платеж и запись становятся refunded)
type UseCase struct {
	refundRepo      RefundRepository
	appointmentRepo AppointmentRepository
	paymentRepo     PaymentRepository
	directory       PatientDirectory
	txManager       TransactionManager
	sideEffects     SideEffects
	clock           Clock
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	refundRepo RefundRepository,
	appointmentRepo AppointmentRepository,
	paymentRepo PaymentRepository,
	directory PatientDirectory,
	txManager TransactionManager,
	sideEffects SideEffects,
	clock Clock,
	logger Logger,
) *UseCase {
	return &UseCase{
		refundRepo:      refundRepo,
		appointmentRepo: appointmentRepo,
		paymentRepo:     paymentRepo,
		directory:       directory,
		txManager:       txManager,
		sideEffects:     sideEffects,
		clock:           clock,
		logger:          logger,
	}
}

// Execute выполняет действие над заявкой
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ManageRefund: id=%d action=%s by user=%d role=%s", req.RefundID, req.Action, req.Actor.UserID, req.Actor.Role)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ManageRefund: validation failed: %v", err)
		return nil, err
	}
	if err := checkActor(req.Action, req.Actor); err != nil {
		uc.logger.Warn("ManageRefund: user=%d role=%s may not %s", req.Actor.UserID, req.Actor.Role, req.Action)
		return nil, err
	}

	now := uc.clock.Now()

	var (
		before, after *domain.RefundRequest
		appointment   *domain.Appointment
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appointment = nil

		refund, err := uc.refundRepo.GetByID(txCtx, req.RefundID)
		if err != nil {
			if errors.Is(err, refundRepo.ErrRefundNotFound) {
				return domain.NewNotFoundError("refund_request", strconv.FormatInt(req.RefundID, 10))
			}
			uc.logger.Error("ManageRefund: failed to get refund id=%d: %v", req.RefundID, err)
			return fmt.Errorf("%w: failed to get refund request: %w", ErrInternal, err)
		}

		if req.Action == ActionConfirm {
			if err := appointments.CheckOwnership(txCtx, uc.directory, req.Actor, refund.PatientID); err != nil {
				return err
			}
		}

		if refund.Status != requiredStatus(req.Action) || refund.IsPatientConfirmed() {
			uc.logger.Warn("ManageRefund: id=%d status=%s does not allow %s", refund.ID, refund.Status, req.Action)
			return domain.NewStateConflictError(string(refund.Status), "already processed")
		}

		before = cloneRefund(refund)

		switch req.Action {
		case ActionApprove:
			refund.Status = domain.RefundApproved
			refund.AdminNote = noteOr(req.Note, refund.AdminNote)
		case ActionReject:
			refund.Status = domain.RefundRejected
			refund.AdminNote = noteOr(req.Note, refund.AdminNote)
			refund.ProcessedAt = &now
		case ActionProcess:
			refund.Status = domain.RefundProcessed
			refund.AdminNote = noteOr(req.Note, refund.AdminNote)
			refund.ProcessedAt = &now
		case ActionConfirm:
			refund.PatientConfirmedAt = &now
			appointment, err = uc.markRefunded(txCtx, refund)
			if err != nil {
				return err
			}
		}

		if err := uc.refundRepo.Update(txCtx, refund); err != nil {
			uc.logger.Error("ManageRefund: failed to update refund id=%d: %v", refund.ID, err)
			return fmt.Errorf("%w: failed to update refund request: %w", ErrInternal, err)
		}

		after = refund
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("ManageRefund: refund id=%d %s, status=%s", after.ID, req.Action, after.Status)

	uc.sideEffects.Audit(ctx, &domain.AuditEntry{
		Entity:    domain.EntityRefund,
		EntityID:  after.ID,
		Action:    string(req.Action),
		ActorID:   req.Actor.UserID,
		ActorRole: req.Actor.Role,
		Before:    before,
		After:     after,
	})
	uc.sideEffects.Notify(ctx, notificationFor(req.Action, after))

	return &Response{Refund: after, Appointment: appointment}, nil
}

// markRefunded платеж и запись переходят в refunded после подтверждения пациентом
func (uc *UseCase) markRefunded(ctx context.Context, refund *domain.RefundRequest) (*domain.Appointment, error) {
	if err := uc.paymentRepo.UpdateStatus(ctx, refund.PaymentID, domain.PaymentRefunded); err != nil {
		uc.logger.Error("ManageRefund: failed to mark payment id=%d refunded: %v", refund.PaymentID, err)
		return nil, fmt.Errorf("%w: failed to update payment: %w", ErrInternal, err)
	}

	appointment, err := uc.appointmentRepo.GetByID(ctx, refund.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, domain.NewNotFoundError("appointment", strconv.FormatInt(refund.AppointmentID, 10))
		}
		uc.logger.Error("ManageRefund: failed to get appointment id=%d: %v", refund.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
	}

	appointment.PaymentStatus = domain.AppointmentRefunded
	if err := uc.appointmentRepo.Update(ctx, appointment); err != nil {
		uc.logger.Error("ManageRefund: failed to update appointment id=%d: %v", appointment.ID, err)
		return nil, fmt.Errorf("%w: failed to update appointment: %w", ErrInternal, err)
	}

	return appointment, nil
}

func noteOr(note, current *string) *string {
	if note != nil {
		return note
	}
	return current
}

func cloneRefund(r *domain.RefundRequest) *domain.RefundRequest {
	c := *r
	return &c
}

func notificationFor(action Action, r *domain.RefundRequest) *domain.Notification {
	n := &domain.Notification{
		Audience:  domain.AudiencePatient,
		PatientID: &r.PatientID,
		Event:     "refund." + string(action),
		Data: map[string]string{
			"refundId":      strconv.FormatInt(r.ID, 10),
			"appointmentId": strconv.FormatInt(r.AppointmentID, 10),
			"refundAmount":  strconv.FormatFloat(r.RefundAmount, 'f', 2, 64),
		},
	}

	switch action {
	case ActionApprove:
		n.Subject = "Refund approved"
		n.Body = fmt.Sprintf("Your refund of %.2f was approved", r.RefundAmount)
	case ActionReject:
		n.Subject = "Refund rejected"
		n.Body = "Your refund request was rejected"
	case ActionProcess:
		n.Subject = "Refund sent"
		n.Body = fmt.Sprintf("Your refund of %.2f was sent, please confirm once received", r.RefundAmount)
	case ActionConfirm:
		n.Audience = domain.AudienceStaff
		n.Subject = "Refund confirmed"
		n.Body = fmt.Sprintf("Patient confirmed receiving refund %d", r.ID)
	}
	return n
}
