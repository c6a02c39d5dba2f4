package appointments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/refcode"
)

// Service сервис чтения записей на прием
type Service struct {
	appointmentRepo AppointmentRepository
	directory       PatientDirectory
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	directory PatientDirectory,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		directory:       directory,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Пациент видит только свои записи, персонал - любые
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d role=%s", id, actor.UserID, actor.Role)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, domain.NewNotFoundError("appointment", strconv.FormatInt(id, 10))
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := CheckOwnership(ctx, s.directory, actor, appointment.PatientID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d: %v", actor.UserID, id, err)
		return nil, err
	}

	return models.FromDomainAppointment(appointment), nil
}

// GetByReferenceCode получает запись по коду (регистр не учитывается)
func (s *Service) GetByReferenceCode(ctx context.Context, code string, actor domain.Actor) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByReferenceCode: code=%q for user=%d role=%s", code, actor.UserID, actor.Role)

	normalized, err := refcode.Normalize(code)
	if err != nil {
		s.logger.Warn("GetByReferenceCode: invalid code %q", code)
		return nil, domain.NewValidationError("reference_code", "must be 8 alphanumeric characters")
	}

	appointment, err := s.appointmentRepo.GetByReferenceCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByReferenceCode: code=%s not found", normalized)
			return nil, domain.NewNotFoundError("appointment", normalized)
		}
		s.logger.Error("GetByReferenceCode: repository error for code=%s: %v", normalized, err)
		return nil, fmt.Errorf("%w: GetByReferenceCode - repository error: %v", ErrInternal, err)
	}

	if err := CheckOwnership(ctx, s.directory, actor, appointment.PatientID); err != nil {
		s.logger.Warn("GetByReferenceCode: access denied for user=%d to code=%s", actor.UserID, normalized)
		return nil, err
	}

	return models.FromDomainAppointment(appointment), nil
}

// ListByDate записи на дату (только для персонала)
func (s *Service) ListByDate(ctx context.Context, date time.Time, includeInactive bool, actor domain.Actor) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListByDate: date=%s includeInactive=%t by user=%d", date.Format(domain.DateFormat), includeInactive, actor.UserID)

	if !actor.IsStaff() {
		s.logger.Warn("ListByDate: user=%d role=%s is not staff", actor.UserID, actor.Role)
		return nil, domain.NewAuthorizationError(BlockTypeAccess, "staff only")
	}

	list, err := s.appointmentRepo.GetByDate(ctx, domain.AppointmentFilter{
		Date:            domain.DateOnly(date),
		IncludeInactive: includeInactive,
	})
	if err != nil {
		s.logger.Error("ListByDate: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListByDate - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointmentList(list), nil
}
