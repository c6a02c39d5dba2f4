package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/appointment"
)

// AppointmentRepository записи на прием
type AppointmentRepository struct {
	s *Store
}

// Create сохраняет запись; код записи должен быть уникален
func (r *AppointmentRepository) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.data.appointments {
		if strings.EqualFold(existing.ReferenceCode, a.ReferenceCode) {
			return nil, appointmentRepo.ErrDuplicateReferenceCode
		}
	}

	r.s.data.nextAppointmentID++
	now := r.s.timestamp()

	a.ID = r.s.data.nextAppointmentID
	a.Date = domain.DateOnly(a.Date)
	a.CreatedAt = now
	a.UpdatedAt = now
	r.s.data.appointments[a.ID] = a.Clone()

	return a, nil
}

// GetByID получает запись по ID
func (r *AppointmentRepository) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.data.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return a.Clone(), nil
}

// GetByReferenceCode получает запись по коду
func (r *AppointmentRepository) GetByReferenceCode(_ context.Context, code string) (*domain.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.data.appointments {
		if strings.EqualFold(a.ReferenceCode, code) {
			return a.Clone(), nil
		}
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

// GetByDate записи на дату по фильтру, по времени начала
func (r *AppointmentRepository) GetByDate(_ context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.Appointment, 0)
	for _, a := range r.s.data.appointments {
		if !domain.SameDate(a.Date, filter.Date) {
			continue
		}
		if filter.PatientID != nil && a.PatientID != *filter.PatientID {
			continue
		}
		if !filter.IncludeInactive && !a.CountsTowardCapacity() {
			continue
		}
		result = append(result, a.Clone())
	}

	sortAppointments(result)
	return result, nil
}

// LockDate в памяти транзакции уже сериализованы
func (r *AppointmentRepository) LockDate(ctx context.Context, _ time.Time) error {
	if !inTx(ctx) {
		return appointmentRepo.ErrNotInTransaction
	}
	return nil
}

// Update сохраняет изменяемые поля записи
func (r *AppointmentRepository) Update(_ context.Context, a *domain.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.data.appointments[a.ID]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}

	stored.Date = domain.DateOnly(a.Date)
	stored.TimeSlot = a.TimeSlot
	stored.Status = a.Status
	stored.PaymentStatus = a.PaymentStatus
	stored.RemindedAt = a.RemindedAt
	stored.CanceledAt = a.CanceledAt
	stored.CancelReason = a.CancelReason
	stored.UpdatedAt = r.s.timestamp()
	a.UpdatedAt = stored.UpdatedAt

	return nil
}

// CountCancellationsSince отмены пациента начиная с since
func (r *AppointmentRepository) CountCancellationsSince(_ context.Context, patientID int64, since time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, a := range r.s.data.appointments {
		if a.PatientID == patientID && a.Status == domain.StatusCancelled &&
			a.CanceledAt != nil && !a.CanceledAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// ListDueReminders одобренные записи на дату без напоминания
func (r *AppointmentRepository) ListDueReminders(_ context.Context, date time.Time) ([]*domain.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.Appointment, 0)
	for _, a := range r.s.data.appointments {
		if domain.SameDate(a.Date, date) && a.Status == domain.StatusApproved && a.RemindedAt == nil {
			result = append(result, a.Clone())
		}
	}

	sortAppointments(result)
	return result, nil
}

// MarkReminded отмечает отправку напоминания
func (r *AppointmentRepository) MarkReminded(_ context.Context, id int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if a, ok := r.s.data.appointments[id]; ok && a.RemindedAt == nil {
		t := at
		a.RemindedAt = &t
		a.UpdatedAt = r.s.timestamp()
	}
	return nil
}

func sortAppointments(list []*domain.Appointment) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].TimeSlot.Start != list[j].TimeSlot.Start {
			return list[i].TimeSlot.Start.IsBefore(list[j].TimeSlot.Start)
		}
		return list[i].ID < list[j].ID
	})
}
