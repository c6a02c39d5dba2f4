package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	paymentRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/payment"
)

// PaymentRepository платежи
type PaymentRepository struct {
	s *Store
}

// Create сохраняет платеж
func (r *PaymentRepository) Create(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.data.nextPaymentID++
	now := r.s.timestamp()

	p.ID = r.s.data.nextPaymentID
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	r.s.data.payments[p.ID] = &cp

	return p, nil
}

// GetByID получает платеж по ID
func (r *PaymentRepository) GetByID(_ context.Context, id int64) (*domain.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.data.payments[id]
	if !ok {
		return nil, paymentRepo.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

// GetPaidByAppointment последний оплаченный платеж записи
func (r *PaymentRepository) GetPaidByAppointment(ctx context.Context, appointmentID int64) (*domain.Payment, error) {
	payments, err := r.ListByAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	for i := len(payments) - 1; i >= 0; i-- {
		if payments[i].Status == domain.PaymentPaid {
			return payments[i], nil
		}
	}
	return nil, paymentRepo.ErrPaymentNotFound
}

// ListByAppointment платежи записи в порядке создания
func (r *PaymentRepository) ListByAppointment(_ context.Context, appointmentID int64) ([]*domain.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.Payment, 0)
	for _, p := range r.s.data.payments {
		if p.AppointmentID != nil && *p.AppointmentID == appointmentID {
			cp := *p
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// CancelOutstanding отменяет неоплаченные платежи записи
func (r *PaymentRepository) CancelOutstanding(_ context.Context, appointmentID int64, at time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var affected int64
	for _, p := range r.s.data.payments {
		if p.AppointmentID == nil || *p.AppointmentID != appointmentID || !p.IsOutstanding() {
			continue
		}
		t := at
		p.Status = domain.PaymentCancelled
		p.CancelledAt = &t
		p.UpdatedAt = r.s.timestamp()
		affected++
	}
	return affected, nil
}

// MarkPaid фиксирует поступление оплаты
func (r *PaymentRepository) MarkPaid(_ context.Context, id int64, amount float64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.data.payments[id]
	if !ok {
		return paymentRepo.ErrPaymentNotFound
	}
	t := at
	p.Status = domain.PaymentPaid
	p.AmountPaid = amount
	p.PaidAt = &t
	p.UpdatedAt = r.s.timestamp()
	return nil
}

// UpdateStatus меняет статус платежа
func (r *PaymentRepository) UpdateStatus(_ context.Context, id int64, status domain.PaymentStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.data.payments[id]
	if !ok {
		return paymentRepo.ErrPaymentNotFound
	}
	p.Status = status
	p.UpdatedAt = r.s.timestamp()
	return nil
}
