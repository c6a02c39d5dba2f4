package memory

import (
	"context"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	refundRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/refund"
)

// RefundRepository заявки на возврат
type RefundRepository struct {
	s *Store
}

// Create сохраняет заявку
func (r *RefundRepository) Create(_ context.Context, req *domain.RefundRequest) (*domain.RefundRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.data.nextRefundID++
	req.ID = r.s.data.nextRefundID
	cp := *req
	r.s.data.refunds[req.ID] = &cp

	return req, nil
}

// GetByID получает заявку по ID
func (r *RefundRepository) GetByID(_ context.Context, id int64) (*domain.RefundRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	req, ok := r.s.data.refunds[id]
	if !ok {
		return nil, refundRepo.ErrRefundNotFound
	}
	cp := *req
	return &cp, nil
}

// Update сохраняет изменяемые поля заявки
func (r *RefundRepository) Update(_ context.Context, req *domain.RefundRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.data.refunds[req.ID]
	if !ok {
		return refundRepo.ErrRefundNotFound
	}
	stored.Status = req.Status
	stored.AdminNote = req.AdminNote
	stored.ProcessedAt = req.ProcessedAt
	stored.PatientConfirmedAt = req.PatientConfirmedAt
	return nil
}

// ListByAppointment заявки по записи (для проверок)
func (r *RefundRepository) ListByAppointment(_ context.Context, appointmentID int64) []*domain.RefundRequest {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.RefundRequest, 0)
	for id := int64(1); id <= r.s.data.nextRefundID; id++ {
		if req, ok := r.s.data.refunds[id]; ok && req.AppointmentID == appointmentID {
			cp := *req
			result = append(result, &cp)
		}
	}
	return result
}
