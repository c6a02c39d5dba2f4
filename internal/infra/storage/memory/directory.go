package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/integrations/patientservice"
)

// PatientDirectory справочник пациентов в памяти
type PatientDirectory struct {
	s *Store
}

// ResolveByUser пациент по ID пользователя
func (d *PatientDirectory) ResolveByUser(_ context.Context, userID int64) (*domain.Patient, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	id, ok := d.s.patientByUser[userID]
	if !ok {
		return nil, patientservice.ErrPatientNotFound
	}
	cp := *d.s.patients[id]
	return &cp, nil
}

// GetPatient пациент по ID
func (d *PatientDirectory) GetPatient(_ context.Context, patientID int64) (*domain.Patient, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	p, ok := d.s.patients[patientID]
	if !ok {
		return nil, patientservice.ErrPatientNotFound
	}
	cp := *p
	return &cp, nil
}

// CreatePatient регистрирует пациента
func (d *PatientDirectory) CreatePatient(_ context.Context, fields domain.NewPatientFields) (*domain.Patient, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	d.s.nextPatientID++
	p := &domain.Patient{
		ID:       d.s.nextPatientID,
		FullName: fields.FullName,
		Phone:    fields.Phone,
		Email:    fields.Email,
	}
	d.s.patients[p.ID] = p

	cp := *p
	return &cp, nil
}

// GetStatus ограничения пациента (без записи - ограничений нет)
func (d *PatientDirectory) GetStatus(_ context.Context, patientID int64) (*domain.PatientStatus, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	if _, ok := d.s.patients[patientID]; !ok {
		return nil, patientservice.ErrPatientNotFound
	}
	if st, ok := d.s.statuses[patientID]; ok {
		cp := *st
		return &cp, nil
	}
	return &domain.PatientStatus{}, nil
}

// GetHMO страховка по ID
func (d *PatientDirectory) GetHMO(_ context.Context, hmoID int64) (*domain.PatientHMO, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	h, ok := d.s.hmos[hmoID]
	if !ok {
		return nil, patientservice.ErrHMONotFound
	}
	cp := *h
	return &cp, nil
}

// AddPatient добавляет пациента; userID может быть nil (пациент без аккаунта)
func (s *Store) AddPatient(p domain.Patient) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.patients[p.ID] = &p
	if p.UserID != nil {
		s.patientByUser[*p.UserID] = p.ID
	}
	if p.ID > s.nextPatientID {
		s.nextPatientID = p.ID
	}
}

// SetPatientStatus задает ограничения пациента
func (s *Store) SetPatientStatus(patientID int64, status domain.PatientStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[patientID] = &status
}

// AddHMO добавляет страховку
func (s *Store) AddHMO(h domain.PatientHMO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hmos[h.ID] = &h
}

// AuditRepository журнал аудита в памяти
type AuditRepository struct {
	s *Store
}

// Append добавляет запись
func (r *AuditRepository) Append(_ context.Context, entry *domain.AuditEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	cp := *entry
	r.s.data.audit = append(r.s.data.audit, &cp)
	return nil
}

// Entries все записи журнала
func (r *AuditRepository) Entries() []*domain.AuditEntry {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]*domain.AuditEntry(nil), r.s.data.audit...)
}

// Notifier сохраняет уведомления вместо отправки
type Notifier struct {
	s *Store
}

// Send сохраняет уведомление
func (n *Notifier) Send(_ context.Context, notification *domain.Notification) error {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()

	cp := *notification
	n.s.notifications = append(n.s.notifications, &cp)
	return nil
}

// Sent отправленные уведомления
func (n *Notifier) Sent() []*domain.Notification {
	n.s.mu.RLock()
	defer n.s.mu.RUnlock()
	return append([]*domain.Notification(nil), n.s.notifications...)
}
