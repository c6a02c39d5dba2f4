// Package memory хранилище в памяти: локальный запуск (storage.mode = "memory") и тесты.
// Реализует те же контракты и возвращает те же ошибки, что и postgres-репозитории.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// state изменяемые транзакциями данные; копируется целиком для отката
type state struct {
	appointments map[int64]*domain.Appointment
	payments     map[int64]*domain.Payment
	refunds      map[int64]*domain.RefundRequest
	audit        []*domain.AuditEntry

	nextAppointmentID int64
	nextPaymentID     int64
	nextRefundID      int64
}

func newState() *state {
	return &state{
		appointments: make(map[int64]*domain.Appointment),
		payments:     make(map[int64]*domain.Payment),
		refunds:      make(map[int64]*domain.RefundRequest),
	}
}

func (s *state) clone() *state {
	c := &state{
		appointments:      make(map[int64]*domain.Appointment, len(s.appointments)),
		payments:          make(map[int64]*domain.Payment, len(s.payments)),
		refunds:           make(map[int64]*domain.RefundRequest, len(s.refunds)),
		audit:             append([]*domain.AuditEntry(nil), s.audit...),
		nextAppointmentID: s.nextAppointmentID,
		nextPaymentID:     s.nextPaymentID,
		nextRefundID:      s.nextRefundID,
	}
	for id, a := range s.appointments {
		c.appointments[id] = a.Clone()
	}
	for id, p := range s.payments {
		cp := *p
		c.payments[id] = &cp
	}
	for id, r := range s.refunds {
		cr := *r
		c.refunds[id] = &cr
	}
	return c
}

// Store хранилище в памяти
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	data *state

	weekly    map[int]*domain.WeeklyDefaultEntry
	overrides map[string]*domain.CalendarOverrideEntry
	plans     map[string]int
	services  map[int64]*domain.Service
	settings  *domain.RefundSetting

	patients      map[int64]*domain.Patient
	patientByUser map[int64]int64
	statuses      map[int64]*domain.PatientStatus
	hmos          map[int64]*domain.PatientHMO
	nextPatientID int64

	notifications []*domain.Notification
	now           func() time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		data:          newState(),
		weekly:        make(map[int]*domain.WeeklyDefaultEntry),
		overrides:     make(map[string]*domain.CalendarOverrideEntry),
		plans:         make(map[string]int),
		services:      make(map[int64]*domain.Service),
		patients:      make(map[int64]*domain.Patient),
		patientByUser: make(map[int64]int64),
		statuses:      make(map[int64]*domain.PatientStatus),
		hmos:          make(map[int64]*domain.PatientHMO),
		now:           time.Now,
	}
}

// SetNow подменяет источник времени для created_at/updated_at
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Appointments репозиторий записей
func (s *Store) Appointments() *AppointmentRepository { return &AppointmentRepository{s: s} }

// Payments репозиторий платежей
func (s *Store) Payments() *PaymentRepository { return &PaymentRepository{s: s} }

// Refunds репозиторий заявок на возврат
func (s *Store) Refunds() *RefundRepository { return &RefundRepository{s: s} }

// Schedule репозиторий расписания
func (s *Store) Schedule() *ScheduleRepository { return &ScheduleRepository{s: s} }

// Catalog каталог услуг
func (s *Store) Catalog() *CatalogRepository { return &CatalogRepository{s: s} }

// Settings настройки возвратов
func (s *Store) Settings() *SettingsRepository { return &SettingsRepository{s: s} }

// Audit журнал аудита
func (s *Store) Audit() *AuditRepository { return &AuditRepository{s: s} }

// Patients справочник пациентов
func (s *Store) Patients() *PatientDirectory { return &PatientDirectory{s: s} }

// Notifier получатель уведомлений, сохраняющий их для проверки
func (s *Store) Notifier() *Notifier { return &Notifier{s: s} }

// TxManager менеджер транзакций поверх хранилища
func (s *Store) TxManager() *TxManager { return &TxManager{s: s} }

type txKey struct{}

// TxManager сериализует транзакции мьютексом и откатывает состояние при ошибке
type TxManager struct {
	s *Store
}

// Do выполняет fn в транзакции
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoSerializable выполняет fn в сериализуемой транзакции
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if inTx(ctx) {
		return fn(ctx)
	}

	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	m.s.mu.RLock()
	snapshot := m.s.data.clone()
	m.s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.s.mu.Lock()
		m.s.data = snapshot
		m.s.mu.Unlock()
		return err
	}
	return nil
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

func (s *Store) timestamp() time.Time {
	return s.now()
}
