package memory

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/schedule"
)

func dateKey(t time.Time) string {
	return t.Format(domain.DateFormat)
}

// ScheduleRepository расписание клиники
type ScheduleRepository struct {
	s *Store
}

// GetOverride исключение на дату
func (r *ScheduleRepository) GetOverride(_ context.Context, date time.Time) (*domain.CalendarOverrideEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.overrides[dateKey(date)]
	if !ok {
		return nil, scheduleRepo.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

// GetWeeklyDefault расписание дня недели
func (r *ScheduleRepository) GetWeeklyDefault(_ context.Context, weekday int) (*domain.WeeklyDefaultEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	w, ok := r.s.weekly[weekday]
	if !ok {
		return nil, scheduleRepo.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

// GetCapacityPlan план вместимости на дату
func (r *ScheduleRepository) GetCapacityPlan(_ context.Context, date time.Time) (*domain.CapacityPlanEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.plans[dateKey(date)]
	if !ok {
		return nil, scheduleRepo.ErrNotFound
	}
	return &domain.CapacityPlanEntry{Date: domain.DateOnly(date), Capacity: c}, nil
}

// SetWeeklyDefault задает расписание дня недели
func (s *Store) SetWeeklyDefault(entry domain.WeeklyDefaultEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weekly[entry.Weekday] = &entry
}

// SetOverride задает исключение на дату
func (s *Store) SetOverride(entry domain.CalendarOverrideEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.Date = domain.DateOnly(entry.Date)
	s.overrides[dateKey(entry.Date)] = &entry
}

// SetCapacityPlan задает вместимость на дату
func (s *Store) SetCapacityPlan(date time.Time, capacity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[dateKey(date)] = capacity
}

// CatalogRepository каталог услуг
type CatalogRepository struct {
	s *Store
}

// GetService услуга по ID
func (r *CatalogRepository) GetService(_ context.Context, id int64) (*domain.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	svc, ok := r.s.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	cp := *svc
	return &cp, nil
}

// AddService добавляет услугу в каталог
func (s *Store) AddService(svc domain.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[svc.ID] = &svc
}

// SettingsRepository настройки возвратов
type SettingsRepository struct {
	s *Store
}

// GetRefundSetting текущие настройки или значения по умолчанию
func (r *SettingsRepository) GetRefundSetting(_ context.Context) (domain.RefundSetting, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if r.s.settings == nil {
		return domain.DefaultRefundSetting(), nil
	}
	return *r.s.settings, nil
}

// SetRefundSetting задает настройки возвратов
func (s *Store) SetRefundSetting(setting domain.RefundSetting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = &setting
}
