package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments"
)

// UseCase use case для получения доступных начал записи на дату
type UseCase struct {
	catalog   ServiceCatalog
	resolver  ScheduleResolver
	admission Admission
	directory PatientDirectory
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalog ServiceCatalog,
	resolver ScheduleResolver,
	admission Admission,
	directory PatientDirectory,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalog:   catalog,
		resolver:  resolver,
		admission: admission,
		directory: directory,
		logger:    logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, service=%d, date=%s",
		req.Actor.UserID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Фильтр по пациенту доступен персоналу и самому пациенту
	if req.PatientID != nil {
		if err := appointments.CheckOwnership(ctx, uc.directory, req.Actor, *req.PatientID); err != nil {
			uc.logger.Warn("GetAvailableSlots: user=%d may not filter by patient=%d: %v",
				req.Actor.UserID, *req.PatientID, err)
			return nil, err
		}
	}

	// 3. Окно бронирования (персонал может записывать на сегодня)
	date := domain.DateOnly(req.Date)
	if err := uc.admission.CheckWindow(date, req.Actor.IsStaff()); err != nil {
		uc.logger.Warn("GetAvailableSlots: date %s outside window: %v", date.Format(domain.DateFormat), err)
		return nil, err
	}

	// 4. Получаем услугу и ее длительность
	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, domain.NewNotFoundError("service", strconv.FormatInt(req.ServiceID, 10))
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	duration := domain.RoundUpToBlocks(domain.DurationMinutes(service, req.TeethCount))

	// 5. Расписание дня
	day, err := uc.resolver.ResolveDay(ctx, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve %s: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to resolve day: %v", ErrInternal, err)
	}

	response := &Response{
		Date:            date,
		ServiceID:       req.ServiceID,
		DurationMinutes: duration,
		Day:             day,
		Slots:           []domain.AvailableSlot{},
	}

	if !day.IsOpen {
		uc.logger.Info("GetAvailableSlots: clinic is closed on %s", date.Format(domain.DateFormat))
		return response, nil
	}

	// 6. Занятость даты
	committed, err := uc.admission.LoadCommitted(ctx, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to load appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to load appointments: %v", ErrInternal, err)
	}

	// 7. Перебираем сетку
	response.Slots = buildSlots(day, committed, slotFilter{
		blocks:    duration / domain.BlockMinutes,
		patientID: req.PatientID,
		notAfter:  pastCutoff(date, uc.admission.Now()),
	})

	uc.logger.Info("GetAvailableSlots: %d slots for service=%d on %s",
		len(response.Slots), req.ServiceID, date.Format(domain.DateFormat))

	return response, nil
}
