package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-ClinicBookingService/internal/integrations/patientservice"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/admission"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/refcode"
)

// UseCase use case для создания записи на прием
type UseCase struct {
	appointmentRepo AppointmentRepository
	paymentRepo     PaymentRepository
	catalog         ServiceCatalog
	directory       PatientDirectory
	admission       Admission
	txManager       TransactionManager
	sideEffects     SideEffects
	metrics         Metrics
	logger          Logger

	generateCode func() (string, error)
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	paymentRepo PaymentRepository,
	catalog ServiceCatalog,
	directory PatientDirectory,
	admission Admission,
	txManager TransactionManager,
	sideEffects SideEffects,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		paymentRepo:     paymentRepo,
		catalog:         catalog,
		directory:       directory,
		admission:       admission,
		txManager:       txManager,
		sideEffects:     sideEffects,
		metrics:         metrics,
		logger:          logger,
		generateCode:    refcode.Generate,
	}
}

// Execute выполняет use case создания записи
// Шаги 1-10 выполняются до транзакции и прерываются на первой ошибке.
// В транзакции дата блокируется, вместимость и пересечения проверяются повторно
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: service=%d, date=%s, time=%s, method=%s, staffAssisted=%t",
		req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime, req.PaymentMethod,
		req.Actor != nil && req.Actor.IsStaffAssisted())

	// 0. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 1. Дата в окне бронирования
	if err := uc.admission.CheckWindow(req.Date, req.Actor.IsStaffAssisted()); err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return nil, err
	}

	// 2-3. Клиника открыта, начало на сетке
	day, err := uc.admission.OpenStart(ctx, req.Date, req.StartTime)
	if err != nil {
		uc.logger.Warn("CreateAppointment: start rejected: %v", err)
		return nil, err
	}

	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, domain.NewNotFoundError("service", strconv.FormatInt(req.ServiceID, 10))
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Прием помещается в часы работы
	slot, err := uc.admission.FitSlot(day, req.StartTime, domain.EstimatedMinutes(service, req.TeethCount))
	if err != nil {
		uc.logger.Warn("CreateAppointment: slot rejected: %v", err)
		return nil, err
	}

	// 5. Вместимость всех блоков
	if err := uc.admission.CheckCapacity(ctx, slot, nil, admission.StageBooking); err != nil {
		return nil, err
	}

	// 6. Определяем пациента; nil - новая карточка, заводится после всех проверок
	patient, err := uc.resolvePatient(ctx, req.Actor)
	if err != nil {
		return nil, err
	}

	var patientID int64
	if patient != nil {
		patientID = patient.ID
		if err := uc.checkPatient(ctx, patientID, req.PaymentMethod, slot); err != nil {
			return nil, err
		}
	}

	// 10. Страховка только для hmo
	hmoID, err := uc.resolveHMO(ctx, req, patientID)
	if err != nil {
		return nil, err
	}

	if patient == nil {
		patient, err = uc.registerPatient(ctx, req.Actor)
		if err != nil {
			return nil, err
		}
	}

	var (
		created *domain.Appointment
		payment *domain.Payment
	)

	// 11. Создаем запись в сериализуемой транзакции под блокировкой даты
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created, payment = nil, nil

		if err := uc.appointmentRepo.LockDate(txCtx, slot.Date); err != nil {
			uc.logger.Error("CreateAppointment: failed to lock date %s: %v", slot.Date.Format(domain.DateFormat), err)
			return fmt.Errorf("%w: failed to lock date: %w", ErrInternal, err)
		}

		// 11.1. Повторная проверка под блокировкой
		committed, err := uc.admission.LoadCommitted(txCtx, slot.Date)
		if err != nil {
			return err
		}
		if err := uc.admission.CheckCapacityIn(committed, slot, nil, admission.StageBooking); err != nil {
			return err
		}
		if err := admission.CheckOverlapIn(committed, patient.ID, slot, nil); err != nil {
			return err
		}

		// 11.2. Сохраняем запись с уникальным кодом
		initialStatus := domain.StatusPending
		if req.Actor.IsStaffAssisted() {
			initialStatus = domain.StatusApproved
		}

		appointment := &domain.Appointment{
			PatientID:     patient.ID,
			ServiceID:     service.ID,
			PatientHMOID:  hmoID,
			Date:          slot.Date,
			TimeSlot:      slot.Range,
			Status:        initialStatus,
			PaymentMethod: req.PaymentMethod,
			PaymentStatus: domain.InitialPaymentStatus(req.PaymentMethod),
			TeethCount:    req.TeethCount,
			Notes:         req.Notes,
		}

		created, err = uc.insertWithUniqueCode(txCtx, appointment)
		if err != nil {
			return err
		}

		// 11.3. Для maya сразу заводим платеж в ожидании оплаты
		if req.PaymentMethod == domain.PaymentMethodMaya {
			payment, err = uc.paymentRepo.Create(txCtx, &domain.Payment{
				AppointmentID: &created.ID,
				Method:        domain.PaymentMethodMaya,
				Status:        domain.PaymentAwaitingPayment,
				AmountDue:     service.Price,
			})
			if err != nil {
				uc.logger.Error("CreateAppointment: failed to create payment: %v", err)
				return fmt.Errorf("%w: failed to create payment: %w", ErrInternal, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: created appointment id=%d code=%s status=%s slot=%s",
		created.ID, created.ReferenceCode, created.Status, created.TimeSlot)
	uc.metrics.IncTransition(domain.ActionBook)

	uc.sideEffects.AppointmentChanged(ctx, domain.ActionBook, req.Actor.AuditActor(), nil, created, &domain.Notification{
		Audience:  domain.AudienceStaff,
		PatientID: &created.PatientID,
		Event:     "appointment.booked",
		Subject:   "New appointment",
		Body: fmt.Sprintf("%s booked for %s %s (code %s)",
			service.Name, created.Date.Format(domain.DateFormat), created.TimeSlot, created.ReferenceCode),
		Data: map[string]string{
			"appointmentId": strconv.FormatInt(created.ID, 10),
			"referenceCode": created.ReferenceCode,
			"status":        string(created.Status),
		},
	})

	return &Response{
		Appointment: created,
		Payment:     payment,
		Service:     service,
	}, nil
}

// resolvePatient шаг 6: пациент по пользователю или по ID
// Для новой карточки от персонала возвращает nil
func (uc *UseCase) resolvePatient(ctx context.Context, actor domain.BookingActor) (*domain.Patient, error) {
	switch a := actor.(type) {
	case domain.SelfService:
		patient, err := uc.directory.ResolveByUser(ctx, a.UserID)
		if err != nil {
			if errors.Is(err, patientservice.ErrPatientNotFound) {
				uc.logger.Warn("CreateAppointment: no patient for user=%d", a.UserID)
				return nil, domain.NewNotFoundError("patient", "user "+strconv.FormatInt(a.UserID, 10))
			}
			uc.logger.Error("CreateAppointment: failed to resolve patient of user=%d: %v", a.UserID, err)
			return nil, fmt.Errorf("%w: failed to resolve patient: %v", ErrInternal, err)
		}
		return patient, nil

	case domain.StaffAssisted:
		if a.ExistingPatientID != nil {
			patient, err := uc.directory.GetPatient(ctx, *a.ExistingPatientID)
			if err != nil {
				if errors.Is(err, patientservice.ErrPatientNotFound) {
					uc.logger.Warn("CreateAppointment: patient id=%d not found", *a.ExistingPatientID)
					return nil, domain.NewNotFoundError("patient", strconv.FormatInt(*a.ExistingPatientID, 10))
				}
				uc.logger.Error("CreateAppointment: failed to get patient id=%d: %v", *a.ExistingPatientID, err)
				return nil, fmt.Errorf("%w: failed to get patient: %v", ErrInternal, err)
			}
			return patient, nil
		}

		return nil, nil
	}

	return nil, domain.NewValidationError("actor", fmt.Sprintf("unsupported actor %T", actor))
}

// checkPatient шаги 7-9 для существующего пациента
func (uc *UseCase) checkPatient(ctx context.Context, patientID int64, method domain.PaymentMethod, slot *admission.Slot) error {
	// 7. Блокировки пациента
	status, err := uc.directory.GetStatus(ctx, patientID)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get status of patient id=%d: %v", patientID, err)
		return fmt.Errorf("%w: failed to get patient status: %v", ErrInternal, err)
	}
	if err := admission.CheckPatientStatus(status); err != nil {
		uc.logger.Warn("CreateAppointment: patient id=%d is blocked: %v", patientID, err)
		return err
	}

	// 8. Предупреждение ограничивает способ оплаты
	if err := validatePaymentForStatus(status, method); err != nil {
		uc.logger.Warn("CreateAppointment: patient id=%d under warning chose %s", patientID, method)
		return err
	}

	// 9. Пересечения с другими записями пациента
	if err := uc.admission.CheckOverlap(ctx, patientID, slot, nil); err != nil {
		uc.logger.Warn("CreateAppointment: patient id=%d overlap: %v", patientID, err)
		return err
	}
	return nil
}

// registerPatient заводит карточку нового пациента, когда все проверки пройдены
func (uc *UseCase) registerPatient(ctx context.Context, actor domain.BookingActor) (*domain.Patient, error) {
	staff, ok := actor.(domain.StaffAssisted)
	if !ok || staff.NewPatient == nil {
		return nil, domain.NewValidationError("actor", fmt.Sprintf("unsupported actor %T", actor))
	}

	patient, err := uc.directory.CreatePatient(ctx, *staff.NewPatient)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to register patient: %v", err)
		return nil, fmt.Errorf("%w: failed to register patient: %v", ErrInternal, err)
	}
	uc.logger.Info("CreateAppointment: registered patient id=%d by staff user=%d", patient.ID, staff.StaffUserID)
	return patient, nil
}

// resolveHMO шаг 10: для hmo страховка обязательна и должна принадлежать пациенту,
// для остальных способов оплаты всегда nil
func (uc *UseCase) resolveHMO(ctx context.Context, req *Request, patientID int64) (*int64, error) {
	if req.PaymentMethod != domain.PaymentMethodHMO {
		return nil, nil
	}
	if req.PatientHMOID == nil {
		uc.logger.Warn("CreateAppointment: hmo payment without patient_hmo_id")
		return nil, domain.NewValidationError("patient_hmo_id", "is required for hmo payment")
	}

	hmo, err := uc.directory.GetHMO(ctx, *req.PatientHMOID)
	if err != nil && !errors.Is(err, patientservice.ErrHMONotFound) {
		uc.logger.Error("CreateAppointment: failed to get hmo id=%d: %v", *req.PatientHMOID, err)
		return nil, fmt.Errorf("%w: failed to get hmo: %v", ErrInternal, err)
	}
	if err := validateHMO(hmo, patientID); err != nil {
		uc.logger.Warn("CreateAppointment: hmo id=%d rejected for patient id=%d", *req.PatientHMOID, patientID)
		return nil, err
	}

	id := hmo.ID
	return &id, nil
}

// insertWithUniqueCode сохраняет запись, подбирая код при коллизии
func (uc *UseCase) insertWithUniqueCode(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	for attempt := 1; attempt <= domain.MaxReferenceCodeAttempts; attempt++ {
		code, err := uc.generateCode()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to generate reference code: %v", ErrInternal, err)
		}
		appointment.ReferenceCode = code

		created, err := uc.appointmentRepo.Create(ctx, appointment)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, appointmentRepo.ErrDuplicateReferenceCode) {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return nil, fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}
		uc.logger.Warn("CreateAppointment: reference code collision, attempt %d", attempt)
	}

	uc.logger.Error("CreateAppointment: reference code attempts exhausted")
	return nil, fmt.Errorf("%w: %w", ErrInternal, ErrReferenceCodeExhausted)
}
