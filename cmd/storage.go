package main

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/appointment"
	auditRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/audit"
	catalogRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/memory"
	paymentRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/payment"
	refundRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/refund"
	scheduleRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/schedule"
	settingsRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/settings"
	notificationServiceClient "github.com/m04kA/SMC-ClinicBookingService/internal/integrations/notificationservice"
	patientServiceClient "github.com/m04kA/SMC-ClinicBookingService/internal/integrations/patientservice"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/admission"
	appointmentsService "github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments"
	scheduleService "github.com/m04kA/SMC-ClinicBookingService/internal/service/schedule"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/sideeffects"
	approveAppointmentUC "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/approve_appointment"
	cancelAppointmentUC "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/cancel_appointment"
	createAppointmentUC "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/get_available_slots"
	manageRefundUC "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/manage_refund"
	recordPaymentUC "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/record_payment"
	rejectAppointmentUC "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/reject_appointment"
	rescheduleAppointmentUC "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-ClinicBookingService/internal/worker/reminders"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/logger"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/metrics"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/txmanager"
)

type appointmentStore interface {
	approveAppointmentUC.AppointmentRepository
	cancelAppointmentUC.AppointmentRepository
	createAppointmentUC.AppointmentRepository
	manageRefundUC.AppointmentRepository
	recordPaymentUC.AppointmentRepository
	rejectAppointmentUC.AppointmentRepository
	rescheduleAppointmentUC.AppointmentRepository
	admission.AppointmentRepository
	appointmentsService.AppointmentRepository
	reminders.AppointmentRepository
}

type paymentStore interface {
	cancelAppointmentUC.PaymentRepository
	createAppointmentUC.PaymentRepository
	manageRefundUC.PaymentRepository
	recordPaymentUC.PaymentRepository
	rejectAppointmentUC.PaymentRepository
}

type refundStore interface {
	cancelAppointmentUC.RefundRepository
	manageRefundUC.RefundRepository
}

type serviceCatalog interface {
	createAppointmentUC.ServiceCatalog
	getAvailableSlotsUC.ServiceCatalog
}

type patientDirectory interface {
	createAppointmentUC.PatientDirectory
	rescheduleAppointmentUC.PatientDirectory
	appointmentsService.PatientDirectory
}

type transactionManager interface {
	approveAppointmentUC.TransactionManager
	cancelAppointmentUC.TransactionManager
	createAppointmentUC.TransactionManager
	manageRefundUC.TransactionManager
	recordPaymentUC.TransactionManager
	rejectAppointmentUC.TransactionManager
	rescheduleAppointmentUC.TransactionManager
}

// storage репозитории и внешние справочники выбранного режима
type storage struct {
	appointments appointmentStore
	payments     paymentStore
	refunds      refundStore
	schedule     scheduleService.ScheduleRepository
	catalog      serviceCatalog
	settings     cancelAppointmentUC.SettingsRepository
	audit        sideeffects.AuditLog
	patients     patientDirectory
	notifier     sideeffects.Notifier
	txManager    transactionManager
}

// newPostgresStorage репозитории поверх Postgres и HTTP-клиенты внешних сервисов
func newPostgresStorage(cfg *config.Config, db *dbmetrics.DB, m *metrics.Metrics, log *logger.Logger) *storage {
	patients := patientServiceClient.NewClient(
		cfg.PatientService.URL,
		time.Duration(cfg.PatientService.Timeout)*time.Second,
		log,
	)
	notifier := notificationServiceClient.NewClient(
		cfg.NotificationService.URL,
		cfg.NotificationService.Token,
		time.Duration(cfg.NotificationService.Timeout)*time.Second,
	)
	log.Info("Integration clients initialized (PatientService=%s timeout=%ds, NotificationService=%s timeout=%ds)",
		cfg.PatientService.URL, cfg.PatientService.Timeout, cfg.NotificationService.URL, cfg.NotificationService.Timeout)

	return &storage{
		appointments: appointmentRepo.NewRepository(db),
		payments:     paymentRepo.NewRepository(db),
		refunds:      refundRepo.NewRepository(db),
		schedule:     scheduleRepo.NewRepository(db),
		catalog:      catalogRepo.NewRepository(db),
		settings:     settingsRepo.NewRepository(db),
		audit:        auditRepo.NewRepository(db),
		patients:     patients,
		notifier:     notifier,
		txManager:    txmanager.NewTransactionManager(db, cfg.Database.TxMaxRetries, m),
	}
}

// newMemoryStorage хранилище в памяти с демонстрационными данными
func newMemoryStorage(log *logger.Logger) *storage {
	store := memory.NewStore()
	memory.Seed(store)
	log.Info("Using in-memory storage with seed data")

	return &storage{
		appointments: store.Appointments(),
		payments:     store.Payments(),
		refunds:      store.Refunds(),
		schedule:     store.Schedule(),
		catalog:      store.Catalog(),
		settings:     store.Settings(),
		audit:        store.Audit(),
		patients:     store.Patients(),
		notifier:     store.Notifier(),
		txManager:    store.TxManager(),
	}
}
