package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	approveAppointmentHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/approve_appointment"
	cancelAppointmentHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/get_appointment"
	getAppointmentByCodeHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/get_appointment_by_code"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/get_available_slots"
	getScheduleDayHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/get_schedule_day"
	getScheduleGridHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/get_schedule_grid"
	listAppointmentsHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/list_appointments"
	manageRefundHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/manage_refund"
	recordPaymentHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/record_payment"
	rejectAppointmentHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/reject_appointment"
	rescheduleAppointmentHandler "github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers/reschedule_appointment"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/config"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/admission"
	appointmentsService "github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments"
	refundService "github.com/m04kA/SMC-ClinicBookingService/internal/service/refund"
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
	"github.com/m04kA/SMC-ClinicBookingService/pkg/clock"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/logger"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/metrics"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ClinicBookingService...")
	log.Info("Configuration loaded from config.toml (storage=%s)", cfg.Storage.Mode)

	location, err := cfg.Clinic.Location()
	if err != nil {
		log.Fatal("Failed to load clinic timezone %q: %v", cfg.Clinic.Timezone, err)
	}
	clk := clock.Real{Location: location}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем хранилище
	var store *storage
	switch cfg.Storage.Mode {
	case config.StorageMemory:
		store = newMemoryStorage(log)
	default:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		// Проверяем соединение
		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		wrappedDB := dbmetrics.Wrap(db, metricsCollector)
		if cfg.Metrics.Enabled {
			go wrappedDB.CollectPoolStats(15*time.Second, stopMetricsCh)
			log.Info("Database metrics collection started")
		}

		store = newPostgresStorage(cfg, wrappedDB, metricsCollector, log)
	}

	// Инициализируем сервисы
	feePolicy, err := refundPolicy(cfg.Refund)
	if err != nil {
		log.Fatal("Invalid refund policy: %v", err)
	}
	calculator := refundService.NewCalculator(feePolicy, location)
	log.Info("Refund fee policy: %s", calculator.PolicyName())

	resolver := scheduleService.NewResolver(store.schedule, cfg.Clinic.DefaultCapacity, log)
	admissionSvc := admission.NewService(
		resolver,
		store.appointments,
		clk,
		cfg.Clinic.BookingWindowDays,
		metricsCollector,
		log,
	)
	dispatcher := sideeffects.NewDispatcher(
		store.notifier,
		store.audit,
		clk,
		time.Duration(cfg.Clinic.SideEffectTimeout)*time.Second,
		metricsCollector,
		log,
	)
	appointmentSvc := appointmentsService.NewService(store.appointments, store.patients, log)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		store.catalog,
		resolver,
		admissionSvc,
		store.patients,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		store.appointments,
		store.payments,
		store.catalog,
		store.patients,
		admissionSvc,
		store.txManager,
		dispatcher,
		metricsCollector,
		log,
	)
	approveAppointmentUseCase := approveAppointmentUC.NewUseCase(
		store.appointments,
		admissionSvc,
		store.txManager,
		dispatcher,
		metricsCollector,
		log,
	)
	rejectAppointmentUseCase := rejectAppointmentUC.NewUseCase(
		store.appointments,
		store.payments,
		store.txManager,
		dispatcher,
		clk,
		metricsCollector,
		log,
	)
	cancelAppointmentUseCase := cancelAppointmentUC.NewUseCase(
		store.appointments,
		store.payments,
		store.refunds,
		store.settings,
		store.patients,
		calculator,
		store.txManager,
		dispatcher,
		clk,
		metricsCollector,
		log,
	)
	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		store.appointments,
		store.patients,
		admissionSvc,
		store.txManager,
		dispatcher,
		metricsCollector,
		log,
	)
	manageRefundUseCase := manageRefundUC.NewUseCase(
		store.refunds,
		store.appointments,
		store.payments,
		store.patients,
		store.txManager,
		dispatcher,
		clk,
		log,
	)
	recordPaymentUseCase := recordPaymentUC.NewUseCase(
		store.payments,
		store.appointments,
		store.txManager,
		dispatcher,
		clk,
		log,
	)

	// Инициализируем handlers
	getScheduleDay := getScheduleDayHandler.NewHandler(resolver, log)
	getScheduleGrid := getScheduleGridHandler.NewHandler(log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	getAppointmentByCode := getAppointmentByCodeHandler.NewHandler(appointmentSvc, log)
	approveAppointment := approveAppointmentHandler.NewHandler(approveAppointmentUseCase, log)
	rejectAppointment := rejectAppointmentHandler.NewHandler(rejectAppointmentUseCase, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(cancelAppointmentUseCase, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log)
	manageRefund := manageRefundHandler.NewHandler(manageRefundUseCase, log)
	recordPayment := recordPaymentHandler.NewHandler(recordPaymentUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Расписание клиники и сетка слотов
	api.HandleFunc("/schedule/days/{date}", getScheduleDay.Handle).Methods(http.MethodGet)
	api.HandleFunc("/schedule/grid", getScheduleGrid.Handle).Methods(http.MethodGet)

	// Callback платежного провайдера
	api.HandleFunc("/internal/payments/{paymentId:[0-9]+}/paid", recordPayment.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Свободные слоты
	protected.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// --- Записи на прием ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/by-code/{code}", getAppointmentByCode.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId:[0-9]+}", getAppointment.Handle).Methods(http.MethodGet)

	// --- Переходы статусов ---
	protected.HandleFunc("/appointments/{appointmentId:[0-9]+}/approve", approveAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId:[0-9]+}/reject", rejectAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId:[0-9]+}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId:[0-9]+}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)

	// --- Возвраты ---
	protected.HandleFunc("/refunds/{refundId:[0-9]+}/{action}", manageRefund.Handle).Methods(http.MethodPatch)

	// Планировщик напоминаний
	if cfg.Reminders.Enabled {
		worker := reminders.NewWorker(store.appointments, dispatcher, clk, cfg.Reminders.DaysAhead, metricsCollector, log)
		scheduler, err := worker.Start(cfg.Reminders.Schedule)
		if err != nil {
			log.Fatal("Failed to start reminders: %v", err)
		}
		defer func() {
			<-scheduler.Stop().Done()
			log.Info("Reminders scheduler stopped")
		}()
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// refundPolicy политика комиссии из секции [refund]
func refundPolicy(cfg config.RefundConfig) (refundService.FeePolicy, error) {
	tiers := make([]refundService.Tier, 0, len(cfg.Tiers))
	for _, t := range cfg.Tiers {
		tiers = append(tiers, refundService.Tier{WithinHours: t.WithinHours, Rate: t.Rate})
	}
	return refundService.NewPolicy(cfg.FeePolicy, cfg.FlatAmount, cfg.Rate, tiers)
}
