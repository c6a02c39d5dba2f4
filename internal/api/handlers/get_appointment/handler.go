package get_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgMissingUserID        = "отсутствует ID пользователя"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments/{appointmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.PathID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("GET /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Сервис сам проверит права доступа
	appointment, err := h.service.GetByID(r.Context(), appointmentID, actor)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("GET /appointments/{id} - Rejected: appointment_id=%d, user_id=%d, error=%v",
				appointmentID, actor.UserID, err)
			return
		}
		h.logger.Error("GET /appointments/{id} - Failed to get appointment: appointment_id=%d, error=%v", appointmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /appointments/{id} - Appointment retrieved successfully: appointment_id=%d, user_id=%d",
		appointmentID, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, appointment)
}
