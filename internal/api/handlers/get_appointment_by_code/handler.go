package get_appointment_by_code

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
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

// Handle GET /api/v1/appointments/by-code/{code}
// Код сравнивается без учета регистра
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments/by-code/{code} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	appointment, err := h.service.GetByReferenceCode(r.Context(), code, actor)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("GET /appointments/by-code/{code} - Rejected: code=%q, user_id=%d, error=%v",
				code, actor.UserID, err)
			return
		}
		h.logger.Error("GET /appointments/by-code/{code} - Failed to get appointment: code=%q, error=%v", code, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /appointments/by-code/{code} - Appointment retrieved successfully: appointment_id=%d, user_id=%d",
		appointment.ID, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, appointment)
}
