package list_appointments

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidParams = "некорректные параметры запроса (date=YYYY-MM-DD обязателен)"
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

// Handle GET /api/v1/appointments
// Query params: date (обязательный), includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	date, err := handlers.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /appointments - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	includeInactive := false
	if raw := r.URL.Query().Get("includeInactive"); raw != "" {
		includeInactive, err = strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("GET /appointments - Invalid includeInactive: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
	}

	// Список доступен только персоналу (проверяет сервис)
	result, err := h.service.ListByDate(r.Context(), date, includeInactive, actor)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("GET /appointments - Rejected: user_id=%d, error=%v", actor.UserID, err)
			return
		}
		h.logger.Error("GET /appointments - Failed to list appointments: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /appointments - Appointments retrieved successfully: date=%s, count=%d",
		r.URL.Query().Get("date"), result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
