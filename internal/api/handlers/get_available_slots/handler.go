package get_available_slots

import (
	"net/http"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
)

const (
	msgInvalidParams = "некорректные параметры запроса (date=YYYY-MM-DD, serviceId обязательны)"
	msgMissingUserID = "отсутствует ID пользователя"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/available-slots
// Query params: date, serviceId (обязательные), patientId, teethCount
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /available-slots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	useCaseReq, err := ToUseCaseRequest(r.URL.Query(), actor)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("GET /available-slots - Rejected: service_id=%d, error=%v", useCaseReq.ServiceID, err)
			return
		}
		h.logger.Error("GET /available-slots - Failed to get slots: service_id=%d, error=%v", useCaseReq.ServiceID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /available-slots - Slots retrieved successfully: service_id=%d, slots_count=%d",
		useCaseReq.ServiceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
