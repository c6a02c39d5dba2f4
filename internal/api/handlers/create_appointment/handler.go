package create_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректный формат даты (YYYY-MM-DD) или времени (HH:MM)"
	msgMissingUserID      = "отсутствует ID пользователя"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody+": "+handlers.ValidationMessage(err))
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(actor)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("POST /appointments - Rejected: user_id=%d, service_id=%d, error=%v",
				actor.UserID, req.ServiceID, err)
			return
		}
		h.logger.Error("POST /appointments - Failed to create appointment: user_id=%d, service_id=%d, error=%v",
			actor.UserID, req.ServiceID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, reference=%s, user_id=%d",
		result.Appointment.ID, result.Appointment.ReferenceCode, actor.UserID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
