package cancel_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	cancelAppointment "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/cancel_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingUserID        = "отсутствует ID пользователя"
)

type Handler struct {
	useCase CancelAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CancelAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.PathID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CancelAppointmentRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody+": "+handlers.ValidationMessage(err))
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &cancelAppointment.Request{
		AppointmentID: appointmentID,
		Actor:         actor,
		Reason:        req.CancellationReason,
	})
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("PATCH /appointments/{id}/cancel - Rejected: appointment_id=%d, user_id=%d, error=%v",
				appointmentID, actor.UserID, err)
			return
		}
		h.logger.Error("PATCH /appointments/{id}/cancel - Failed to cancel: appointment_id=%d, error=%v", appointmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PATCH /appointments/{id}/cancel - Appointment cancelled: appointment_id=%d, user_id=%d, refund=%t",
		appointmentID, actor.UserID, result.RefundRequestCreated)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
