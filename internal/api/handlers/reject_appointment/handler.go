package reject_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	rejectAppointment "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/reject_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingUserID        = "отсутствует ID пользователя"
)

type Handler struct {
	useCase RejectAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase RejectAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/reject
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.PathID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reject - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/{id}/reject - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RejectAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reject - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody+": "+handlers.ValidationMessage(err))
		return
	}

	result, err := h.useCase.Execute(r.Context(), &rejectAppointment.Request{
		AppointmentID: appointmentID,
		Actor:         actor,
		Note:          req.Note,
	})
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("PATCH /appointments/{id}/reject - Rejected: appointment_id=%d, error=%v", appointmentID, err)
			return
		}
		h.logger.Error("PATCH /appointments/{id}/reject - Failed to reject: appointment_id=%d, error=%v", appointmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PATCH /appointments/{id}/reject - Appointment rejected: appointment_id=%d, user_id=%d",
		appointmentID, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
