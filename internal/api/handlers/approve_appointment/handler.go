package approve_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments/models"
	approveAppointment "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/approve_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgMissingUserID        = "отсутствует ID пользователя"
)

type Handler struct {
	useCase ApproveAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase ApproveAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/approve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.PathID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/approve - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/{id}/approve - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &approveAppointment.Request{
		AppointmentID: appointmentID,
		Actor:         actor,
	})
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("PATCH /appointments/{id}/approve - Rejected: appointment_id=%d, error=%v", appointmentID, err)
			return
		}
		h.logger.Error("PATCH /appointments/{id}/approve - Failed to approve: appointment_id=%d, error=%v", appointmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PATCH /appointments/{id}/approve - Appointment approved: appointment_id=%d, user_id=%d",
		appointmentID, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainAppointment(result.Appointment))
}
