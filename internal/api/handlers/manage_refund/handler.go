package manage_refund

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/api/middleware"
	manageRefund "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/manage_refund"
)

const (
	msgInvalidRefundID    = "некорректный ID заявки на возврат"
	msgInvalidAction      = "неизвестное действие, ожидается approve, reject, process или confirm"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
)

type Handler struct {
	useCase ManageRefundUseCase
	logger  Logger
}

func NewHandler(useCase ManageRefundUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/refunds/{refundId}/{action}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	refundID, err := handlers.PathID(r, "refundId")
	if err != nil {
		h.logger.Warn("PATCH /refunds/{id}/{action} - Invalid refund ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRefundID)
		return
	}

	action, ok := parseAction(mux.Vars(r)["action"])
	if !ok {
		h.logger.Warn("PATCH /refunds/{id}/{action} - Unknown action %q", mux.Vars(r)["action"])
		handlers.RespondBadRequest(w, msgInvalidAction)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /refunds/{id}/{action} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ManageRefundRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("PATCH /refunds/{id}/{action} - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody+": "+handlers.ValidationMessage(err))
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &manageRefund.Request{
		RefundID: refundID,
		Action:   action,
		Actor:    actor,
		Note:     req.Note,
	})
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("PATCH /refunds/{id}/%s - Rejected: refund_id=%d, user_id=%d, error=%v",
				action, refundID, actor.UserID, err)
			return
		}
		h.logger.Error("PATCH /refunds/{id}/%s - Failed: refund_id=%d, error=%v", action, refundID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PATCH /refunds/{id}/%s - Refund updated: refund_id=%d, status=%s",
		action, refundID, result.Refund.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
