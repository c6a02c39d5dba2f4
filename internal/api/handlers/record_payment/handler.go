package record_payment

import (
	"net/http"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	recordPayment "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/record_payment"
)

const (
	msgInvalidPaymentID   = "некорректный ID платежа"
	msgInvalidRequestBody = "некорректное тело запроса"
)

type Handler struct {
	useCase RecordPaymentUseCase
	logger  Logger
}

func NewHandler(useCase RecordPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/internal/payments/{paymentId}/paid
// Вызывается платежным шлюзом, не проходит через Auth
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	paymentID, err := handlers.PathID(r, "paymentId")
	if err != nil {
		h.logger.Warn("POST /internal/payments/{id}/paid - Invalid payment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPaymentID)
		return
	}

	var req RecordPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /internal/payments/{id}/paid - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody+": "+handlers.ValidationMessage(err))
		return
	}

	result, err := h.useCase.Execute(r.Context(), &recordPayment.Request{
		PaymentID: paymentID,
		Amount:    req.Amount,
	})
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("POST /internal/payments/{id}/paid - Rejected: payment_id=%d, error=%v", paymentID, err)
			return
		}
		h.logger.Error("POST /internal/payments/{id}/paid - Failed: payment_id=%d, error=%v", paymentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /internal/payments/{id}/paid - Payment recorded: payment_id=%d, amount=%.2f",
		paymentID, req.Amount)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
