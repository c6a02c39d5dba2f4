package get_schedule_day

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
)

const (
	msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	resolver ScheduleResolver
	logger   Logger
}

func NewHandler(resolver ScheduleResolver, logger Logger) *Handler {
	return &Handler{
		resolver: resolver,
		logger:   logger,
	}
}

// Handle GET /api/v1/schedule/days/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["date"]
	date, err := handlers.ParseDate(raw)
	if err != nil {
		h.logger.Warn("GET /schedule/days/{date} - Invalid date %q: %v", raw, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	day, err := h.resolver.ResolveDay(r.Context(), date)
	if err != nil {
		h.logger.Error("GET /schedule/days/{date} - Failed to resolve %s: %v", raw, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /schedule/days/{date} - Day resolved: date=%s, open=%t, capacity=%d",
		raw, day.IsOpen, day.EffectiveCapacity)
	handlers.RespondJSON(w, http.StatusOK, FromDomain(day))
}
