package get_schedule_grid

import (
	"net/http"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

const (
	msgInvalidTime = "некорректный формат времени open/close, ожидается HH:MM"
)

// GridResponse HTTP response model
type GridResponse struct {
	Open   string   `json:"open"`
	Close  string   `json:"close"`
	Blocks []string `json:"blocks"`
}

type Handler struct {
	logger Logger
}

func NewHandler(logger Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle GET /api/v1/schedule/grid?open=HH:MM&close=HH:MM
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	open, err := types.NewTimeStringFromString(r.URL.Query().Get("open"))
	if err != nil {
		h.logger.Warn("GET /schedule/grid - Invalid open: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}
	closeTime, err := types.NewTimeStringFromString(r.URL.Query().Get("close"))
	if err != nil {
		h.logger.Warn("GET /schedule/grid - Invalid close: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	grid := domain.BuildGrid(open, closeTime)
	blocks := make([]string, len(grid))
	for i, block := range grid {
		blocks[i] = block.String()
	}

	handlers.RespondJSON(w, http.StatusOK, GridResponse{
		Open:   open.String(),
		Close:  closeTime.String(),
		Blocks: blocks,
	})
}
