package get_schedule_day

import (
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// ClinicDayResponse HTTP response model
type ClinicDayResponse struct {
	Date              string   `json:"date"`
	IsOpen            bool     `json:"isOpen"`
	OpenTime          *string  `json:"openTime"`
	CloseTime         *string  `json:"closeTime"`
	EffectiveCapacity int      `json:"effectiveCapacity"`
	Grid              []string `json:"grid"`
}

// FromDomain конвертирует снимок дня в HTTP response
func FromDomain(day *domain.ClinicDaySnapshot) *ClinicDayResponse {
	out := &ClinicDayResponse{
		Date:              day.Date.Format(domain.DateFormat),
		IsOpen:            day.IsOpen,
		EffectiveCapacity: day.EffectiveCapacity,
		Grid:              make([]string, 0),
	}
	if day.OpenTime != nil {
		open := day.OpenTime.String()
		out.OpenTime = &open
	}
	if day.CloseTime != nil {
		closeTime := day.CloseTime.String()
		out.CloseTime = &closeTime
	}
	for _, block := range day.Grid() {
		out.Grid = append(out.Grid, block.String())
	}
	return out
}
