package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/capacity"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// slotFilter параметры перебора начал записи
type slotFilter struct {
	blocks    int
	patientID *int64
	notAfter  *types.TimeString // Начала не позже этого времени отбрасываются (сегодня)
}

// buildSlots перебирает сетку дня и оставляет начала, для которых
// все блоки диапазона свободны и у пациента нет пересечения
func buildSlots(day *domain.ClinicDaySnapshot, appointments []*domain.Appointment, f slotFilter) []domain.AvailableSlot {
	slots := make([]domain.AvailableSlot, 0)
	if !day.IsOpen {
		return slots
	}

	ledger := capacity.NewLedger(day, appointments)
	duration := f.blocks * domain.BlockMinutes

	for _, start := range ledger.Grid() {
		if f.notAfter != nil && !start.IsAfter(*f.notAfter) {
			continue
		}

		rng, err := types.NewTimeRange(start, duration)
		if err != nil || !day.Contains(rng) {
			continue
		}

		if ledger.CanFit(start, f.blocks, nil) != nil {
			continue
		}

		if f.patientID != nil && capacity.HasOverlap(appointments, *f.patientID, day.Date, rng, nil) {
			continue
		}

		slots = append(slots, domain.AvailableSlot{
			StartTime:      start,
			EndTime:        rng.End,
			AvailableSpots: ledger.Remaining(start, f.blocks, nil),
			TotalSpots:     ledger.Capacity(),
		})
	}

	return slots
}

// pastCutoff текущее время суток, если запрошена сегодняшняя дата
func pastCutoff(date, now time.Time) *types.TimeString {
	if !domain.SameDate(date, now) {
		return nil
	}
	cutoff := types.NewTimeString(now)
	return &cutoff
}
