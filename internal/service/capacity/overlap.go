package capacity

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// HasOverlap проверяет, есть ли у пациента на дату запись, пересекающаяся с rng
// Учитываются только занимающие вместимость статусы. Интервалы полуоткрытые:
// "09:00-09:30" и "09:30-10:00" не пересекаются.
// Не зависит от Ledger: проверка идет по одному пациенту
func HasOverlap(
	appointments []*domain.Appointment,
	patientID int64,
	date time.Time,
	rng types.TimeRange,
	excludeID *int64,
) bool {
	_, found := FindOverlap(appointments, patientID, date, rng, excludeID)
	return found
}

// FindOverlap как HasOverlap, но возвращает найденную запись
func FindOverlap(
	appointments []*domain.Appointment,
	patientID int64,
	date time.Time,
	rng types.TimeRange,
	excludeID *int64,
) (*domain.Appointment, bool) {
	for _, a := range appointments {
		if a.PatientID != patientID || !domain.SameDate(a.Date, date) {
			continue
		}
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if !a.CountsTowardCapacity() {
			continue
		}
		if a.TimeSlot.Overlaps(rng) {
			return a, true
		}
	}
	return nil, false
}
