package get_available_slots

import (
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID <= 0 {
		return domain.NewValidationError("service_id", "must be positive")
	}

	if req.Date.IsZero() {
		return domain.NewValidationError("date", "is required")
	}

	if req.PatientID != nil && *req.PatientID <= 0 {
		return domain.NewValidationError("patient_id", "must be positive")
	}

	if req.TeethCount != nil && *req.TeethCount < 1 {
		return domain.NewValidationError("teeth_count", "must be at least 1")
	}

	return nil
}
