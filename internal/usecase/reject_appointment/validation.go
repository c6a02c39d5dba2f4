package reject_appointment

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return domain.NewValidationError("appointment_id", "must be positive")
	}

	note := strings.TrimSpace(req.Note)
	if note == "" {
		return domain.NewValidationError("note", "rejection note is required")
	}
	if len(note) > domain.MaxRejectionNoteLength {
		return domain.NewValidationError("note", fmt.Sprintf("must be at most %d characters", domain.MaxRejectionNoteLength))
	}

	return nil
}
