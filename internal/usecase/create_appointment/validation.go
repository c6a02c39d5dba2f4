package create_appointment

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Actor == nil {
		return domain.NewValidationError("actor", "actor is required")
	}

	switch actor := req.Actor.(type) {
	case domain.SelfService:
		if actor.UserID <= 0 {
			return domain.NewValidationError("user_id", "must be positive")
		}
	case domain.StaffAssisted:
		if actor.StaffUserID <= 0 {
			return domain.NewValidationError("staff_user_id", "must be positive")
		}
		if (actor.ExistingPatientID == nil) == (actor.NewPatient == nil) {
			return domain.NewValidationError("patient", "exactly one of patient_id and new_patient is required")
		}
		if actor.ExistingPatientID != nil && *actor.ExistingPatientID <= 0 {
			return domain.NewValidationError("patient_id", "must be positive")
		}
		if actor.NewPatient != nil && strings.TrimSpace(actor.NewPatient.FullName) == "" {
			return domain.NewValidationError("new_patient.full_name", "is required")
		}
	default:
		return domain.NewValidationError("actor", fmt.Sprintf("unsupported actor %T", req.Actor))
	}

	if req.ServiceID <= 0 {
		return domain.NewValidationError("service_id", "must be positive")
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return domain.NewValidationError("date", "is required")
	}

	if req.StartTime.IsZero() {
		return domain.NewValidationError("start_time", "is required")
	}
	if err := req.StartTime.Validate(); err != nil {
		return domain.NewValidationError("start_time", "invalid time format")
	}

	if !req.PaymentMethod.IsValid() {
		return domain.NewValidationError("payment_method", "must be one of cash, maya, hmo")
	}

	if req.TeethCount != nil && (*req.TeethCount < 1 || *req.TeethCount > domain.MaxTeethCount) {
		return domain.NewValidationError("teeth_count", fmt.Sprintf("must be between 1 and %d", domain.MaxTeethCount))
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return domain.NewValidationError("notes", fmt.Sprintf("must be at most %d characters", domain.MaxNotesLength))
	}

	return nil
}

// validatePaymentForStatus шаг 8: пациент с предупреждением платит только через maya
func validatePaymentForStatus(status *domain.PatientStatus, method domain.PaymentMethod) error {
	if status != nil && status.UnderWarning && method != domain.PaymentMethodMaya {
		return domain.NewValidationError("payment_method", "patient under warning must pay online via maya")
	}
	return nil
}

// validateHMO шаг 10: страховка указана и принадлежит пациенту
func validateHMO(hmo *domain.PatientHMO, patientID int64) error {
	if hmo == nil || hmo.PatientID != patientID {
		return domain.NewValidationError("patient_hmo_id", "insurance does not belong to the patient")
	}
	return nil
}
