package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/integrations/patientservice"
)

// BlockTypeAccess block_type ошибки доступа к чужой записи
const BlockTypeAccess = "access"

// ErrNotOwner пациент обращается к чужой записи
var ErrNotOwner = domain.NewAuthorizationError(BlockTypeAccess, "appointment belongs to another patient")

// CheckOwnership персонал имеет доступ к любой записи,
// пациент - только к записям своей карточки
func CheckOwnership(ctx context.Context, directory PatientDirectory, actor domain.Actor, patientID int64) error {
	if actor.IsStaff() {
		return nil
	}
	if actor.Role != domain.RolePatient {
		return domain.NewAuthorizationError(BlockTypeAccess, "unknown role")
	}

	patient, err := directory.ResolveByUser(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, patientservice.ErrPatientNotFound) {
			return ErrNotOwner
		}
		return fmt.Errorf("%w: resolve patient: %w", ErrInternal, err)
	}
	if patient.ID != patientID {
		return ErrNotOwner
	}

	return nil
}
