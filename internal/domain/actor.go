package domain

// Role of the user acting on an appointment
type Role string

const (
	RolePatient Role = "patient"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// IsValid reports whether the role is known
func (r Role) IsValid() bool {
	switch r {
	case RolePatient, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// Actor authenticated user performing an operation
type Actor struct {
	UserID int64
	Role   Role
}

// IsStaff returns true for staff and admins
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff || a.Role == RoleAdmin
}

// IsAdmin returns true for admins
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// BookingActor who is booking: SelfService or StaffAssisted
type BookingActor interface {
	// IsStaffAssisted selects the booking window and initial status
	IsStaffAssisted() bool
	AuditActor() Actor
}

// SelfService patient booking for themselves
type SelfService struct {
	UserID int64
}

func (SelfService) IsStaffAssisted() bool { return false }

func (s SelfService) AuditActor() Actor {
	return Actor{UserID: s.UserID, Role: RolePatient}
}

// StaffAssisted staff booking on behalf of an existing or a new patient
// Exactly one of ExistingPatientID and NewPatient is set
type StaffAssisted struct {
	StaffUserID       int64
	ExistingPatientID *int64
	NewPatient        *NewPatientFields
}

func (StaffAssisted) IsStaffAssisted() bool { return true }

func (s StaffAssisted) AuditActor() Actor {
	return Actor{UserID: s.StaffUserID, Role: RoleStaff}
}
