package domain

// Patient as returned by the patient directory
type Patient struct {
	ID       int64
	UserID   *int64
	FullName string
	Phone    *string
	Email    *string
}

// PatientStatus administrative holds on a patient
type PatientStatus struct {
	Blocked      bool
	BlockType    string // "account" or "ip"
	BlockReason  string
	UnderWarning bool // prior no-shows: online payment only
}

// PatientHMO insurance coverage registered for a patient
type PatientHMO struct {
	ID        int64
	PatientID int64
	Provider  string
	MemberNo  string
}

// NewPatientFields data to register a walk-in patient during staff booking
type NewPatientFields struct {
	FullName string
	Phone    *string
	Email    *string
}
