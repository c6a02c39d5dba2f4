package patientservice

import "github.com/m04kA/SMC-ClinicBookingService/internal/domain"

// Patient модель пациента из PatientService
type Patient struct {
	ID       int64   `json:"id"`
	UserID   *int64  `json:"user_id"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
}

func (p *Patient) toDomain() *domain.Patient {
	return &domain.Patient{
		ID:       p.ID,
		UserID:   p.UserID,
		FullName: p.FullName,
		Phone:    p.Phone,
		Email:    p.Email,
	}
}

// CreatePatientRequest тело запроса на регистрацию пациента
type CreatePatientRequest struct {
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// Status административные ограничения пациента
type Status struct {
	Blocked      bool   `json:"blocked"`
	BlockType    string `json:"block_type"` // account | ip
	BlockReason  string `json:"block_reason"`
	UnderWarning bool   `json:"under_warning"`
}

func (s *Status) toDomain() *domain.PatientStatus {
	return &domain.PatientStatus{
		Blocked:      s.Blocked,
		BlockType:    s.BlockType,
		BlockReason:  s.BlockReason,
		UnderWarning: s.UnderWarning,
	}
}

// HMO страховка пациента
type HMO struct {
	ID        int64  `json:"id"`
	PatientID int64  `json:"patient_id"`
	Provider  string `json:"provider"`
	MemberNo  string `json:"member_no"`
}

func (h *HMO) toDomain() *domain.PatientHMO {
	return &domain.PatientHMO{
		ID:        h.ID,
		PatientID: h.PatientID,
		Provider:  h.Provider,
		MemberNo:  h.MemberNo,
	}
}

// ErrorResponse модель ошибки от PatientService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
