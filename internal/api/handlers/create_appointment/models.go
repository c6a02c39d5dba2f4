package create_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments/models"
	createAppointment "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
// patientId и newPatient учитываются только для персонала
type CreateAppointmentRequest struct {
	ServiceID     int64              `json:"serviceId" validate:"required,gt=0"`
	Date          string             `json:"date" validate:"required"`      // "2026-03-10"
	StartTime     string             `json:"startTime" validate:"required"` // "09:00"
	PaymentMethod string             `json:"paymentMethod" validate:"required,oneof=cash maya hmo"`
	PatientHMOID  *int64             `json:"patientHmoId,omitempty" validate:"omitempty,gt=0"`
	TeethCount    *int               `json:"teethCount,omitempty" validate:"omitempty,gte=1"`
	Notes         *string            `json:"notes,omitempty" validate:"omitempty,max=1000"`
	PatientID     *int64             `json:"patientId,omitempty" validate:"omitempty,gt=0"`
	NewPatient    *NewPatientRequest `json:"newPatient,omitempty"`
}

// NewPatientRequest данные нового пациента при записи через регистратуру
type NewPatientRequest struct {
	FullName string  `json:"fullName" validate:"required,max=200"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
}

// CreateAppointmentResponse HTTP response model
type CreateAppointmentResponse struct {
	Appointment *models.AppointmentResponse `json:"appointment"`
	Payment     *models.PaymentResponse     `json:"payment,omitempty"`
	ServiceName string                      `json:"serviceName"`
	Price       float64                     `json:"price"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(actor domain.Actor) (*createAppointment.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}

	return &createAppointment.Request{
		Actor:         r.bookingActor(actor),
		ServiceID:     r.ServiceID,
		Date:          date,
		StartTime:     startTime,
		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
		PatientHMOID:  r.PatientHMOID,
		TeethCount:    r.TeethCount,
		Notes:         r.Notes,
	}, nil
}

func (r *CreateAppointmentRequest) bookingActor(actor domain.Actor) domain.BookingActor {
	if !actor.IsStaff() {
		return domain.SelfService{UserID: actor.UserID}
	}

	staff := domain.StaffAssisted{
		StaffUserID:       actor.UserID,
		ExistingPatientID: r.PatientID,
	}
	if r.NewPatient != nil {
		staff.NewPatient = &domain.NewPatientFields{
			FullName: r.NewPatient.FullName,
			Phone:    r.NewPatient.Phone,
			Email:    r.NewPatient.Email,
		}
	}
	return staff
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *CreateAppointmentResponse {
	out := &CreateAppointmentResponse{
		Appointment: models.FromDomainAppointment(resp.Appointment),
	}
	if resp.Payment != nil {
		out.Payment = models.FromDomainPayment(resp.Payment)
	}
	if resp.Service != nil {
		out.ServiceName = resp.Service.Name
		out.Price = resp.Service.Price
	}
	return out
}
