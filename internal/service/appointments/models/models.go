package models

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// Response модели

// AppointmentResponse ответ с данными записи на прием
type AppointmentResponse struct {
	ID                 int64      `json:"id"`
	PatientID          int64      `json:"patientId"`
	ServiceID          int64      `json:"serviceId"`
	PatientHMOID       *int64     `json:"patientHmoId,omitempty"`
	Date               string     `json:"date"`      // "2025-10-15"
	StartTime          string     `json:"startTime"` // "09:00"
	EndTime            string     `json:"endTime"`   // "10:00"
	TimeSlot           string     `json:"timeSlot"`  // "09:00-10:00"
	DurationMinutes    int        `json:"durationMinutes"`
	ReferenceCode      string     `json:"referenceCode"`
	Status             string     `json:"status"`
	PaymentMethod      string     `json:"paymentMethod"`
	PaymentStatus      string     `json:"paymentStatus"`
	TeethCount         *int       `json:"teethCount,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	RemindedAt         *time.Time `json:"remindedAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// RefundResponse ответ с данными заявки на возврат
type RefundResponse struct {
	ID                 int64      `json:"id"`
	PatientID          int64      `json:"patientId"`
	AppointmentID      int64      `json:"appointmentId"`
	PaymentID          int64      `json:"paymentId"`
	OriginalAmount     float64    `json:"originalAmount"`
	CancellationFee    float64    `json:"cancellationFee"`
	RefundAmount       float64    `json:"refundAmount"`
	Status             string     `json:"status"`
	AdminNote          *string    `json:"adminNote,omitempty"`
	RequestedAt        time.Time  `json:"requestedAt"`
	ProcessedAt        *time.Time `json:"processedAt,omitempty"`
	DeadlineAt         *time.Time `json:"deadlineAt,omitempty"`
	PatientConfirmedAt *time.Time `json:"patientConfirmedAt,omitempty"`
}

// PaymentResponse ответ с данными платежа
type PaymentResponse struct {
	ID            int64      `json:"id"`
	AppointmentID *int64     `json:"appointmentId,omitempty"`
	VisitID       *int64     `json:"visitId,omitempty"`
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	AmountDue     float64    `json:"amountDue"`
	AmountPaid    float64    `json:"amountPaid"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
}

// Конвертеры из domain

// FromDomainAppointment конвертирует domain.Appointment в AppointmentResponse
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	return &AppointmentResponse{
		ID:                 a.ID,
		PatientID:          a.PatientID,
		ServiceID:          a.ServiceID,
		PatientHMOID:       a.PatientHMOID,
		Date:               a.Date.Format(domain.DateFormat),
		StartTime:          a.TimeSlot.Start.String(),
		EndTime:            a.TimeSlot.End.String(),
		TimeSlot:           a.TimeSlot.String(),
		DurationMinutes:    a.TimeSlot.DurationMinutes(),
		ReferenceCode:      a.ReferenceCode,
		Status:             string(a.Status),
		PaymentMethod:      string(a.PaymentMethod),
		PaymentStatus:      string(a.PaymentStatus),
		TeethCount:         a.TeethCount,
		Notes:              a.Notes,
		CancellationReason: a.CancelReason,
		CancelledAt:        a.CanceledAt,
		RemindedAt:         a.RemindedAt,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список записей
func FromDomainAppointmentList(list []*domain.Appointment) *AppointmentListResponse {
	items := make([]AppointmentResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *FromDomainAppointment(a))
	}
	return &AppointmentListResponse{
		Appointments: items,
		Total:        len(items),
	}
}

// FromDomainRefund конвертирует domain.RefundRequest в RefundResponse
func FromDomainRefund(r *domain.RefundRequest) *RefundResponse {
	if r == nil {
		return nil
	}

	return &RefundResponse{
		ID:                 r.ID,
		PatientID:          r.PatientID,
		AppointmentID:      r.AppointmentID,
		PaymentID:          r.PaymentID,
		OriginalAmount:     r.OriginalAmount,
		CancellationFee:    r.CancellationFee,
		RefundAmount:       r.RefundAmount,
		Status:             string(r.Status),
		AdminNote:          r.AdminNote,
		RequestedAt:        r.RequestedAt,
		ProcessedAt:        r.ProcessedAt,
		DeadlineAt:         r.DeadlineAt,
		PatientConfirmedAt: r.PatientConfirmedAt,
	}
}

// FromDomainPayment конвертирует domain.Payment в PaymentResponse
func FromDomainPayment(p *domain.Payment) *PaymentResponse {
	if p == nil {
		return nil
	}

	return &PaymentResponse{
		ID:            p.ID,
		AppointmentID: p.AppointmentID,
		VisitID:       p.VisitID,
		Method:        string(p.Method),
		Status:        string(p.Status),
		AmountDue:     p.AmountDue,
		AmountPaid:    p.AmountPaid,
		PaidAt:        p.PaidAt,
	}
}
