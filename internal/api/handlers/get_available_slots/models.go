package get_available_slots

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-ClinicBookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	ServiceID       int64           `json:"serviceId"`
	IsOpen          bool            `json:"isOpen"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель доступного начала записи
type AvailableSlot struct {
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	AvailableSpots int    `json:"availableSpots"`
	TotalSpots     int    `json:"totalSpots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime:      slot.StartTime.String(),
			EndTime:        slot.EndTime.String(),
			AvailableSpots: slot.AvailableSpots,
			TotalSpots:     slot.TotalSpots,
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		ServiceID:       resp.ServiceID,
		IsOpen:          resp.Day != nil && resp.Day.IsOpen,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
// date и serviceId обязательны, patientId и teethCount опциональны
func ToUseCaseRequest(query url.Values, actor domain.Actor) (*getAvailableSlots.Request, error) {
	date, err := handlers.ParseDate(query.Get("date"))
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	serviceID, err := strconv.ParseInt(query.Get("serviceId"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("serviceId: %w", err)
	}

	req := &getAvailableSlots.Request{
		Actor:     actor,
		Date:      date,
		ServiceID: serviceID,
	}

	if raw := query.Get("patientId"); raw != "" {
		patientID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("patientId: %w", err)
		}
		req.PatientID = &patientID
	}

	if raw := query.Get("teethCount"); raw != "" {
		teeth, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("teethCount: %w", err)
		}
		req.TeethCount = &teeth
	}

	return req, nil
}
