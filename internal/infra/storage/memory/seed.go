package memory

import (
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/ptr"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// Демонстрационные данные для storage.mode = "memory"
const (
	SeedConsultationID = 1
	SeedCleaningID     = 2
	SeedFillingID      = 3

	SeedPatientOneID   = 1
	SeedPatientTwoID   = 2
	SeedPatientThreeID = 3

	SeedUserOneID   = 100
	SeedUserTwoID   = 200
	SeedUserThreeID = 300

	SeedHMOID = 10
)

// Seed наполняет хранилище расписанием Пн-Сб 08:00-17:00, тремя услугами,
// тремя пациентами и страховкой первого пациента
func Seed(s *Store) {
	open, close := types.MustFromString("08:00"), types.MustFromString("17:00")
	for weekday := 0; weekday <= 6; weekday++ {
		entry := domain.WeeklyDefaultEntry{Weekday: weekday}
		if weekday != 0 {
			entry.IsOpen = true
			entry.OpenTime = ptr.Ptr(open)
			entry.CloseTime = ptr.Ptr(close)
		}
		s.SetWeeklyDefault(entry)
	}

	s.AddService(domain.Service{ID: SeedConsultationID, Name: "Consultation", Price: 1000, EstimatedMinutes: 60, Category: "general"})
	s.AddService(domain.Service{ID: SeedCleaningID, Name: "Cleaning", Price: 800, EstimatedMinutes: 30, Category: "hygiene"})
	s.AddService(domain.Service{
		ID:               SeedFillingID,
		Name:             "Filling",
		Price:            1500,
		EstimatedMinutes: 30,
		Category:         "restorative",
		PerTooth:         true,
		PerToothMinutes:  20,
		IncludedTeeth:    1,
	})

	s.AddPatient(domain.Patient{ID: SeedPatientOneID, UserID: ptr.Ptr(int64(SeedUserOneID)), FullName: "Maria Santos"})
	s.AddPatient(domain.Patient{ID: SeedPatientTwoID, UserID: ptr.Ptr(int64(SeedUserTwoID)), FullName: "Jose Reyes"})
	s.AddPatient(domain.Patient{ID: SeedPatientThreeID, UserID: ptr.Ptr(int64(SeedUserThreeID)), FullName: "Ana Cruz"})

	s.AddHMO(domain.PatientHMO{ID: SeedHMOID, PatientID: SeedPatientOneID, Provider: "Maxicare", MemberNo: "MC-0001"})
}
