package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ClinicBookingService/internal/testutil"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/ptr"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

var (
	staff   = domain.Actor{UserID: 900, Role: domain.RoleStaff}
	patient = domain.Actor{UserID: memory.SeedUserOneID, Role: domain.RolePatient}
)

func newUseCase(c *testutil.Clinic) *UseCase {
	return NewUseCase(c.Store.Catalog(), c.Resolver, c.Admission, c.Store.Patients(), c.Logger)
}

func starts(slots []domain.AvailableSlot) []types.TimeString {
	out := make([]types.TimeString, len(slots))
	for i, s := range slots {
		out[i] = s.StartTime
	}
	return out
}

func TestExecute_EmptyDay(t *testing.T) {
	c := testutil.NewClinic(1)

	resp, err := newUseCase(c).Execute(context.Background(), &Request{
		Actor:     patient,
		Date:      testutil.Tomorrow,
		ServiceID: memory.SeedConsultationID,
	})
	require.NoError(t, err)

	assert.Equal(t, 60, resp.DurationMinutes)
	assert.True(t, resp.Day.IsOpen)
	require.Len(t, resp.Slots, 17)

	first, last := resp.Slots[0], resp.Slots[len(resp.Slots)-1]
	assert.Equal(t, types.TimeString("08:00"), first.StartTime)
	assert.Equal(t, types.TimeString("09:00"), first.EndTime)
	assert.Equal(t, types.TimeString("16:00"), last.StartTime)
	assert.Equal(t, types.TimeString("17:00"), last.EndTime)
	assert.Equal(t, 1, first.AvailableSpots)
	assert.Equal(t, 1, first.TotalSpots)
}

func TestExecute_FullBlocksExcluded(t *testing.T) {
	c := testutil.NewClinic(1)
	c.AddAppointment(testutil.Seeded{PatientID: memory.SeedPatientTwoID, Slot: "09:00-10:00"})
	c.AddAppointment(testutil.Seeded{PatientID: memory.SeedPatientTwoID, Slot: "12:00-12:30", Status: domain.StatusCancelled})

	resp, err := newUseCase(c).Execute(context.Background(), &Request{
		Actor:     patient,
		Date:      testutil.Tomorrow,
		ServiceID: memory.SeedConsultationID,
	})
	require.NoError(t, err)

	got := starts(resp.Slots)
	assert.Len(t, got, 14)
	assert.NotContains(t, got, types.TimeString("08:30"))
	assert.NotContains(t, got, types.TimeString("09:00"))
	assert.NotContains(t, got, types.TimeString("09:30"))
	assert.Contains(t, got, types.TimeString("08:00"))
	assert.Contains(t, got, types.TimeString("10:00"))
	assert.Contains(t, got, types.TimeString("12:00"))
}

func TestExecute_RemainingIsTightestBlock(t *testing.T) {
	c := testutil.NewClinic(2)
	c.AddAppointment(testutil.Seeded{PatientID: memory.SeedPatientTwoID, Slot: "09:30-10:00"})

	resp, err := newUseCase(c).Execute(context.Background(), &Request{
		Actor:     patient,
		Date:      testutil.Tomorrow,
		ServiceID: memory.SeedConsultationID,
	})
	require.NoError(t, err)

	byStart := make(map[types.TimeString]domain.AvailableSlot, len(resp.Slots))
	for _, s := range resp.Slots {
		byStart[s.StartTime] = s
	}
	assert.Equal(t, 2, byStart["08:00"].AvailableSpots)
	assert.Equal(t, 1, byStart["09:00"].AvailableSpots)
	assert.Equal(t, 1, byStart["09:30"].AvailableSpots)
	assert.Equal(t, 2, byStart["10:00"].AvailableSpots)
	assert.Equal(t, 2, byStart["10:00"].TotalSpots)
}

func TestExecute_PatientOverlapFilter(t *testing.T) {
	c := testutil.NewClinic(3)
	c.AddAppointment(testutil.Seeded{PatientID: memory.SeedPatientOneID, Slot: "09:00-10:00"})

	uc := newUseCase(c)
	req := &Request{
		Actor:     staff,
		Date:      testutil.Tomorrow,
		ServiceID: memory.SeedConsultationID,
	}

	withoutFilter, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, starts(withoutFilter.Slots), types.TimeString("09:00"))

	req.PatientID = ptr.Ptr(int64(memory.SeedPatientOneID))
	withFilter, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	got := starts(withFilter.Slots)
	assert.Len(t, got, 14)
	assert.NotContains(t, got, types.TimeString("08:30"))
	assert.NotContains(t, got, types.TimeString("09:00"))
	assert.NotContains(t, got, types.TimeString("09:30"))
	assert.Contains(t, got, types.TimeString("08:00"), "adjacent start is not an overlap")
	assert.Contains(t, got, types.TimeString("10:00"), "adjacent start is not an overlap")
}

func TestExecute_PerToothDuration(t *testing.T) {
	c := testutil.NewClinic(1)

	resp, err := newUseCase(c).Execute(context.Background(), &Request{
		Actor:      patient,
		Date:       testutil.Tomorrow,
		ServiceID:  memory.SeedFillingID,
		TeethCount: ptr.Ptr(3),
	})
	require.NoError(t, err)

	assert.Equal(t, 90, resp.DurationMinutes)
	require.Len(t, resp.Slots, 16)
	assert.Equal(t, types.TimeString("15:30"), resp.Slots[len(resp.Slots)-1].StartTime)
}

func TestExecute_ClosedDay(t *testing.T) {
	c := testutil.NewClinic(1)
	sunday := domain.DateOnly(testutil.Now)
	for sunday.Weekday() != time.Sunday {
		sunday = sunday.AddDate(0, 0, 1)
	}

	resp, err := newUseCase(c).Execute(context.Background(), &Request{
		Actor:     patient,
		Date:      sunday,
		ServiceID: memory.SeedConsultationID,
	})
	require.NoError(t, err)

	assert.False(t, resp.Day.IsOpen)
	assert.Empty(t, resp.Slots)
}

func TestExecute_TodayDropsPastStarts(t *testing.T) {
	c := testutil.NewClinic(1)
	today := domain.DateOnly(testutil.Now)

	resp, err := newUseCase(c).Execute(context.Background(), &Request{
		Actor:     staff,
		Date:      today,
		ServiceID: memory.SeedConsultationID,
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 12)
	assert.Equal(t, types.TimeString("10:30"), resp.Slots[0].StartTime)

	_, err = newUseCase(c).Execute(context.Background(), &Request{
		Actor:     patient,
		Date:      today,
		ServiceID: memory.SeedConsultationID,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "missing service",
			req:     &Request{Actor: patient, Date: testutil.Tomorrow},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "unknown service",
			req:     &Request{Actor: patient, Date: testutil.Tomorrow, ServiceID: 999},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "beyond booking window",
			req:     &Request{Actor: patient, Date: testutil.Tomorrow.AddDate(0, 0, 30), ServiceID: memory.SeedConsultationID},
			wantErr: domain.ErrValidation,
		},
		{
			name: "foreign patient filter",
			req: &Request{
				Actor:     patient,
				Date:      testutil.Tomorrow,
				ServiceID: memory.SeedConsultationID,
				PatientID: ptr.Ptr(int64(memory.SeedPatientTwoID)),
			},
			wantErr: domain.ErrAuthorization,
		},
		{
			name: "zero teeth",
			req: &Request{
				Actor:      patient,
				Date:       testutil.Tomorrow,
				ServiceID:  memory.SeedFillingID,
				TeethCount: ptr.Ptr(0),
			},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testutil.NewClinic(1)
			_, err := newUseCase(c).Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
