package approve_appointment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ClinicBookingService/internal/testutil"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

var staff = domain.Actor{UserID: 900, Role: domain.RoleStaff}

func newUseCase(c *testutil.Clinic) *UseCase {
	return NewUseCase(c.Store.Appointments(), c.Admission, c.Store.TxManager(), c.Dispatcher, c.Metrics, c.Logger)
}

func TestExecute_ApprovesPending(t *testing.T) {
	c := testutil.NewClinic(1)
	uc := newUseCase(c)
	a := c.AddAppointment(testutil.Seeded{PatientID: memory.SeedPatientOneID, Slot: "09:00-10:00"})

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: a.ID, Actor: staff})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, resp.Appointment.Status)

	stored, err := c.Store.Appointments().GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, stored.Status)

	entries := c.Store.Audit().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionApprove, entries[0].Action)
	assert.Equal(t, domain.StatusPending, entries[0].Before.(*domain.Appointment).Status)
	require.Len(t, c.Store.Notifier().Sent(), 1)
}

func TestExecute_ApproveTwiceConflictsWithoutSideEffects(t *testing.T) {
	c := testutil.NewClinic(1)
	uc := newUseCase(c)
	a := c.AddAppointment(testutil.Seeded{PatientID: memory.SeedPatientOneID, Slot: "09:00-10:00"})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: a.ID, Actor: staff})
	require.NoError(t, err)
	audits, notifications := len(c.Store.Audit().Entries()), len(c.Store.Notifier().Sent())

	for i := 0; i < 2; i++ {
		_, err = uc.Execute(context.Background(), &Request{AppointmentID: a.ID, Actor: staff})
		var conflict *domain.StateConflictError
		require.True(t, errors.As(err, &conflict), "got %v", err)
		assert.Equal(t, string(domain.StatusApproved), conflict.Status)
	}

	assert.Len(t, c.Store.Audit().Entries(), audits)
	assert.Len(t, c.Store.Notifier().Sent(), notifications)
}

func TestExecute_CapacityRecheckExcludesSelf(t *testing.T) {
	c := testutil.NewClinic(1)
	uc := newUseCase(c)

	// Запись вне вместимости (например, созданная до снижения плана)
	c.AddAppointment(testutil.Seeded{PatientID: memory.SeedPatientOneID, Slot: "09:00-10:00", Status: domain.StatusApproved})
	pending := c.AddAppointment(testutil.Seeded{PatientID: memory.SeedPatientTwoID, Slot: "09:30-10:30"})
	alone := c.AddAppointment(testutil.Seeded{PatientID: memory.SeedPatientThreeID, Slot: "11:00-12:00"})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: pending.ID, Actor: staff})
	var capErr *domain.CapacityError
	require.True(t, errors.As(err, &capErr), "got %v", err)
	assert.Equal(t, types.TimeString("09:30"), capErr.FullAt)

	stored, err := c.Store.Appointments().GetByID(context.Background(), pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)

	_, err = uc.Execute(context.Background(), &Request{AppointmentID: alone.ID, Actor: staff})
	assert.NoError(t, err)
}

func TestExecute_Errors(t *testing.T) {
	c := testutil.NewClinic(1)
	uc := newUseCase(c)
	a := c.AddAppointment(testutil.Seeded{PatientID: memory.SeedPatientOneID, Slot: "09:00-10:00"})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: a.ID, Actor: domain.Actor{UserID: memory.SeedUserOneID, Role: domain.RolePatient}})
	assert.True(t, errors.Is(err, domain.ErrAuthorization))

	_, err = uc.Execute(context.Background(), &Request{AppointmentID: 404, Actor: staff})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
