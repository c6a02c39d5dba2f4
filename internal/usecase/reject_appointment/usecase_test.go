package reject_appointment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ClinicBookingService/internal/testutil"
)

var staff = domain.Actor{UserID: 900, Role: domain.RoleStaff}

func newUseCase(c *testutil.Clinic) *UseCase {
	return NewUseCase(c.Store.Appointments(), c.Store.Payments(), c.Store.TxManager(), c.Dispatcher, c.Clock, c.Metrics, c.Logger)
}

func TestExecute_RejectsAndCancelsMayaPayment(t *testing.T) {
	c := testutil.NewClinic(1)
	uc := newUseCase(c)
	a := c.AddAppointment(testutil.Seeded{PatientID: memory.SeedPatientOneID, Slot: "09:00-10:00", Method: domain.PaymentMethodMaya})
	_, err := c.Store.Payments().Create(context.Background(), &domain.Payment{
		AppointmentID: &a.ID,
		Method:        domain.PaymentMethodMaya,
		Status:        domain.PaymentAwaitingPayment,
		AmountDue:     1000,
	})
	require.NoError(t, err)

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: a.ID, Actor: staff, Note: "  dentist unavailable "})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, resp.Appointment.Status)
	assert.Equal(t, domain.AppointmentUnpaid, resp.Appointment.PaymentStatus)
	require.NotNil(t, resp.Appointment.CancelReason)
	assert.Equal(t, "dentist unavailable", *resp.Appointment.CancelReason)
	assert.Equal(t, int64(1), resp.PaymentsCancelled)

	payments, err := c.Store.Payments().ListByAppointment(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, domain.PaymentCancelled, payments[0].Status)
}

func TestExecute_RejectFreesCapacity(t *testing.T) {
	c := testutil.NewClinic(1)
	uc := newUseCase(c)
	a := c.AddAppointment(testutil.Seeded{PatientID: memory.SeedPatientOneID, Slot: "09:00-10:00"})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: a.ID, Actor: staff, Note: "duplicate"})
	require.NoError(t, err)

	committed, err := c.Store.Appointments().GetByDate(context.Background(), domain.AppointmentFilter{Date: testutil.Tomorrow})
	require.NoError(t, err)
	assert.Empty(t, committed)
}

func TestExecute_Validation(t *testing.T) {
	c := testutil.NewClinic(1)
	uc := newUseCase(c)
	a := c.AddAppointment(testutil.Seeded{PatientID: memory.SeedPatientOneID, Slot: "09:00-10:00"})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: a.ID, Actor: staff, Note: "   "})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = uc.Execute(context.Background(), &Request{AppointmentID: a.ID, Actor: staff, Note: strings.Repeat("x", 501)})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = uc.Execute(context.Background(), &Request{AppointmentID: a.ID, Actor: domain.Actor{UserID: 1, Role: domain.RolePatient}, Note: "no"})
	assert.True(t, errors.Is(err, domain.ErrAuthorization))
}

func TestExecute_OnlyPending(t *testing.T) {
	c := testutil.NewClinic(1)
	uc := newUseCase(c)
	a := c.AddAppointment(testutil.Seeded{PatientID: memory.SeedPatientOneID, Slot: "09:00-10:00", Status: domain.StatusApproved})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: a.ID, Actor: staff, Note: "late"})
	assert.True(t, errors.Is(err, domain.ErrStateConflict))
	assert.Empty(t, c.Store.Audit().Entries())
}
