package reschedule_appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ClinicBookingService/internal/testutil"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

var (
	staff   = domain.Actor{UserID: 900, Role: domain.RoleStaff}
	patient = domain.Actor{UserID: memory.SeedUserOneID, Role: domain.RolePatient}
)

func newUseCase(c *testutil.Clinic) *UseCase {
	return NewUseCase(c.Store.Appointments(), c.Store.Patients(), c.Admission, c.Store.TxManager(), c.Dispatcher, c.Metrics, c.Logger)
}

func TestExecute_MovesPaidMayaBackToPending(t *testing.T) {
	c := testutil.NewClinic(1)
	uc := newUseCase(c)
	a, p := c.AddPaidMaya(memory.SeedPatientOneID, testutil.Tomorrow, "09:00-10:00", domain.StatusApproved, 1000)

	newDate := testutil.Tomorrow.AddDate(0, 0, 1)
	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: a.ID, Actor: patient, Date: newDate, StartTime: "13:00"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, resp.Appointment.Status)
	assert.Equal(t, newDate, resp.Appointment.Date)
	assert.Equal(t, "13:00-14:00", resp.Appointment.TimeSlot.String())
	assert.Equal(t, domain.AppointmentPaid, resp.Appointment.PaymentStatus)

	payment, err := c.Store.Payments().GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, payment.Status)
}

func TestExecute_OwnSlotExcludedFromCapacity(t *testing.T) {
	c := testutil.NewClinic(1)
	uc := newUseCase(c)
	a, _ := c.AddPaidMaya(memory.SeedPatientOneID, testutil.Tomorrow, "09:00-10:00", domain.StatusApproved, 1000)

	// Сдвиг на полчаса пересекается только с собственным прежним слотом
	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: a.ID, Actor: staff, Date: testutil.Tomorrow, StartTime: "09:30"})
	require.NoError(t, err)
	assert.Equal(t, "09:30-10:30", resp.Appointment.TimeSlot.String())
}

func TestExecute_CashPendingRejected(t *testing.T) {
	c := testutil.NewClinic(1)
	uc := newUseCase(c)
	a := c.AddAppointment(testutil.Seeded{PatientID: memory.SeedPatientOneID, Slot: "09:00-10:00"})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: a.ID, Actor: patient, Date: testutil.Tomorrow, StartTime: "13:00"})
	assert.True(t, errors.Is(err, domain.ErrStateConflict), "got %v", err)

	stored, err := c.Store.Appointments().GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "09:00-10:00", stored.TimeSlot.String())
}

func TestExecute_FullTargetSlot(t *testing.T) {
	c := testutil.NewClinic(1)
	uc := newUseCase(c)
	a, _ := c.AddPaidMaya(memory.SeedPatientOneID, testutil.Tomorrow, "09:00-10:00", domain.StatusApproved, 1000)
	c.AddAppointment(testutil.Seeded{PatientID: memory.SeedPatientTwoID, Slot: "13:30-14:00"})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: a.ID, Actor: patient, Date: testutil.Tomorrow, StartTime: "13:00"})
	var capErr *domain.CapacityError
	require.True(t, errors.As(err, &capErr), "got %v", err)
	assert.Equal(t, types.TimeString("13:30"), capErr.FullAt)
}

func TestExecute_CapacityCheckedBeforePatientStatus(t *testing.T) {
	c := testutil.NewClinic(1)
	uc := newUseCase(c)
	a, _ := c.AddPaidMaya(memory.SeedPatientOneID, testutil.Tomorrow, "09:00-10:00", domain.StatusApproved, 1000)
	c.AddAppointment(testutil.Seeded{PatientID: memory.SeedPatientTwoID, Slot: "13:00-14:00", Status: domain.StatusApproved})
	c.Store.SetPatientStatus(memory.SeedPatientOneID, domain.PatientStatus{Blocked: true, BlockType: "account", BlockReason: "hold"})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: a.ID, Actor: patient, Date: testutil.Tomorrow, StartTime: "13:00"})
	var capErr *domain.CapacityError
	require.True(t, errors.As(err, &capErr), "got %v", err)
	assert.Equal(t, types.TimeString("13:00"), capErr.FullAt)
}

func TestExecute_StaffTodayPastStartRejected(t *testing.T) {
	c := testutil.NewClinic(1)
	uc := newUseCase(c)
	a, _ := c.AddPaidMaya(memory.SeedPatientOneID, testutil.Tomorrow, "09:00-10:00", domain.StatusApproved, 1000)
	today := domain.DateOnly(testutil.Now)

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: a.ID, Actor: staff, Date: today, StartTime: "10:00"})
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr), "got %v", err)
	assert.Equal(t, "start_time", vErr.Field)

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: a.ID, Actor: staff, Date: today, StartTime: "10:30"})
	require.NoError(t, err)
	assert.Equal(t, "10:30-11:30", resp.Appointment.TimeSlot.String())
}

func TestExecute_BlockedPatientAndWindow(t *testing.T) {
	c := testutil.NewClinic(1)
	uc := newUseCase(c)
	a, _ := c.AddPaidMaya(memory.SeedPatientOneID, testutil.Tomorrow, "09:00-10:00", domain.StatusPending, 1000)

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: a.ID, Actor: patient, Date: testutil.Tomorrow.AddDate(0, 0, 10), StartTime: "09:00"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	c.Store.SetPatientStatus(memory.SeedPatientOneID, domain.PatientStatus{Blocked: true, BlockType: "account", BlockReason: "hold"})
	_, err = uc.Execute(context.Background(), &Request{AppointmentID: a.ID, Actor: patient, Date: testutil.Tomorrow, StartTime: "13:00"})
	assert.True(t, errors.Is(err, domain.ErrAuthorization))
}

func TestLockOrder(t *testing.T) {
	d1 := testutil.Tomorrow
	d2 := d1.AddDate(0, 0, 2)

	assert.Equal(t, []time.Time{d1, d2}, lockOrder(d2, d1))
	assert.Equal(t, []time.Time{d1, d2}, lockOrder(d1, d2))
	assert.Len(t, lockOrder(d1, d1), 1)
}
