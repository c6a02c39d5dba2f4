package create_appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ClinicBookingService/internal/integrations/patientservice"
	"github.com/m04kA/SMC-ClinicBookingService/internal/testutil"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/ptr"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

func newUseCase(c *testutil.Clinic) *UseCase {
	return NewUseCase(
		c.Store.Appointments(),
		c.Store.Payments(),
		c.Store.Catalog(),
		c.Store.Patients(),
		c.Admission,
		c.Store.TxManager(),
		c.Dispatcher,
		c.Metrics,
		c.Logger,
	)
}

func selfRequest(userID int64, start string) *Request {
	return &Request{
		Actor:         domain.SelfService{UserID: userID},
		ServiceID:     memory.SeedConsultationID,
		Date:          testutil.Tomorrow,
		StartTime:     types.TimeString(start),
		PaymentMethod: domain.PaymentMethodCash,
	}
}

func TestExecute_SelfServiceCreatesPending(t *testing.T) {
	c := testutil.NewClinic(1)
	uc := newUseCase(c)

	resp, err := uc.Execute(context.Background(), selfRequest(memory.SeedUserOneID, "09:00"))
	require.NoError(t, err)

	a := resp.Appointment
	assert.Equal(t, domain.StatusPending, a.Status)
	assert.Equal(t, domain.AppointmentUnpaid, a.PaymentStatus)
	assert.Equal(t, "09:00-10:00", a.TimeSlot.String())
	assert.Len(t, a.ReferenceCode, 8)
	assert.Nil(t, a.PatientHMOID)
	assert.Nil(t, resp.Payment)

	sent := c.Store.Notifier().Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, domain.AudienceStaff, sent[0].Audience)

	entries := c.Store.Audit().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionBook, entries[0].Action)
	assert.Nil(t, entries[0].Before)
}

func TestExecute_StaffAssistedCreatesApprovedToday(t *testing.T) {
	c := testutil.NewClinic(1)
	uc := newUseCase(c)

	req := &Request{
		Actor: domain.StaffAssisted{
			StaffUserID: 900,
			NewPatient:  &domain.NewPatientFields{FullName: "Walk In"},
		},
		ServiceID:     memory.SeedCleaningID,
		Date:          domain.DateOnly(testutil.Now),
		StartTime:     "14:00",
		PaymentMethod: domain.PaymentMethodCash,
	}

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, resp.Appointment.Status)

	patient, err := c.Store.Patients().GetPatient(context.Background(), resp.Appointment.PatientID)
	require.NoError(t, err)
	assert.Equal(t, "Walk In", patient.FullName)
}

func TestExecute_NewPatientNotRegisteredWhenBookingFails(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *Request)
		field  string
	}{
		{
			name:   "hmo without insurance id",
			modify: func(r *Request) { r.PaymentMethod = domain.PaymentMethodHMO },
			field:  "patient_hmo_id",
		},
		{
			name: "hmo of an existing patient",
			modify: func(r *Request) {
				r.PaymentMethod = domain.PaymentMethodHMO
				r.PatientHMOID = ptr.Ptr(int64(memory.SeedHMOID))
			},
			field: "patient_hmo_id",
		},
		{
			name:   "start already passed",
			modify: func(r *Request) { r.StartTime = "09:30" },
			field:  "start_time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testutil.NewClinic(1)
			uc := newUseCase(c)

			req := &Request{
				Actor: domain.StaffAssisted{
					StaffUserID: 900,
					NewPatient:  &domain.NewPatientFields{FullName: "New Person"},
				},
				ServiceID:     memory.SeedConsultationID,
				Date:          domain.DateOnly(testutil.Now),
				StartTime:     "14:00",
				PaymentMethod: domain.PaymentMethodCash,
			}
			tt.modify(req)

			_, err := uc.Execute(context.Background(), req)
			var vErr *domain.ValidationError
			require.True(t, errors.As(err, &vErr), "got %v", err)
			assert.Equal(t, tt.field, vErr.Field)

			_, err = c.Store.Patients().GetPatient(context.Background(), 4)
			assert.True(t, errors.Is(err, patientservice.ErrPatientNotFound), "got %v", err)
		})
	}
}

func TestExecute_StaffTodayStartMustBeAhead(t *testing.T) {
	c := testutil.NewClinic(2)
	uc := newUseCase(c)

	req := func(start string) *Request {
		return &Request{
			Actor:         domain.StaffAssisted{StaffUserID: 900, ExistingPatientID: ptr.Ptr(int64(memory.SeedPatientOneID))},
			ServiceID:     memory.SeedCleaningID,
			Date:          domain.DateOnly(testutil.Now),
			StartTime:     types.TimeString(start),
			PaymentMethod: domain.PaymentMethodCash,
		}
	}

	for _, start := range []string{"08:00", "10:00"} {
		_, err := uc.Execute(context.Background(), req(start))
		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr), "start %s: got %v", start, err)
		assert.Equal(t, "start_time", vErr.Field)
	}

	resp, err := uc.Execute(context.Background(), req("10:30"))
	require.NoError(t, err)
	assert.Equal(t, "10:30-11:00", resp.Appointment.TimeSlot.String())
}

func TestExecute_MayaCreatesAwaitingPayment(t *testing.T) {
	c := testutil.NewClinic(1)
	uc := newUseCase(c)

	req := selfRequest(memory.SeedUserOneID, "09:00")
	req.PaymentMethod = domain.PaymentMethodMaya

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentAwaitingPayment, resp.Appointment.PaymentStatus)
	require.NotNil(t, resp.Payment)
	assert.Equal(t, domain.PaymentAwaitingPayment, resp.Payment.Status)
	assert.Equal(t, 1000.0, resp.Payment.AmountDue)
}

func TestExecute_ThirdBookingAtFullBlockFails(t *testing.T) {
	c := testutil.NewClinic(2)
	uc := newUseCase(c)

	for _, user := range []int64{memory.SeedUserOneID, memory.SeedUserTwoID} {
		_, err := uc.Execute(context.Background(), selfRequest(user, "08:00"))
		require.NoError(t, err)
	}

	_, err := uc.Execute(context.Background(), selfRequest(memory.SeedUserThreeID, "08:00"))
	var capErr *domain.CapacityError
	require.True(t, errors.As(err, &capErr), "got %v", err)
	assert.Equal(t, types.TimeString("08:00"), capErr.FullAt)
}

func TestExecute_PipelineOrder(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(c *testutil.Clinic)
		modify  func(r *Request)
		kind    error
		field   string
	}{
		{
			name:   "self-service today is outside the window",
			modify: func(r *Request) { r.Date = domain.DateOnly(testutil.Now) },
			kind:   domain.ErrValidation,
			field:  "date",
		},
		{
			name:   "beyond seven days",
			modify: func(r *Request) { r.Date = domain.DateOnly(testutil.Now).AddDate(0, 0, 8) },
			kind:   domain.ErrValidation,
			field:  "date",
		},
		{
			name: "unknown service outside the window",
			modify: func(r *Request) {
				r.ServiceID = 999
				r.Date = domain.DateOnly(testutil.Now).AddDate(0, 0, 8)
			},
			kind:  domain.ErrValidation,
			field: "date",
		},
		{
			name: "unknown service on a closed day",
			modify: func(r *Request) {
				r.ServiceID = 999
				r.Date = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
			},
			kind:  domain.ErrValidation,
			field: "date",
		},
		{
			name:   "unknown service",
			modify: func(r *Request) { r.ServiceID = 999 },
			kind:   domain.ErrNotFound,
		},
		{
			name: "closed on sunday",
			modify: func(r *Request) {
				r.Date = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
			},
			kind:  domain.ErrValidation,
			field: "date",
		},
		{
			name:   "misaligned start",
			modify: func(r *Request) { r.StartTime = "09:15" },
			kind:   domain.ErrValidation,
			field:  "start_time",
		},
		{
			name:   "ends after closing",
			modify: func(r *Request) { r.StartTime = "16:30" },
			kind:   domain.ErrValidation,
			field:  "start_time",
		},
		{
			name:   "unknown user",
			modify: func(r *Request) { r.Actor = domain.SelfService{UserID: 999} },
			kind:   domain.ErrNotFound,
		},
		{
			name: "blocked patient",
			prepare: func(c *testutil.Clinic) {
				c.Store.SetPatientStatus(memory.SeedPatientOneID, domain.PatientStatus{Blocked: true, BlockType: "account", BlockReason: "fraud"})
			},
			kind: domain.ErrAuthorization,
		},
		{
			name: "under warning must pay via maya",
			prepare: func(c *testutil.Clinic) {
				c.Store.SetPatientStatus(memory.SeedPatientOneID, domain.PatientStatus{UnderWarning: true})
			},
			kind:  domain.ErrValidation,
			field: "payment_method",
		},
		{
			name:   "hmo without insurance id",
			modify: func(r *Request) { r.PaymentMethod = domain.PaymentMethodHMO },
			kind:   domain.ErrValidation,
			field:  "patient_hmo_id",
		},
		{
			name: "hmo of another patient",
			modify: func(r *Request) {
				r.Actor = domain.SelfService{UserID: memory.SeedUserTwoID}
				r.PaymentMethod = domain.PaymentMethodHMO
				r.PatientHMOID = ptr.Ptr(int64(memory.SeedHMOID))
			},
			kind:  domain.ErrValidation,
			field: "patient_hmo_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testutil.NewClinic(1)
			uc := newUseCase(c)
			if tt.prepare != nil {
				tt.prepare(c)
			}
			req := selfRequest(memory.SeedUserOneID, "09:00")
			if tt.modify != nil {
				tt.modify(req)
			}

			_, err := uc.Execute(context.Background(), req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
			if tt.field != "" {
				var vErr *domain.ValidationError
				require.True(t, errors.As(err, &vErr))
				assert.Equal(t, tt.field, vErr.Field)
			}

			list, err := c.Store.Appointments().GetByDate(context.Background(), domain.AppointmentFilter{Date: req.Date, IncludeInactive: true})
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestExecute_BlockedPatientCarriesMetadata(t *testing.T) {
	c := testutil.NewClinic(1)
	uc := newUseCase(c)
	c.Store.SetPatientStatus(memory.SeedPatientOneID, domain.PatientStatus{Blocked: true, BlockType: "ip", BlockReason: "abuse"})

	_, err := uc.Execute(context.Background(), selfRequest(memory.SeedUserOneID, "09:00"))
	var authErr *domain.AuthorizationError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "ip", authErr.BlockType)
	assert.Equal(t, "abuse", authErr.Reason)
}

func TestExecute_CapacityCheckedBeforePatient(t *testing.T) {
	c := testutil.NewClinic(1)
	uc := newUseCase(c)

	_, err := uc.Execute(context.Background(), selfRequest(memory.SeedUserOneID, "09:00"))
	require.NoError(t, err)

	// Неизвестный пользователь получает ошибку вместимости, а не "не найден"
	_, err = uc.Execute(context.Background(), selfRequest(999, "09:00"))
	assert.True(t, errors.Is(err, domain.ErrCapacity), "got %v", err)
}

func TestExecute_PatientOverlapRejected(t *testing.T) {
	c := testutil.NewClinic(3)
	uc := newUseCase(c)

	_, err := uc.Execute(context.Background(), selfRequest(memory.SeedUserOneID, "09:00"))
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), selfRequest(memory.SeedUserOneID, "09:30"))
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr), "got %v", err)
	assert.Equal(t, "time_slot", vErr.Field)

	// Смежный слот не пересекается
	_, err = uc.Execute(context.Background(), selfRequest(memory.SeedUserOneID, "10:00"))
	assert.NoError(t, err)
}

func TestExecute_HMOAttachedOnlyForHMO(t *testing.T) {
	c := testutil.NewClinic(2)
	uc := newUseCase(c)

	req := selfRequest(memory.SeedUserOneID, "09:00")
	req.PaymentMethod = domain.PaymentMethodHMO
	req.PatientHMOID = ptr.Ptr(int64(memory.SeedHMOID))
	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.Appointment.PatientHMOID)
	assert.Equal(t, int64(memory.SeedHMOID), *resp.Appointment.PatientHMOID)

	req = selfRequest(memory.SeedUserOneID, "11:00")
	req.PatientHMOID = ptr.Ptr(int64(memory.SeedHMOID))
	resp, err = uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, resp.Appointment.PatientHMOID)
}

func TestExecute_PerToothDurationRoundsUp(t *testing.T) {
	c := testutil.NewClinic(1)
	uc := newUseCase(c)

	req := selfRequest(memory.SeedUserOneID, "09:00")
	req.ServiceID = memory.SeedFillingID
	req.TeethCount = ptr.Ptr(3) // 30 + 2*20 = 70 -> 90

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "09:00-10:30", resp.Appointment.TimeSlot.String())
}

func TestExecute_ReferenceCodeCollisionRetried(t *testing.T) {
	c := testutil.NewClinic(2)
	uc := newUseCase(c)

	codes := []string{"AAAA1111", "AAAA1111", "BBBB2222"}
	uc.generateCode = func() (string, error) {
		code := codes[0]
		codes = codes[1:]
		return code, nil
	}

	first, err := uc.Execute(context.Background(), selfRequest(memory.SeedUserOneID, "09:00"))
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), selfRequest(memory.SeedUserTwoID, "09:00"))
	require.NoError(t, err)

	assert.Equal(t, "AAAA1111", first.Appointment.ReferenceCode)
	assert.Equal(t, "BBBB2222", second.Appointment.ReferenceCode)
}

func TestExecute_ConcurrentBookingsNeverOversell(t *testing.T) {
	c := testutil.NewClinic(2)
	uc := newUseCase(c)

	for i := int64(10); i < 30; i++ {
		c.Store.AddPatient(domain.Patient{ID: i, UserID: ptr.Ptr(1000 + i), FullName: "Patient"})
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := int64(10); i < 30; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), selfRequest(userID, "08:00"))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.True(t, errors.Is(err, domain.ErrCapacity), "got %v", err)
		}(1000 + i)
	}
	wg.Wait()

	assert.Equal(t, 2, succeeded)
	list, err := c.Store.Appointments().GetByDate(context.Background(), domain.AppointmentFilter{Date: testutil.Tomorrow})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
