package manage_refund

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ClinicBookingService/internal/testutil"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/ptr"
)

var (
	admin   = domain.Actor{UserID: 901, Role: domain.RoleAdmin}
	staff   = domain.Actor{UserID: 900, Role: domain.RoleStaff}
	patient = domain.Actor{UserID: memory.SeedUserOneID, Role: domain.RolePatient}
	other   = domain.Actor{UserID: memory.SeedUserTwoID, Role: domain.RolePatient}
)

func setup(t *testing.T) (*testutil.Clinic, *UseCase, *domain.RefundRequest) {
	t.Helper()

	c := testutil.NewClinic(1)
	uc := NewUseCase(c.Store.Refunds(), c.Store.Appointments(), c.Store.Payments(), c.Store.Patients(),
		c.Store.TxManager(), c.Dispatcher, c.Clock, c.Logger)

	a, p := c.AddPaidMaya(memory.SeedPatientOneID, testutil.Tomorrow, "09:00-10:00", domain.StatusCancelled, 1000)
	r, err := c.Store.Refunds().Create(context.Background(), &domain.RefundRequest{
		PatientID:      a.PatientID,
		AppointmentID:  a.ID,
		PaymentID:      p.ID,
		OriginalAmount: 1000,
		RefundAmount:   1000,
		Status:         domain.RefundPending,
		RequestedAt:    testutil.Now,
	})
	require.NoError(t, err)

	return c, uc, r
}

func TestExecute_FullLifecycle(t *testing.T) {
	c, uc, r := setup(t)
	ctx := context.Background()

	resp, err := uc.Execute(ctx, &Request{RefundID: r.ID, Action: ActionApprove, Actor: admin, Note: ptr.Ptr("ok")})
	require.NoError(t, err)
	assert.Equal(t, domain.RefundApproved, resp.Refund.Status)

	resp, err = uc.Execute(ctx, &Request{RefundID: r.ID, Action: ActionProcess, Actor: admin})
	require.NoError(t, err)
	assert.Equal(t, domain.RefundProcessed, resp.Refund.Status)
	require.NotNil(t, resp.Refund.ProcessedAt)
	require.NotNil(t, resp.Refund.AdminNote)
	assert.Equal(t, "ok", *resp.Refund.AdminNote)

	resp, err = uc.Execute(ctx, &Request{RefundID: r.ID, Action: ActionConfirm, Actor: patient})
	require.NoError(t, err)
	assert.True(t, resp.Refund.IsPatientConfirmed())
	require.NotNil(t, resp.Appointment)
	assert.Equal(t, domain.AppointmentRefunded, resp.Appointment.PaymentStatus)

	payment, err := c.Store.Payments().GetByID(ctx, r.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRefunded, payment.Status)

	_, err = uc.Execute(ctx, &Request{RefundID: r.ID, Action: ActionConfirm, Actor: patient})
	assert.True(t, errors.Is(err, domain.ErrStateConflict))

	assert.Len(t, c.Store.Audit().Entries(), 3)
}

func TestExecute_OutOfOrderActions(t *testing.T) {
	_, uc, r := setup(t)
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{RefundID: r.ID, Action: ActionProcess, Actor: admin})
	assert.True(t, errors.Is(err, domain.ErrStateConflict))

	_, err = uc.Execute(ctx, &Request{RefundID: r.ID, Action: ActionConfirm, Actor: patient})
	assert.True(t, errors.Is(err, domain.ErrStateConflict))

	_, err = uc.Execute(ctx, &Request{RefundID: r.ID, Action: ActionReject, Actor: admin, Note: ptr.Ptr("duplicate")})
	require.NoError(t, err)

	_, err = uc.Execute(ctx, &Request{RefundID: r.ID, Action: ActionApprove, Actor: admin})
	assert.True(t, errors.Is(err, domain.ErrStateConflict))
}

func TestExecute_Roles(t *testing.T) {
	_, uc, r := setup(t)
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{RefundID: r.ID, Action: ActionApprove, Actor: staff})
	assert.True(t, errors.Is(err, domain.ErrAuthorization))

	_, err = uc.Execute(ctx, &Request{RefundID: r.ID, Action: ActionApprove, Actor: admin})
	require.NoError(t, err)
	_, err = uc.Execute(ctx, &Request{RefundID: r.ID, Action: ActionProcess, Actor: admin})
	require.NoError(t, err)

	_, err = uc.Execute(ctx, &Request{RefundID: r.ID, Action: ActionConfirm, Actor: other})
	assert.True(t, errors.Is(err, domain.ErrAuthorization))

	_, err = uc.Execute(ctx, &Request{RefundID: r.ID, Action: "refund", Actor: admin})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = uc.Execute(ctx, &Request{RefundID: 404, Action: ActionApprove, Actor: admin})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
