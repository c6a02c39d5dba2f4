package record_payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ClinicBookingService/internal/testutil"
)

func TestExecute_MarksPaymentAndAppointmentPaid(t *testing.T) {
	c := testutil.NewClinic(1)
	uc := NewUseCase(c.Store.Payments(), c.Store.Appointments(), c.Store.TxManager(), c.Dispatcher, c.Clock, c.Logger)
	ctx := context.Background()

	a := c.AddAppointment(testutil.Seeded{PatientID: memory.SeedPatientOneID, Slot: "09:00-10:00", Method: domain.PaymentMethodMaya})
	p, err := c.Store.Payments().Create(ctx, &domain.Payment{
		AppointmentID: &a.ID,
		Method:        domain.PaymentMethodMaya,
		Status:        domain.PaymentAwaitingPayment,
		AmountDue:     1000,
	})
	require.NoError(t, err)

	resp, err := uc.Execute(ctx, &Request{PaymentID: p.ID, Amount: 1000})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, resp.Payment.Status)
	require.NotNil(t, resp.Appointment)
	assert.Equal(t, domain.AppointmentPaid, resp.Appointment.PaymentStatus)

	stored, err := c.Store.Payments().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, stored.AmountPaid)
	require.NotNil(t, stored.PaidAt)

	_, err = uc.Execute(ctx, &Request{PaymentID: p.ID, Amount: 1000})
	assert.True(t, errors.Is(err, domain.ErrStateConflict))
}

func TestExecute_Errors(t *testing.T) {
	c := testutil.NewClinic(1)
	uc := NewUseCase(c.Store.Payments(), c.Store.Appointments(), c.Store.TxManager(), c.Dispatcher, c.Clock, c.Logger)

	_, err := uc.Execute(context.Background(), &Request{PaymentID: 1, Amount: 0})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = uc.Execute(context.Background(), &Request{PaymentID: 404, Amount: 10})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
