package refund

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

var (
	manila     = time.FixedZone("PHT", 8*3600)
	settings   = domain.RefundSetting{CancellationDeadlineHours: 24, ReminderDays: 7}
	paidMaya   = &domain.Payment{ID: 11, Method: domain.PaymentMethodMaya, Status: domain.PaymentPaid, AmountPaid: 1500}
	visitStart = time.Date(2026, 3, 10, 9, 0, 0, 0, manila)
)

func appointment() *domain.Appointment {
	return &domain.Appointment{
		ID:            5,
		PatientID:     42,
		Date:          time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		TimeSlot:      types.TimeRange{Start: "09:00", End: "10:00"},
		PaymentMethod: domain.PaymentMethodMaya,
		PaymentStatus: domain.AppointmentPaid,
	}
}

func TestQuote_BeforeDeadlineIsFree(t *testing.T) {
	c := NewCalculator(ProportionalFee{Rate: 0.5}, manila)

	quote := c.Quote(appointment(), paidMaya, settings, visitStart.Add(-30*time.Hour))

	assert.Equal(t, 1500.0, quote.OriginalAmount)
	assert.Equal(t, 0.0, quote.CancellationFee)
	assert.Equal(t, 1500.0, quote.RefundAmount)
}

func TestQuote_ExactlyAtDeadlineIsFree(t *testing.T) {
	c := NewCalculator(FlatFee{Amount: 200}, manila)

	quote := c.Quote(appointment(), paidMaya, settings, visitStart.Add(-24*time.Hour))

	assert.Equal(t, 0.0, quote.CancellationFee)
}

func TestQuote_InsideDeadlineAppliesPolicy(t *testing.T) {
	cancelledAt := visitStart.Add(-3 * time.Hour)

	flat := NewCalculator(FlatFee{Amount: 200}, manila).Quote(appointment(), paidMaya, settings, cancelledAt)
	assert.Equal(t, 200.0, flat.CancellationFee)
	assert.Equal(t, 1300.0, flat.RefundAmount)

	prop := NewCalculator(ProportionalFee{Rate: 0.25}, manila).Quote(appointment(), paidMaya, settings, cancelledAt)
	assert.Equal(t, 375.0, prop.CancellationFee)
	assert.Equal(t, 1125.0, prop.RefundAmount)

	none := NewCalculator(nil, manila).Quote(appointment(), paidMaya, settings, cancelledAt)
	assert.Equal(t, 1500.0, none.RefundAmount)
}

func TestQuote_FeeNeverExceedsOriginal(t *testing.T) {
	c := NewCalculator(FlatFee{Amount: 5000}, manila)

	quote := c.Quote(appointment(), paidMaya, settings, visitStart.Add(-time.Hour))

	assert.Equal(t, 1500.0, quote.CancellationFee)
	assert.Equal(t, 0.0, quote.RefundAmount)
}

func TestTieredFee(t *testing.T) {
	p := TieredFee{Tiers: []Tier{{WithinHours: 24, Rate: 0.1}, {WithinHours: 2, Rate: 0.5}}}

	assert.Equal(t, 750.0, p.Fee(1500, 1))
	assert.Equal(t, 150.0, p.Fee(1500, 12))
	assert.Equal(t, 0.0, p.Fee(1500, 30))
}

func TestNewRequest(t *testing.T) {
	c := NewCalculator(NoFee{}, manila)
	now := visitStart.Add(-30 * time.Hour)

	quote := c.Quote(appointment(), paidMaya, settings, now)
	req := c.NewRequest(appointment(), paidMaya, quote, settings, now)

	require.NotNil(t, req)
	assert.Equal(t, domain.RefundPending, req.Status)
	assert.Equal(t, int64(42), req.PatientID)
	assert.Equal(t, int64(11), req.PaymentID)
	assert.Equal(t, 1500.0, req.RefundAmount)
	require.NotNil(t, req.DeadlineAt)
	assert.Equal(t, now.AddDate(0, 0, 7), *req.DeadlineAt)
}

func TestNewRequest_ZeroRefund(t *testing.T) {
	c := NewCalculator(NoFee{}, manila)
	zero := domain.RefundQuote{OriginalAmount: 100, CancellationFee: 100}

	assert.Nil(t, c.NewRequest(appointment(), paidMaya, zero, settings, visitStart))

	withZero := settings
	withZero.CreateZeroRefundRequest = true
	assert.NotNil(t, c.NewRequest(appointment(), paidMaya, zero, withZero, visitStart))
}

func TestNewPolicy(t *testing.T) {
	p, err := NewPolicy("proportional", 0, 0.2, nil)
	require.NoError(t, err)
	assert.Equal(t, "proportional", p.Name())

	_, err = NewPolicy("proportional", 0, 1.5, nil)
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	_, err = NewPolicy("tiered", 0, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	_, err = NewPolicy("lottery", 0, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	p, err = NewPolicy("", 0, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, NoFee{}, p)
}
