package refund

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

// Calculator считает сумму возврата при отмене оплаченной через maya записи
type Calculator struct {
	policy   FeePolicy
	location *time.Location
}

// NewCalculator создает калькулятор; location - часовой пояс клиники
func NewCalculator(policy FeePolicy, location *time.Location) *Calculator {
	if policy == nil {
		policy = NoFee{}
	}
	if location == nil {
		location = time.UTC
	}
	return &Calculator{policy: policy, location: location}
}

// Quote возвращает {original, fee, refund} для отмены в момент cancelledAt
// Комиссия 0, если до начала оставалось не меньше CancellationDeadlineHours,
// иначе - по политике, ограниченная диапазоном [0, original]
func (c *Calculator) Quote(a *domain.Appointment, payment *domain.Payment, settings domain.RefundSetting, cancelledAt time.Time) domain.RefundQuote {
	original := payment.AmountPaid
	hoursBefore := a.StartsAt(c.location).Sub(cancelledAt).Hours()

	fee := 0.0
	if hoursBefore < float64(settings.CancellationDeadlineHours) {
		fee = roundCents(c.policy.Fee(original, hoursBefore))
	}
	if fee < 0 {
		fee = 0
	}
	if fee > original {
		fee = original
	}

	refund := original - fee
	if refund < 0 {
		refund = 0
	}

	return domain.RefundQuote{
		OriginalAmount:  original,
		CancellationFee: fee,
		RefundAmount:    roundCents(refund),
	}
}

// NewRequest заявка на возврат по расчету
// Возвращает nil, если возвращать нечего и нулевые заявки отключены
func (c *Calculator) NewRequest(
	a *domain.Appointment,
	payment *domain.Payment,
	quote domain.RefundQuote,
	settings domain.RefundSetting,
	requestedAt time.Time,
) *domain.RefundRequest {
	if quote.RefundAmount <= 0 && !settings.CreateZeroRefundRequest {
		return nil
	}

	reminderDays := settings.ReminderDays
	if reminderDays <= 0 {
		reminderDays = domain.DefaultRefundReminderDays
	}
	deadline := requestedAt.AddDate(0, 0, reminderDays)

	return &domain.RefundRequest{
		PatientID:       a.PatientID,
		AppointmentID:   a.ID,
		PaymentID:       payment.ID,
		OriginalAmount:  quote.OriginalAmount,
		CancellationFee: quote.CancellationFee,
		RefundAmount:    quote.RefundAmount,
		Status:          domain.RefundPending,
		RequestedAt:     requestedAt,
		DeadlineAt:      &deadline,
	}
}

// PolicyName имя активной политики (для логов)
func (c *Calculator) PolicyName() string {
	return c.policy.Name()
}
