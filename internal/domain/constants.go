package domain

// Slot grid
const (
	// BlockMinutes atomic unit of duration and capacity
	BlockMinutes = 30
)

// Default configuration values
const (
	DefaultEffectiveCapacity       = 1
	DefaultBookingWindowDays       = 7
	DefaultCancellationDeadlineHrs = 24
	DefaultRefundReminderDays      = 7
)

// Business validation constants
const (
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxRejectionNoteLength      = 500
	MaxTeethCount               = 32
	MaxReferenceCodeAttempts    = 5
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// CommittedStatuses statuses that occupy capacity and count for overlap
var CommittedStatuses = []AppointmentStatus{
	StatusPending,
	StatusApproved,
	StatusCompleted,
}

// TerminalStatuses statuses that can never transition again
var TerminalStatuses = []AppointmentStatus{
	StatusRejected,
	StatusCancelled,
	StatusCompleted,
}
