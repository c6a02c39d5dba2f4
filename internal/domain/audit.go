package domain

import "time"

// AuditEntry append-only record of a state change
type AuditEntry struct {
	ID        string
	Entity    string
	EntityID  int64
	Action    string
	ActorID   int64
	ActorRole Role
	Before    interface{}
	After     interface{}
	CreatedAt time.Time
}

// Notification message for the notification service
type Notification struct {
	Audience  string // "staff" or "patient"
	PatientID *int64
	Event     string
	Subject   string
	Body      string
	Data      map[string]string
}

// Audiences
const (
	AudienceStaff   = "staff"
	AudiencePatient = "patient"
)

// Audited entities
const (
	EntityAppointment = "appointment"
	EntityPayment     = "payment"
	EntityRefund      = "refund_request"
)

// Audited actions and notification events
const (
	ActionBook       = "book"
	ActionApprove    = "approve"
	ActionReject     = "reject"
	ActionCancel     = "cancel"
	ActionReschedule = "reschedule"
	ActionPaid       = "paid"
	ActionRemind     = "remind"

	ActionRefundApprove = "approve"
	ActionRefundReject  = "reject"
	ActionRefundProcess = "process"
	ActionRefundConfirm = "confirm"
)

// SystemActor actor for changes made by background jobs and payment callbacks
var SystemActor = Actor{UserID: 0, Role: RoleAdmin}
