// internal/workers/communication/send-notification/models.go
package sendnotification

type Input struct {
	RecipientID      string                 `json:"recipientId"`
	RecipientType    string                 `json:"recipientType"` // "volunteer" or "organizer"
	NotificationType string                 `json:"notificationType"`
	EventID          string                 `json:"eventId,omitempty"`
	AssignmentID     string                 `json:"assignmentId,omitempty"`
	Priority         string                 `json:"priority,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "failed", "disabled"
	SentAt         string `json:"sentAt"` // ISO 8601
}

// Notification types
const (
	TypeAssignmentProposed  = "assignment_proposed"
	TypeAssignmentConfirmed = "assignment_confirmed"
	TypeEventReminder       = "event_reminder"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

// Recipient types
const (
	RecipientTypeVolunteer = "volunteer"
	RecipientTypeOrganizer = "organizer"
)
