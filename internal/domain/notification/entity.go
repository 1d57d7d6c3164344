package notification

import "time"

type Type string

const (
	TypeLeaveSubmitted       Type = "leave_submitted"
	TypeLeaveApproved        Type = "leave_approved"
	TypeLeaveRejected        Type = "leave_rejected"
	TypeResignationSubmitted Type = "resignation_submitted"
	TypeResignationAccepted  Type = "resignation_accepted"
	TypeResignationRejected  Type = "resignation_rejected"
	TypeSalaryPaid           Type = "salary_paid"
	TypeDocumentGenerated    Type = "document_generated"
	TypeDeviceOffline        Type = "device_offline"
)

type Notification struct {
	ID          string
	RecipientID string
	Type        Type
	Title       string
	Message     string
	Data        map[string]any
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
