package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeCasual Type = "casual"
	TypeSick   Type = "sick"
	TypeEarned Type = "earned"
	TypeUnpaid Type = "unpaid"
)

func (t Type) Valid() bool {
	switch t {
	case TypeCasual, TypeSick, TypeEarned, TypeUnpaid:
		return true
	}
	return false
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Request is a leave application. Only pending requests change state.
type Request struct {
	ID         string
	UserID     string
	LeaveType  Type
	StartDate  time.Time
	EndDate    time.Time
	IsHalfDay  bool
	Reason     string
	Status     Status
	ReviewedBy *string
	ReviewedAt *time.Time
	ReviewNote *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Join
	UserName  *string
	UserEmail *string
	OfficeID  *string
}

// Days is the length of the leave, 0.5 for a half day.
func (r Request) Days() decimal.Decimal {
	if r.IsHalfDay {
		return decimal.NewFromFloat(0.5)
	}
	days := int64(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
	return decimal.NewFromInt(days)
}

// Covers reports whether date falls inside the leave.
func (r Request) Covers(date time.Time) bool {
	return !date.Before(r.StartDate) && !date.After(r.EndDate)
}
