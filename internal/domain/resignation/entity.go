package resignation

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// Resignation is a notice of leaving. A user has at most one pending or
// accepted resignation.
type Resignation struct {
	ID             string
	UserID         string
	NoticeDate     time.Time
	LastWorkingDay time.Time
	Reason         string
	Status         Status
	ReviewedBy     *string
	ReviewedAt     *time.Time
	ReviewNote     *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Join
	UserName  *string
	UserEmail *string
	OfficeID  *string
}

// NoticeDays is the length of the notice period.
func (r Resignation) NoticeDays() int {
	return int(r.LastWorkingDay.Sub(r.NoticeDate).Hours() / 24)
}
