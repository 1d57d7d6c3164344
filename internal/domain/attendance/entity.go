package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent  Status = "present"
	StatusAbsent   Status = "absent"
	StatusUpcoming Status = "upcoming"
	StatusWeekend  Status = "weekend"
	StatusHoliday  Status = "holiday"
	StatusOnLeave  Status = "on_leave"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusUpcoming, StatusWeekend, StatusHoliday, StatusOnLeave:
		return true
	}
	return false
}

type DayStatus string

const (
	DayComplete   DayStatus = "complete_day"
	DayHalf       DayStatus = "half_day"
	DayAbsent     DayStatus = "absent"
	DayUpcoming   DayStatus = "upcoming"
	DayInProgress DayStatus = "in_progress"
	DayWeekend    DayStatus = "weekend"
	DayHoliday    DayStatus = "holiday"
	DayOnLeave    DayStatus = "on_leave"
)

// Day is one user's reconciled attendance for one calendar date. Date is
// midnight UTC of the local calendar date.
type Day struct {
	ID          string
	UserID      string
	Date        time.Time
	CheckIn     *time.Time
	CheckOut    *time.Time
	TotalHours  decimal.NullDecimal
	Status      Status
	DayStatus   DayStatus
	IsLate      bool
	LateMinutes int
	Remarks     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Join
	UserName    *string
	OfficeID    *string
	BiometricID *string
}

// DateOf returns the calendar date of ts in loc, as midnight UTC.
func DateOf(ts time.Time, loc *time.Location) time.Time {
	y, m, d := ts.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Absence returns the row the backfill job writes for a day without punches.
func Absence(userID string, date time.Time, status Status) Day {
	day := Day{UserID: userID, Date: date, Status: status}
	switch status {
	case StatusWeekend:
		day.DayStatus = DayWeekend
	case StatusHoliday:
		day.DayStatus = DayHoliday
	case StatusOnLeave:
		day.DayStatus = DayOnLeave
	default:
		day.Status = StatusAbsent
		day.DayStatus = DayAbsent
	}
	return day
}
