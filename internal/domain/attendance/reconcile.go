package attendance

import "time"

// Outcome records what a punch did to the day.
type Outcome string

const (
	OutcomeCreated        Outcome = "created"
	OutcomeCheckInEarlier Outcome = "check_in_moved_earlier"
	OutcomeCheckOutSet    Outcome = "check_out_set"
	OutcomeCheckOutLater  Outcome = "check_out_moved_later"
	OutcomeCheckInFilled  Outcome = "check_in_filled"
	OutcomeIgnored        Outcome = "ignored"
)

// Changed reports whether the outcome altered the day.
func (o Outcome) Changed() bool {
	return o != OutcomeIgnored
}

// ApplyPunch folds one punch into the day. current is nil when no row exists
// yet for (userID, date). The earliest punch seen becomes check-in and the
// latest becomes check-out, whatever order punches arrive in. Punches that
// fall inside the known span, or repeat a known timestamp, are ignored.
func ApplyPunch(current *Day, userID string, date time.Time, ts time.Time) (Day, Outcome) {
	if current == nil {
		return Day{
			UserID:    userID,
			Date:      date,
			CheckIn:   &ts,
			Status:    StatusPresent,
			DayStatus: DayComplete,
		}, OutcomeCreated
	}

	day := *current

	if day.CheckIn == nil {
		day.CheckIn = &ts
		day.Status = StatusPresent
		return day, OutcomeCheckInFilled
	}

	switch {
	case ts.Before(*day.CheckIn):
		// The previous check-in becomes the check-out when none is set, so
		// no punch is lost when the later one arrived first.
		if day.CheckOut == nil {
			prev := *day.CheckIn
			day.CheckOut = &prev
		}
		day.CheckIn = &ts
		return day, OutcomeCheckInEarlier

	case ts.After(*day.CheckIn):
		if day.CheckOut == nil {
			day.CheckOut = &ts
			return day, OutcomeCheckOutSet
		}
		if ts.After(*day.CheckOut) {
			day.CheckOut = &ts
			return day, OutcomeCheckOutLater
		}
	}

	return day, OutcomeIgnored
}

// Fold replays punches for one user and date from scratch.
func Fold(userID string, date time.Time, punches []time.Time) *Day {
	var day *Day
	for _, ts := range punches {
		next, _ := ApplyPunch(day, userID, date, ts)
		day = &next
	}
	return day
}
