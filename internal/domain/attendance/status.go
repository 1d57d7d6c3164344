package attendance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Policy holds the per-office thresholds used to classify a day.
type Policy struct {
	Timezone      string
	LateThreshold string
	HalfDayHours  decimal.Decimal
}

// Derived is the classification computed from a day's punches.
type Derived struct {
	Status      Status
	DayStatus   DayStatus
	IsLate      bool
	LateMinutes int
	TotalHours  decimal.NullDecimal
}

// FailOpen is applied when the policy itself cannot be evaluated.
func FailOpen() Derived {
	return Derived{Status: StatusPresent, DayStatus: DayComplete}
}

func (p Policy) location() (*time.Location, error) {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", p.Timezone, err)
	}
	return loc, nil
}

// DeriveStatus classifies day as of now.
//
// Late minutes count from the late threshold, not from the office start
// time. A missing check-out counts as in progress on the current date and
// as a half day afterwards.
func DeriveStatus(day Day, now time.Time, p Policy) (Derived, error) {
	loc, err := p.location()
	if err != nil {
		return Derived{}, err
	}
	threshold, err := time.Parse("15:04", p.LateThreshold)
	if err != nil {
		return Derived{}, fmt.Errorf("invalid late threshold %q: %w", p.LateThreshold, err)
	}
	if !p.HalfDayHours.IsPositive() {
		return Derived{}, fmt.Errorf("half day hours must be positive, got %s", p.HalfDayHours)
	}

	today := DateOf(now, loc)
	if day.Date.After(today) {
		return Derived{Status: StatusUpcoming, DayStatus: DayUpcoming}, nil
	}

	if day.CheckIn == nil {
		return Derived{Status: StatusAbsent, DayStatus: DayAbsent}, nil
	}

	d := Derived{Status: StatusPresent}

	in := day.CheckIn.In(loc)
	cutoff := time.Date(in.Year(), in.Month(), in.Day(), threshold.Hour(), threshold.Minute(), 0, 0, loc)
	if in.After(cutoff) {
		d.IsLate = true
		d.LateMinutes = int(in.Sub(cutoff) / time.Minute)
	}

	if day.CheckOut == nil {
		if day.Date.Equal(today) {
			d.DayStatus = DayInProgress
		} else {
			d.DayStatus = DayHalf
		}
		return d, nil
	}

	seconds := int64(day.CheckOut.Sub(*day.CheckIn) / time.Second)
	hours := decimal.NewFromInt(seconds).Div(decimal.NewFromInt(3600)).Round(2)
	d.TotalHours = decimal.NewNullDecimal(hours)

	if hours.LessThan(p.HalfDayHours) {
		d.DayStatus = DayHalf
	} else {
		d.DayStatus = DayComplete
	}
	return d, nil
}

// Apply copies a classification onto the day.
func (d Derived) Apply(day *Day) {
	day.Status = d.Status
	day.DayStatus = d.DayStatus
	day.IsLate = d.IsLate
	day.LateMinutes = d.LateMinutes
	if d.TotalHours.Valid || day.CheckOut == nil {
		day.TotalHours = d.TotalHours
	}
}
