package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/master/holiday"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/master/office"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/leave"
)

// policies resolves and memoises office policies for one operation.
type policies struct {
	offices  office.OfficeRepository
	defaults attendance.Policy
	byOffice map[string]attendance.Policy
}

func newPolicies(offices office.OfficeRepository, defaults attendance.Policy) *policies {
	return &policies{offices: offices, defaults: defaults, byOffice: make(map[string]attendance.Policy)}
}

// get falls back to the defaults when the office cannot be loaded.
func (p *policies) get(ctx context.Context, officeID *string) attendance.Policy {
	if officeID == nil {
		return p.defaults
	}
	if pol, ok := p.byOffice[*officeID]; ok {
		return pol
	}

	pol := p.defaults
	o, err := p.offices.GetByID(ctx, *officeID)
	if err != nil {
		slog.Warn("Falling back to default attendance policy", "office_id", *officeID, "error", err)
	} else {
		pol = attendance.PolicyFor(&o, p.defaults)
	}
	p.byOffice[*officeID] = pol
	return pol
}

func location(p attendance.Policy) *time.Location {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		slog.Warn("Invalid timezone, using UTC", "timezone", p.Timezone, "error", err)
		return time.UTC
	}
	return loc
}

// calendar answers "why was this user not in" for days without punches.
type calendar struct {
	holidays holiday.HolidayRepository
	leaves   leave.LeaveRepository

	holidayOn map[string]bool
	onLeave   map[string]map[string]struct{}
}

func newCalendar(holidays holiday.HolidayRepository, leaves leave.LeaveRepository) *calendar {
	return &calendar{
		holidays:  holidays,
		leaves:    leaves,
		holidayOn: make(map[string]bool),
		onLeave:   make(map[string]map[string]struct{}),
	}
}

// absence classifies a day without a check-in. Sundays win over holidays,
// and both win over approved leave.
func (c *calendar) absence(ctx context.Context, userID string, officeID *string, date time.Time) (attendance.Status, error) {
	if date.Weekday() == time.Sunday {
		return attendance.StatusWeekend, nil
	}

	key := date.Format("2006-01-02")
	hkey := key
	if officeID != nil {
		hkey += "|" + *officeID
	}
	isHoliday, ok := c.holidayOn[hkey]
	if !ok {
		var err error
		isHoliday, err = c.holidays.IsHoliday(ctx, date, officeID)
		if err != nil {
			return "", fmt.Errorf("failed to check holiday: %w", err)
		}
		c.holidayOn[hkey] = isHoliday
	}
	if isHoliday {
		return attendance.StatusHoliday, nil
	}

	users, ok := c.onLeave[key]
	if !ok {
		var err error
		users, err = c.leaves.ApprovedOn(ctx, date)
		if err != nil {
			return "", fmt.Errorf("failed to load approved leave: %w", err)
		}
		c.onLeave[key] = users
	}
	if _, ok := users[userID]; ok {
		return attendance.StatusOnLeave, nil
	}
	return attendance.StatusAbsent, nil
}

// derive classifies day in place. A policy that cannot be evaluated marks
// the day present rather than failing the write.
func derive(day *attendance.Day, now time.Time, p attendance.Policy) {
	d, err := attendance.DeriveStatus(*day, now, p)
	if err != nil {
		slog.Warn("Attendance policy could not be applied, failing open",
			"user_id", day.UserID,
			"date", day.Date.Format("2006-01-02"),
			"error", err,
		)
		d = attendance.FailOpen()
	}
	d.Apply(day)
}

// reclassify derives a stored day and, when it has no check-in, replaces
// the bare absent result with the calendar's reason.
func (s *AttendanceServiceImpl) reclassify(ctx context.Context, day *attendance.Day, pols *policies, cal *calendar, now time.Time) error {
	derive(day, now, pols.get(ctx, day.OfficeID))
	if day.CheckIn != nil || day.Status != attendance.StatusAbsent {
		return nil
	}

	status, err := cal.absence(ctx, day.UserID, day.OfficeID, day.Date)
	if err != nil {
		return err
	}
	absent := attendance.Absence(day.UserID, day.Date, status)
	day.Status = absent.Status
	day.DayStatus = absent.DayStatus
	return nil
}

func sameClassification(a, b attendance.Day) bool {
	return a.Status == b.Status &&
		a.DayStatus == b.DayStatus &&
		a.IsLate == b.IsLate &&
		a.LateMinutes == b.LateMinutes &&
		a.TotalHours.Valid == b.TotalHours.Valid &&
		a.TotalHours.Decimal.Equal(b.TotalHours.Decimal)
}
