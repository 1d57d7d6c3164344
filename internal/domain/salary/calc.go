package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

// StandardMonthDays is the month length pay is normalised to.
const StandardMonthDays = 30

func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func CountSundays(year int, month time.Month) int {
	days := DaysInMonth(year, month)
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()

	// Offset of the first Sunday from the 1st.
	offset := (7 - int(first)) % 7
	if offset >= days {
		return 0
	}
	return (days-offset-1)/7 + 1
}

// EffectiveHolidays counts distinct holiday dates inside the month that do
// not fall on a Sunday, since Sundays are already paid.
func EffectiveHolidays(year int, month time.Month, dates []time.Time) int {
	seen := make(map[int]struct{}, len(dates))
	for _, d := range dates {
		y, m, day := d.Date()
		if y != year || m != month || d.Weekday() == time.Sunday {
			continue
		}
		seen[day] = struct{}{}
	}
	return len(seen)
}

// ExtraDays tops short months up to StandardMonthDays. Longer months are
// not reduced.
func ExtraDays(daysInMonth int) int {
	if daysInMonth < StandardMonthDays {
		return StandardMonthDays - daysInMonth
	}
	return 0
}

type WorkedDaysInput struct {
	PresentDays int
	Sundays     int
	Holidays    int
	DaysInMonth int
}

// WorkedDays adds paid Sundays, holidays and the short-month top-up to the
// days present. The result may exceed the days in the month.
func WorkedDays(in WorkedDaysInput) int {
	return in.PresentDays + in.Sundays + in.Holidays + ExtraDays(in.DaysInMonth)
}

type PayInput struct {
	PerDayPay   decimal.Decimal
	WorkedDays  int
	CarryOver   decimal.Decimal
	Deduction   decimal.Decimal
	LoanBalance decimal.Decimal
}

type Pay struct {
	Gross        decimal.Decimal
	Net          decimal.Decimal
	FinalPayable decimal.Decimal
}

// ComputePay derives gross, net and final payable. Final payable never goes
// below zero; net may.
func ComputePay(in PayInput) Pay {
	gross := in.PerDayPay.Mul(decimal.NewFromInt(int64(in.WorkedDays))).Round(2)
	net := in.CarryOver.Add(gross).Sub(in.Deduction).Round(2)

	final := net.Sub(in.LoanBalance)
	if final.IsNegative() {
		final = decimal.Zero
	}

	return Pay{Gross: gross, Net: net, FinalPayable: final.Round(2)}
}

// PerDayFromBasic is the per-day rate used when none is configured.
func PerDayFromBasic(basic decimal.Decimal) decimal.Decimal {
	return basic.Div(decimal.NewFromInt(StandardMonthDays)).Round(2)
}

// MonthRange returns the first and last day of month.
func MonthRange(month time.Time) (time.Time, time.Time) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}
