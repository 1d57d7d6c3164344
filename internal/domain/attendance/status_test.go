package attendance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultPolicy() Policy {
	return Policy{Timezone: "UTC", LateThreshold: "11:30", HalfDayHours: decimal.NewFromInt(5)}
}

func ptr(t time.Time) *time.Time { return &t }

func TestDeriveStatus_Late(t *testing.T) {
	day := Day{Date: testDate, CheckIn: ptr(at(11, 45)), CheckOut: ptr(at(19, 0))}
	now := at(20, 0)

	d, err := DeriveStatus(day, now, defaultPolicy())
	require.NoError(t, err)
	assert.True(t, d.IsLate)
	assert.Equal(t, 15, d.LateMinutes)
	assert.Equal(t, StatusPresent, d.Status)
	assert.Equal(t, DayComplete, d.DayStatus)
	assert.True(t, decimal.RequireFromString("7.25").Equal(d.TotalHours.Decimal))
}

func TestDeriveStatus_OnThresholdIsNotLate(t *testing.T) {
	day := Day{Date: testDate, CheckIn: ptr(at(11, 30)), CheckOut: ptr(at(18, 0))}
	d, err := DeriveStatus(day, at(20, 0), defaultPolicy())
	require.NoError(t, err)
	assert.False(t, d.IsLate)
	assert.Zero(t, d.LateMinutes)
}

func TestDeriveStatus_HalfDay(t *testing.T) {
	day := Day{Date: testDate, CheckIn: ptr(at(9, 0)), CheckOut: ptr(at(13, 59))}
	d, err := DeriveStatus(day, at(20, 0), defaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, StatusPresent, d.Status)
	assert.Equal(t, DayHalf, d.DayStatus)
}

func TestDeriveStatus_ExactlyThresholdHoursIsComplete(t *testing.T) {
	day := Day{Date: testDate, CheckIn: ptr(at(9, 0)), CheckOut: ptr(at(14, 0))}
	d, err := DeriveStatus(day, at(20, 0), defaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, DayComplete, d.DayStatus)
}

func TestDeriveStatus_NoCheckInIsAbsent(t *testing.T) {
	day := Day{Date: testDate, Status: StatusPresent, DayStatus: DayComplete, IsLate: true, LateMinutes: 40}
	d, err := DeriveStatus(day, testDate.AddDate(0, 0, 3), defaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, StatusAbsent, d.Status)
	assert.Equal(t, DayAbsent, d.DayStatus)
	assert.False(t, d.IsLate)
	assert.Zero(t, d.LateMinutes)
}

func TestDeriveStatus_FutureIsUpcoming(t *testing.T) {
	day := Day{Date: testDate.AddDate(0, 0, 1), CheckIn: ptr(at(9, 0))}
	d, err := DeriveStatus(day, at(20, 0), defaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, StatusUpcoming, d.Status)
	assert.Equal(t, DayUpcoming, d.DayStatus)
	assert.False(t, d.IsLate)
}

func TestDeriveStatus_MissingCheckOut(t *testing.T) {
	day := Day{Date: testDate, CheckIn: ptr(at(9, 0))}

	d, err := DeriveStatus(day, at(12, 0), defaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, DayInProgress, d.DayStatus)
	assert.False(t, d.TotalHours.Valid)

	d, err = DeriveStatus(day, testDate.AddDate(0, 0, 1), defaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, DayHalf, d.DayStatus)
}

func TestDeriveStatus_UsesOfficeTimezone(t *testing.T) {
	p := defaultPolicy()
	p.Timezone = "Asia/Kolkata"
	// 06:30 UTC is 12:00 IST
	checkIn := time.Date(2024, 3, 15, 6, 30, 0, 0, time.UTC)
	day := Day{Date: testDate, CheckIn: &checkIn, CheckOut: ptr(at(13, 0))}

	d, err := DeriveStatus(day, at(20, 0), p)
	require.NoError(t, err)
	assert.True(t, d.IsLate)
	assert.Equal(t, 30, d.LateMinutes)
}

func TestDeriveStatus_InvalidPolicy(t *testing.T) {
	day := Day{Date: testDate, CheckIn: ptr(at(9, 0))}

	for _, p := range []Policy{
		{Timezone: "Mars/Olympus", LateThreshold: "11:30", HalfDayHours: decimal.NewFromInt(5)},
		{Timezone: "UTC", LateThreshold: "half past eleven", HalfDayHours: decimal.NewFromInt(5)},
		{Timezone: "UTC", LateThreshold: "11:30"},
	} {
		_, err := DeriveStatus(day, at(20, 0), p)
		assert.Error(t, err)
	}

	assert.Equal(t, Derived{Status: StatusPresent, DayStatus: DayComplete}, FailOpen())
}

func TestDerived_Apply(t *testing.T) {
	day := Day{CheckIn: ptr(at(9, 0)), CheckOut: ptr(at(18, 0))}
	Derived{Status: StatusPresent, DayStatus: DayComplete, IsLate: true, LateMinutes: 3, TotalHours: decimal.NewNullDecimal(decimal.NewFromInt(9))}.Apply(&day)

	assert.Equal(t, StatusPresent, day.Status)
	assert.True(t, day.IsLate)
	assert.Equal(t, 3, day.LateMinutes)
	assert.True(t, day.TotalHours.Valid)
}
