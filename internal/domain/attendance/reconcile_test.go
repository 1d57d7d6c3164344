package attendance

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return time.Date(2024, time.March, 15, h, m, 0, 0, time.UTC)
}

func TestApplyPunch_Transitions(t *testing.T) {
	day, outcome := ApplyPunch(nil, "u1", testDate, at(9, 30))
	assert.Equal(t, OutcomeCreated, outcome)
	assert.Equal(t, StatusPresent, day.Status)
	require.NotNil(t, day.CheckIn)
	assert.Nil(t, day.CheckOut)

	day, outcome = ApplyPunch(&day, "u1", testDate, at(18, 0))
	assert.Equal(t, OutcomeCheckOutSet, outcome)
	assert.Equal(t, at(18, 0), *day.CheckOut)

	day, outcome = ApplyPunch(&day, "u1", testDate, at(9, 0))
	assert.Equal(t, OutcomeCheckInEarlier, outcome)
	assert.Equal(t, at(9, 0), *day.CheckIn)
	assert.Equal(t, at(18, 0), *day.CheckOut)

	day, outcome = ApplyPunch(&day, "u1", testDate, at(19, 15))
	assert.Equal(t, OutcomeCheckOutLater, outcome)
	assert.Equal(t, at(19, 15), *day.CheckOut)

	_, outcome = ApplyPunch(&day, "u1", testDate, at(13, 0))
	assert.Equal(t, OutcomeIgnored, outcome)
	assert.False(t, outcome.Changed())
}

func TestApplyPunch_FillsMissingCheckIn(t *testing.T) {
	repaired := Day{UserID: "u1", Date: testDate, Status: StatusAbsent}
	day, outcome := ApplyPunch(&repaired, "u1", testDate, at(10, 0))
	assert.Equal(t, OutcomeCheckInFilled, outcome)
	assert.Equal(t, at(10, 0), *day.CheckIn)
	assert.Equal(t, StatusPresent, day.Status)
}

func TestApplyPunch_EarlierPunchKeepsLaterAsCheckOut(t *testing.T) {
	day := Fold("u1", testDate, []time.Time{at(18, 0), at(9, 0)})
	require.NotNil(t, day)
	assert.Equal(t, at(9, 0), *day.CheckIn)
	assert.Equal(t, at(18, 0), *day.CheckOut)
}

func TestApplyPunch_SamePunchTwiceIsNoOp(t *testing.T) {
	day := Fold("u1", testDate, []time.Time{at(9, 0), at(18, 0)})
	require.NotNil(t, day)

	for _, ts := range []time.Time{at(9, 0), at(18, 0)} {
		again, outcome := ApplyPunch(day, "u1", testDate, ts)
		assert.Equal(t, OutcomeIgnored, outcome)
		assert.Equal(t, *day, again)
	}
}

func TestFold_OrderIndependent(t *testing.T) {
	punches := []time.Time{at(8, 55), at(9, 1), at(12, 30), at(13, 10), at(17, 45), at(18, 2)}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 50; i++ {
		shuffled := append([]time.Time(nil), punches...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		day := Fold("u1", testDate, shuffled)
		require.NotNil(t, day)
		assert.Equal(t, at(8, 55), *day.CheckIn, "order %v", shuffled)
		assert.Equal(t, at(18, 2), *day.CheckOut, "order %v", shuffled)
	}
}

func TestFold_Empty(t *testing.T) {
	assert.Nil(t, Fold("u1", testDate, nil))
}

func TestDateOf(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	ts := time.Date(2024, 3, 14, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), DateOf(ts, ist))
}

func TestAbsence(t *testing.T) {
	assert.Equal(t, DayWeekend, Absence("u", testDate, StatusWeekend).DayStatus)
	assert.Equal(t, DayHoliday, Absence("u", testDate, StatusHoliday).DayStatus)
	assert.Equal(t, DayOnLeave, Absence("u", testDate, StatusOnLeave).DayStatus)

	d := Absence("u", testDate, StatusPresent)
	assert.Equal(t, StatusAbsent, d.Status)
	assert.Equal(t, DayAbsent, d.DayStatus)
}
