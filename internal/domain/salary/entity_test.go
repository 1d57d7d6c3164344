package salary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatus_CanTransition(t *testing.T) {
	assert.True(t, StatusPending.CanTransition(StatusHold))
	assert.True(t, StatusPending.CanTransition(StatusPaid))
	assert.True(t, StatusHold.CanTransition(StatusPending))
	assert.True(t, StatusHold.CanTransition(StatusPaid))

	assert.False(t, StatusPending.CanTransition(StatusPending))
	assert.False(t, StatusPaid.CanTransition(StatusPending))
	assert.False(t, StatusPaid.CanTransition(StatusHold))
}

func TestRecord_ApplyAttendanceAndPay(t *testing.T) {
	r := Record{
		Month:                  time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC),
		PerDayPay:              d("400"),
		PreviousMonthCarryOver: d("100"),
		Deduction:              d("50"),
	}
	r.ApplyAttendance(20, 4, 0)
	r.RecomputePay()

	assert.Equal(t, 2, r.ExtraDays)
	assert.Equal(t, 26, r.WorkedDays)
	assert.True(t, d("10400").Equal(r.GrossSalary))
	assert.True(t, d("10450").Equal(r.NetSalary))
	assert.True(t, d("10450").Equal(r.FinalPayable))
}
