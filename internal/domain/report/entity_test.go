package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthDays(t *testing.T) {
	days := MonthDays(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	assert.Len(t, days, 29)
	assert.Equal(t, 1, days[0].Day())
	assert.Equal(t, 29, days[28].Day())
}
