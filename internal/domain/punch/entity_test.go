package punch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordHash(t *testing.T) {
	ts := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	ist := time.FixedZone("IST", 19800)

	h := RecordHash("dev-1", "1001", ts, 0)
	assert.Len(t, h, 40)
	assert.Equal(t, h, RecordHash("dev-1", "1001", ts.In(ist), 0), "same instant in another zone")
	assert.NotEqual(t, h, RecordHash("dev-2", "1001", ts, 0))
	assert.NotEqual(t, h, RecordHash("dev-1", "1002", ts, 0))
	assert.NotEqual(t, h, RecordHash("dev-1", "1001", ts.Add(time.Second), 0))
	assert.NotEqual(t, h, RecordHash("dev-1", "1001", ts, 1))

	r := Record{BiometricID: "1001", Timestamp: ts}
	assert.Equal(t, h, r.Hash("dev-1"))
}

func TestTypeFromStatus(t *testing.T) {
	tests := []struct {
		code int
		want PunchType
	}{
		{0, PunchIn},
		{1, PunchOut},
		{2, PunchUnknown},
		{3, PunchUnknown},
		{4, PunchIn},
		{5, PunchOut},
		{StatusUnknown, PunchUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TypeFromStatus(tt.code), "code %d", tt.code)
	}
}

func TestParseStatus(t *testing.T) {
	tests := map[string]int{
		"0":           0,
		" 1 ":         1,
		"5":           5,
		"in":          0,
		"Check-In":    0,
		"checkin":     0,
		"OUT":         1,
		"check_out":   1,
		"Overtime In": 4,
		"break":       StatusUnknown,
		"":            StatusUnknown,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseStatus(in), "input %q", in)
	}
}
