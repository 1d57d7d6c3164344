package office

import (
	"time"

	"github.com/shopspring/decimal"
)

// Office is a physical location. Its late threshold and half-day hours
// override the global attendance defaults when set.
type Office struct {
	ID            string
	Name          string
	Address       *string
	Timezone      string
	LateThreshold *string
	HalfDayHours  decimal.NullDecimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
