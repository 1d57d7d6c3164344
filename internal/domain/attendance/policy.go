package attendance

import (
	// Office timezones must resolve in minimal container images.
	_ "time/tzdata"

	"github.com/cmlabs-hris/attendance-hr-go/internal/config"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/master/office"
	"github.com/shopspring/decimal"
)

// DefaultPolicy builds the company-wide policy from configuration.
func DefaultPolicy(cfg config.AttendanceConfig) Policy {
	return Policy{
		Timezone:      cfg.Timezone,
		LateThreshold: cfg.LateThreshold,
		HalfDayHours:  decimal.NewFromFloat(cfg.HalfDayHours),
	}
}

// PolicyFor overlays an office's own settings on defaults. o may be nil.
func PolicyFor(o *office.Office, defaults Policy) Policy {
	p := defaults
	if o == nil {
		return p
	}
	if o.Timezone != "" {
		p.Timezone = o.Timezone
	}
	if o.LateThreshold != nil && *o.LateThreshold != "" {
		p.LateThreshold = *o.LateThreshold
	}
	if o.HalfDayHours.Valid {
		p.HalfDayHours = o.HalfDayHours.Decimal
	}
	return p
}
