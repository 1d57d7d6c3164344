package office

import (
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type OfficeResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Address       *string          `json:"address,omitempty"`
	Timezone      string           `json:"timezone"`
	LateThreshold *string          `json:"late_threshold,omitempty"`
	HalfDayHours  *decimal.Decimal `json:"half_day_hours,omitempty"`
}

func NewOfficeResponse(o Office) OfficeResponse {
	resp := OfficeResponse{
		ID:            o.ID,
		Name:          o.Name,
		Address:       o.Address,
		Timezone:      o.Timezone,
		LateThreshold: o.LateThreshold,
	}
	if o.HalfDayHours.Valid {
		h := o.HalfDayHours.Decimal
		resp.HalfDayHours = &h
	}
	return resp
}

type CreateOfficeRequest struct {
	Name          string           `json:"name"`
	Address       *string          `json:"address,omitempty"`
	Timezone      string           `json:"timezone"`
	LateThreshold *string          `json:"late_threshold,omitempty"`
	HalfDayHours  *decimal.Decimal `json:"half_day_hours,omitempty"`
}

func (r *CreateOfficeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 150 {
		errs.Add("name", "name must not exceed 150 characters")
	}
	if r.Timezone == "" {
		r.Timezone = "Asia/Kolkata"
	}
	validatePolicy(&errs, &r.Timezone, r.LateThreshold, r.HalfDayHours)

	return errs.Err()
}

type UpdateOfficeRequest struct {
	ID            string           `json:"-"`
	Name          *string          `json:"name,omitempty"`
	Address       *string          `json:"address,omitempty"`
	Timezone      *string          `json:"timezone,omitempty"`
	LateThreshold *string          `json:"late_threshold,omitempty"`
	HalfDayHours  *decimal.Decimal `json:"half_day_hours,omitempty"`
}

func (r *UpdateOfficeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "invalid office id")
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "name cannot be empty")
	}
	validatePolicy(&errs, r.Timezone, r.LateThreshold, r.HalfDayHours)

	return errs.Err()
}

func validatePolicy(errs *validator.ValidationErrors, tz, threshold *string, halfDay *decimal.Decimal) {
	if tz != nil {
		if _, err := time.LoadLocation(*tz); err != nil {
			errs.Add("timezone", "unknown timezone")
		}
	}
	if threshold != nil {
		if _, ok := validator.IsValidClock(*threshold); !ok {
			errs.Add("late_threshold", "late_threshold must be HH:MM")
		}
	}
	if halfDay != nil && (!halfDay.IsPositive() || halfDay.GreaterThan(decimal.NewFromInt(24))) {
		errs.Add("half_day_hours", "half_day_hours must be between 0 and 24")
	}
}
