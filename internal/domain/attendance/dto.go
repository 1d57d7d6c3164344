package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// MaxRangeDays bounds recalculation and report ranges.
const MaxRangeDays = 62

type AttendanceResponse struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	UserName    *string          `json:"user_name,omitempty"`
	BiometricID *string          `json:"biometric_id,omitempty"`
	Date        string           `json:"date"`
	CheckIn     *string          `json:"check_in,omitempty"`
	CheckOut    *string          `json:"check_out,omitempty"`
	TotalHours  *decimal.Decimal `json:"total_hours,omitempty"`
	Status      string           `json:"status"`
	DayStatus   string           `json:"day_status"`
	IsLate      bool             `json:"is_late"`
	LateMinutes int              `json:"late_minutes"`
	Remarks     *string          `json:"remarks,omitempty"`
	UpdatedAt   string           `json:"updated_at"`
}

func formatTS(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func NewAttendanceResponse(d Day) AttendanceResponse {
	resp := AttendanceResponse{
		ID:          d.ID,
		UserID:      d.UserID,
		UserName:    d.UserName,
		BiometricID: d.BiometricID,
		Date:        d.Date.Format("2006-01-02"),
		CheckIn:     formatTS(d.CheckIn),
		CheckOut:    formatTS(d.CheckOut),
		Status:      string(d.Status),
		DayStatus:   string(d.DayStatus),
		IsLate:      d.IsLate,
		LateMinutes: d.LateMinutes,
		Remarks:     d.Remarks,
		UpdatedAt:   d.UpdatedAt.Format(time.RFC3339),
	}
	if d.TotalHours.Valid {
		h := d.TotalHours.Decimal
		resp.TotalHours = &h
	}
	return resp
}

type ListAttendanceResponse struct {
	pagination.Meta
	Attendances []AttendanceResponse `json:"attendances"`
}

// AttendanceFilter is used by the role-scoped list. The service narrows
// UserID and OfficeID according to the caller.
type AttendanceFilter struct {
	UserID    *string `json:"user_id,omitempty"`
	OfficeID  *string `json:"office_id,omitempty"`
	Status    *string `json:"status,omitempty"`
	DayStatus *string `json:"day_status,omitempty"`
	IsLate    *bool   `json:"is_late,omitempty"`
	DateFrom  *string `json:"date_from,omitempty"`
	DateTo    *string `json:"date_to,omitempty"`
	SortOrder string  `json:"sort_order"`
	pagination.Params

	From *time.Time `json:"-"`
	To   *time.Time `json:"-"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	f.Normalize(&errs)
	if f.UserID != nil && !validator.IsValidUUID(*f.UserID) {
		errs.Add("user_id", "invalid user_id")
	}
	if f.OfficeID != nil && !validator.IsValidUUID(*f.OfficeID) {
		errs.Add("office_id", "invalid office_id")
	}
	if f.Status != nil && !Status(*f.Status).Valid() {
		errs.Add("status", "invalid status")
	}
	if f.DateFrom != nil {
		if d, ok := validator.IsValidDate(*f.DateFrom); ok {
			f.From = &d
		} else {
			errs.Add("date_from", "date_from must be YYYY-MM-DD")
		}
	}
	if f.DateTo != nil {
		if d, ok := validator.IsValidDate(*f.DateTo); ok {
			f.To = &d
		} else {
			errs.Add("date_to", "date_to must be YYYY-MM-DD")
		}
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		errs.Add("date_to", "date_to must not be before date_from")
	}
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	}
	if f.SortOrder != "asc" && f.SortOrder != "desc" {
		errs.Add("sort_order", "sort_order must be asc or desc")
	}

	return errs.Err()
}

// UpdateDayRequest is a manual correction by HR. Status is re-derived from
// the corrected punches afterwards.
type UpdateDayRequest struct {
	ID            string  `json:"-"`
	CheckIn       *string `json:"check_in,omitempty"`
	CheckOut      *string `json:"check_out,omitempty"`
	ClearCheckOut bool    `json:"clear_check_out"`
	Remarks       *string `json:"remarks,omitempty"`

	CheckInAt  *time.Time `json:"-"`
	CheckOutAt *time.Time `json:"-"`
}

func (r *UpdateDayRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "invalid attendance id")
	}
	if r.CheckIn != nil {
		if t, ok := validator.IsValidDateTime(*r.CheckIn); ok {
			r.CheckInAt = &t
		} else {
			errs.Add("check_in", "check_in must be an RFC 3339 timestamp")
		}
	}
	if r.CheckOut != nil {
		if r.ClearCheckOut {
			errs.Add("check_out", "check_out cannot be set and cleared at once")
		} else if t, ok := validator.IsValidDateTime(*r.CheckOut); ok {
			r.CheckOutAt = &t
		} else {
			errs.Add("check_out", "check_out must be an RFC 3339 timestamp")
		}
	}
	if r.Remarks != nil && len(*r.Remarks) > 500 {
		errs.Add("remarks", "remarks must not exceed 500 characters")
	}

	return errs.Err()
}

type RecalculateRequest struct {
	DateFrom string  `json:"date_from"`
	DateTo   string  `json:"date_to"`
	UserID   *string `json:"user_id,omitempty"`
	OfficeID *string `json:"office_id,omitempty"`

	From time.Time `json:"-"`
	To   time.Time `json:"-"`
}

func (r *RecalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	from, okFrom := validator.IsValidDate(r.DateFrom)
	if !okFrom {
		errs.Add("date_from", "date_from must be YYYY-MM-DD")
	}
	to, okTo := validator.IsValidDate(r.DateTo)
	if !okTo {
		errs.Add("date_to", "date_to must be YYYY-MM-DD")
	}
	if okFrom && okTo {
		if to.Before(from) {
			errs.Add("date_to", "date_to must not be before date_from")
		} else if to.Sub(from) > MaxRangeDays*24*time.Hour {
			errs.Add("date_to", ErrRangeTooLarge.Error())
		}
		r.From, r.To = from, to
	}
	if r.UserID != nil && !validator.IsValidUUID(*r.UserID) {
		errs.Add("user_id", "invalid user_id")
	}
	if r.OfficeID != nil && !validator.IsValidUUID(*r.OfficeID) {
		errs.Add("office_id", "invalid office_id")
	}

	return errs.Err()
}

type RecalculateResponse struct {
	Processed int `json:"processed"`
	Changed   int `json:"changed"`
	Failed    int `json:"failed"`
}

// ManualPunchRequest records a punch on behalf of a user, for example when
// the device was down.
type ManualPunchRequest struct {
	UserID    string  `json:"user_id"`
	PunchTime string  `json:"punch_time"`
	Remarks   *string `json:"remarks,omitempty"`

	At time.Time `json:"-"`
}

func (r *ManualPunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.UserID) {
		errs.Add("user_id", "invalid user_id")
	}
	if t, ok := validator.IsValidDateTime(r.PunchTime); ok {
		r.At = t
	} else {
		errs.Add("punch_time", "punch_time must be an RFC 3339 timestamp")
	}

	return errs.Err()
}

// BackfillResult summarises one absence backfill run.
type BackfillResult struct {
	Date     string `json:"date"`
	Created  int    `json:"created"`
	Existing int    `json:"existing"`
	Failed   int    `json:"failed"`
}

type RebuildResult struct {
	Days   int `json:"days"`
	Failed int `json:"failed"`
}
