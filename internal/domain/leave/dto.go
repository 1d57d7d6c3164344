package leave

import (
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type LeaveResponse struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	UserName   *string         `json:"user_name,omitempty"`
	LeaveType  string          `json:"leave_type"`
	StartDate  string          `json:"start_date"`
	EndDate    string          `json:"end_date"`
	IsHalfDay  bool            `json:"is_half_day"`
	Days       decimal.Decimal `json:"days"`
	Reason     string          `json:"reason"`
	Status     string          `json:"status"`
	ReviewedBy *string         `json:"reviewed_by,omitempty"`
	ReviewedAt *string         `json:"reviewed_at,omitempty"`
	ReviewNote *string         `json:"review_note,omitempty"`
	CreatedAt  string          `json:"created_at"`
}

func NewLeaveResponse(r Request) LeaveResponse {
	resp := LeaveResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		UserName:   r.UserName,
		LeaveType:  string(r.LeaveType),
		StartDate:  r.StartDate.Format("2006-01-02"),
		EndDate:    r.EndDate.Format("2006-01-02"),
		IsHalfDay:  r.IsHalfDay,
		Days:       r.Days(),
		Reason:     r.Reason,
		Status:     string(r.Status),
		ReviewedBy: r.ReviewedBy,
		ReviewNote: r.ReviewNote,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
	if r.ReviewedAt != nil {
		s := r.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &s
	}
	return resp
}

type CreateLeaveRequest struct {
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsHalfDay bool   `json:"is_half_day"`
	Reason    string `json:"reason"`

	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if !Type(r.LeaveType).Valid() {
		errs.Add("leave_type", "leave_type must be casual, sick, earned or unpaid")
	}
	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs.Add("start_date", "start_date must be YYYY-MM-DD")
	}
	if r.EndDate == "" {
		r.EndDate = r.StartDate
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs.Add("end_date", "end_date must be YYYY-MM-DD")
	}
	if okStart && okEnd {
		switch {
		case end.Before(start):
			errs.Add("end_date", "end_date must not be before start_date")
		case r.IsHalfDay && !end.Equal(start):
			errs.Add("is_half_day", "a half day leave must start and end on the same date")
		case end.Sub(start) > 90*24*time.Hour:
			errs.Add("end_date", "leave cannot exceed 90 days")
		}
		r.Start, r.End = start, end
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	} else if len(r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	return errs.Err()
}

type ReviewRequest struct {
	ID   string  `json:"-"`
	Note *string `json:"note,omitempty"`
}

func (r *ReviewRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "invalid leave id")
	}
	if r.Note != nil && len(*r.Note) > 500 {
		errs.Add("note", "note must not exceed 500 characters")
	}
	return errs.Err()
}

type LeaveFilter struct {
	UserID   *string `json:"user_id,omitempty"`
	OfficeID *string `json:"office_id,omitempty"`
	Status   *string `json:"status,omitempty"`
	pagination.Params
}

func (f *LeaveFilter) Validate() error {
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
	return errs.Err()
}

type ListLeaveResponse struct {
	pagination.Meta
	Leaves []LeaveResponse `json:"leaves"`
}
