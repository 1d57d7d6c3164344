package resignation

import (
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/validator"
)

type ResignationResponse struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	UserName       *string `json:"user_name,omitempty"`
	NoticeDate     string  `json:"notice_date"`
	LastWorkingDay string  `json:"last_working_day"`
	NoticeDays     int     `json:"notice_days"`
	Reason         string  `json:"reason"`
	Status         string  `json:"status"`
	ReviewedBy     *string `json:"reviewed_by,omitempty"`
	ReviewedAt     *string `json:"reviewed_at,omitempty"`
	ReviewNote     *string `json:"review_note,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

func NewResignationResponse(r Resignation) ResignationResponse {
	resp := ResignationResponse{
		ID:             r.ID,
		UserID:         r.UserID,
		UserName:       r.UserName,
		NoticeDate:     r.NoticeDate.Format("2006-01-02"),
		LastWorkingDay: r.LastWorkingDay.Format("2006-01-02"),
		NoticeDays:     r.NoticeDays(),
		Reason:         r.Reason,
		Status:         string(r.Status),
		ReviewedBy:     r.ReviewedBy,
		ReviewNote:     r.ReviewNote,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
	if r.ReviewedAt != nil {
		s := r.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &s
	}
	return resp
}

type SubmitRequest struct {
	LastWorkingDay string `json:"last_working_day"`
	Reason         string `json:"reason"`

	LastDay time.Time `json:"-"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors
	if d, ok := validator.IsValidDate(r.LastWorkingDay); ok {
		r.LastDay = d
	} else {
		errs.Add("last_working_day", "last_working_day must be YYYY-MM-DD")
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	}
	return errs.Err()
}

// ReviewRequest accepts or rejects. LastWorkingDay lets HR adjust the
// relieving date on acceptance.
type ReviewRequest struct {
	ID             string  `json:"-"`
	Note           *string `json:"note,omitempty"`
	LastWorkingDay *string `json:"last_working_day,omitempty"`

	LastDay *time.Time `json:"-"`
}

func (r *ReviewRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "invalid resignation id")
	}
	if r.LastWorkingDay != nil {
		if d, ok := validator.IsValidDate(*r.LastWorkingDay); ok {
			r.LastDay = &d
		} else {
			errs.Add("last_working_day", "last_working_day must be YYYY-MM-DD")
		}
	}
	return errs.Err()
}

type ResignationFilter struct {
	UserID   *string `json:"user_id,omitempty"`
	OfficeID *string `json:"office_id,omitempty"`
	Status   *string `json:"status,omitempty"`
	pagination.Params
}

func (f *ResignationFilter) Validate() error {
	var errs validator.ValidationErrors
	f.Normalize(&errs)
	if f.Status != nil && !Status(*f.Status).Valid() {
		errs.Add("status", "invalid status")
	}
	if f.OfficeID != nil && !validator.IsValidUUID(*f.OfficeID) {
		errs.Add("office_id", "invalid office_id")
	}
	return errs.Err()
}

type ListResignationResponse struct {
	pagination.Meta
	Resignations []ResignationResponse `json:"resignations"`
}
