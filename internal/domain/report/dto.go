package report

import (
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/validator"
)

type TodaySummaryResponse struct {
	Date           string         `json:"date"`
	TotalEmployees int            `json:"total_employees"`
	Present        int            `json:"present"`
	Absent         int            `json:"absent"`
	OnLeave        int            `json:"on_leave"`
	NotMarked      int            `json:"not_marked"`
	Late           int            `json:"late"`
	HalfDay        int            `json:"half_day"`
	InProgress     int            `json:"in_progress"`
	AttendanceRate float64        `json:"attendance_rate"`
	Devices        map[string]int `json:"devices"`
}

type MonthlyReportRequest struct {
	Month    string  `json:"month"`
	OfficeID *string `json:"office_id,omitempty"`

	MonthStart time.Time `json:"-"`
}

func (r *MonthlyReportRequest) Validate() error {
	var errs validator.ValidationErrors
	if m, ok := validator.IsValidMonth(r.Month); ok {
		r.MonthStart = m
	} else {
		errs.Add("month", "month must be YYYY-MM")
	}
	if r.OfficeID != nil && !validator.IsValidUUID(*r.OfficeID) {
		errs.Add("office_id", "invalid office_id")
	}
	return errs.Err()
}
