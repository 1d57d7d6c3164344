package holiday

import (
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/validator"
)

type HolidayResponse struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"`
	Name     string  `json:"name"`
	OfficeID *string `json:"office_id,omitempty"`
}

func NewHolidayResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:       h.ID,
		Date:     h.Date.Format("2006-01-02"),
		Name:     h.Name,
		OfficeID: h.OfficeID,
	}
}

type CreateHolidayRequest struct {
	Date     string  `json:"date"`
	Name     string  `json:"name"`
	OfficeID *string `json:"office_id,omitempty"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be YYYY-MM-DD")
	}
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if r.OfficeID != nil && !validator.IsValidUUID(*r.OfficeID) {
		errs.Add("office_id", "invalid office_id")
	}
	return errs.Err()
}

type HolidayFilter struct {
	Year     int     `json:"year"`
	OfficeID *string `json:"office_id,omitempty"`
}
