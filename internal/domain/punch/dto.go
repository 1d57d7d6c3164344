package punch

import (
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/validator"
)

type PunchResponse struct {
	ID          string  `json:"id"`
	DeviceID    *string `json:"device_id,omitempty"`
	DeviceName  *string `json:"device_name,omitempty"`
	BiometricID string  `json:"biometric_id"`
	UserID      *string `json:"user_id,omitempty"`
	UserName    *string `json:"user_name,omitempty"`
	PunchTime   string  `json:"punch_time"`
	PunchType   string  `json:"punch_type"`
	StatusCode  int     `json:"status_code"`
	Source      string  `json:"source"`
	Processed   bool    `json:"processed"`
	Remarks     *string `json:"remarks,omitempty"`
}

func NewPunchResponse(e Event) PunchResponse {
	return PunchResponse{
		ID:          e.ID,
		DeviceID:    e.DeviceID,
		DeviceName:  e.DeviceName,
		BiometricID: e.BiometricID,
		UserID:      e.UserID,
		UserName:    e.UserName,
		PunchTime:   e.PunchTime.Format(time.RFC3339),
		PunchType:   string(e.PunchType),
		StatusCode:  e.StatusCode,
		Source:      string(e.Source),
		Processed:   e.Processed,
		Remarks:     e.Remarks,
	}
}

type PunchFilter struct {
	DeviceID *string `json:"-"`
	DateFrom *string `json:"date_from,omitempty"`
	DateTo   *string `json:"date_to,omitempty"`
	pagination.Params

	From *time.Time `json:"-"`
	To   *time.Time `json:"-"`
}

func (f *PunchFilter) Validate() error {
	var errs validator.ValidationErrors
	f.Normalize(&errs)
	if f.DateFrom != nil {
		if d, ok := validator.IsValidDate(*f.DateFrom); ok {
			f.From = &d
		} else {
			errs.Add("date_from", "date_from must be YYYY-MM-DD")
		}
	}
	if f.DateTo != nil {
		if d, ok := validator.IsValidDate(*f.DateTo); ok {
			end := d.AddDate(0, 0, 1)
			f.To = &end
		} else {
			errs.Add("date_to", "date_to must be YYYY-MM-DD")
		}
	}
	return errs.Err()
}

type ListPunchResponse struct {
	pagination.Meta
	Punches []PunchResponse `json:"punches"`
}

// Batch is a set of records from one source, stored and reconciled together.
type Batch struct {
	DeviceID *string
	Source   Source
	Records  []Record
	// UserID pins the batch to one user for manual punches.
	UserID  *string
	Remarks *string
}

// IngestResult counts what happened to each record of a batch.
type IngestResult struct {
	Received     int `json:"received"`
	Duplicates   int `json:"duplicates"`
	Stored       int `json:"stored"`
	Applied      int `json:"applied"`
	UnknownUsers int `json:"unknown_users"`
}

func (r *IngestResult) Add(o IngestResult) {
	r.Received += o.Received
	r.Duplicates += o.Duplicates
	r.Stored += o.Stored
	r.Applied += o.Applied
	r.UnknownUsers += o.UnknownUsers
}
