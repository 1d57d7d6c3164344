package holiday

import "time"

// Holiday applies to one office, or to every office when OfficeID is nil.
type Holiday struct {
	ID        string
	Date      time.Time
	Name      string
	OfficeID  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
