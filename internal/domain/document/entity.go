package document

import "time"

type Kind string

const (
	KindOfferLetter     Kind = "offer_letter"
	KindIncrementLetter Kind = "increment_letter"
	KindSalarySlip      Kind = "salary_slip"
	KindRelievingLetter Kind = "relieving_letter"
)

func (k Kind) Valid() bool {
	switch k {
	case KindOfferLetter, KindIncrementLetter, KindSalarySlip, KindRelievingLetter:
		return true
	}
	return false
}

// Title is the human name used for generated files.
func (k Kind) Title() string {
	switch k {
	case KindOfferLetter:
		return "Offer Letter"
	case KindIncrementLetter:
		return "Increment Letter"
	case KindSalarySlip:
		return "Salary Slip"
	case KindRelievingLetter:
		return "Relieving Letter"
	}
	return "Document"
}

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
)

func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/html; charset=utf-8"
}

// Template is an HTML body with {{ placeholders }}. At most one template per
// kind is the default.
type Template struct {
	ID        string
	Kind      Kind
	Name      string
	Body      string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Document is a generated file kept under the media root.
type Document struct {
	ID         string
	UserID     string
	TemplateID *string
	Kind       Kind
	Title      string
	Context    map[string]string
	FilePath   string
	Format     Format
	CreatedBy  *string
	CreatedAt  time.Time

	// Join
	UserName *string
}

// File is rendered output ready to send.
type File struct {
	Filename    string
	ContentType string
	Format      Format
	Content     []byte
}
