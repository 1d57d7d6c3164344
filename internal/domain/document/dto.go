package document

import (
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/validator"
)

type TemplateResponse struct {
	ID           string   `json:"id"`
	Kind         string   `json:"kind"`
	Name         string   `json:"name"`
	Body         string   `json:"body"`
	IsDefault    bool     `json:"is_default"`
	Placeholders []string `json:"placeholders"`
	UpdatedAt    string   `json:"updated_at"`
}

func NewTemplateResponse(t Template) TemplateResponse {
	return TemplateResponse{
		ID:           t.ID,
		Kind:         string(t.Kind),
		Name:         t.Name,
		Body:         t.Body,
		IsDefault:    t.IsDefault,
		Placeholders: Placeholders(t.Body),
		UpdatedAt:    t.UpdatedAt.Format(time.RFC3339),
	}
}

type CreateTemplateRequest struct {
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Body      string `json:"body"`
	IsDefault bool   `json:"is_default"`
}

func (r *CreateTemplateRequest) Validate() error {
	var errs validator.ValidationErrors
	if !Kind(r.Kind).Valid() {
		errs.Add("kind", "kind must be offer_letter, increment_letter, salary_slip or relieving_letter")
	}
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if validator.IsEmpty(r.Body) {
		errs.Add("body", "body is required")
	}
	return errs.Err()
}

type UpdateTemplateRequest struct {
	ID        string  `json:"-"`
	Name      *string `json:"name,omitempty"`
	Body      *string `json:"body,omitempty"`
	IsDefault *bool   `json:"is_default,omitempty"`
}

func (r *UpdateTemplateRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "invalid template id")
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "name cannot be empty")
	}
	if r.Body != nil && validator.IsEmpty(*r.Body) {
		errs.Add("body", "body cannot be empty")
	}
	return errs.Err()
}

// GenerateRequest renders a letter for one user. Fields are merged over the
// values derived from the user's profile.
type GenerateRequest struct {
	Kind       string            `json:"kind"`
	UserID     string            `json:"user_id"`
	TemplateID *string           `json:"template_id,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
}

func (r *GenerateRequest) Validate() error {
	var errs validator.ValidationErrors
	if !Kind(r.Kind).Valid() {
		errs.Add("kind", "kind must be offer_letter, increment_letter, salary_slip or relieving_letter")
	} else if Kind(r.Kind) == KindSalarySlip {
		errs.Add("kind", "salary slips are generated from the salary record")
	}
	if !validator.IsValidUUID(r.UserID) {
		errs.Add("user_id", "invalid user_id")
	}
	if r.TemplateID != nil && !validator.IsValidUUID(*r.TemplateID) {
		errs.Add("template_id", "invalid template_id")
	}
	return errs.Err()
}

type DocumentResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	UserName    *string `json:"user_name,omitempty"`
	TemplateID  *string `json:"template_id,omitempty"`
	Kind        string  `json:"kind"`
	Title       string  `json:"title"`
	Format      string  `json:"format"`
	DownloadURL string  `json:"download_url"`
	CreatedAt   string  `json:"created_at"`
}

func NewDocumentResponse(d Document, downloadURL string) DocumentResponse {
	return DocumentResponse{
		ID:          d.ID,
		UserID:      d.UserID,
		UserName:    d.UserName,
		TemplateID:  d.TemplateID,
		Kind:        string(d.Kind),
		Title:       d.Title,
		Format:      string(d.Format),
		DownloadURL: downloadURL,
		CreatedAt:   d.CreatedAt.Format(time.RFC3339),
	}
}

type DocumentFilter struct {
	UserID *string `json:"user_id,omitempty"`
	Kind   *string `json:"kind,omitempty"`
	pagination.Params
}

func (f *DocumentFilter) Validate() error {
	var errs validator.ValidationErrors
	f.Normalize(&errs)
	if f.UserID != nil && !validator.IsValidUUID(*f.UserID) {
		errs.Add("user_id", "invalid user_id")
	}
	if f.Kind != nil && !Kind(*f.Kind).Valid() {
		errs.Add("kind", "invalid kind")
	}
	return errs.Err()
}

type ListDocumentResponse struct {
	pagination.Meta
	Documents []DocumentResponse `json:"documents"`
}

type SeedResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}
