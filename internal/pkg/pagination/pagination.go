package pagination

import (
	"fmt"

	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/validator"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is embedded in list filters.
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Normalize fills defaults and records out-of-range values in errs.
func (p *Params) Normalize(errs *validator.ValidationErrors) {
	if p.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		errs.Add("limit", fmt.Sprintf("limit must not exceed %d", MaxLimit))
	}
}

func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta describes one page of a list response.
type Meta struct {
	TotalCount int64  `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
	Showing    string `json:"showing"`
}

func NewMeta(p Params, total int64, count int) Meta {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}

	showing := fmt.Sprintf("0-0 of %d", total)
	if count > 0 {
		from := p.Offset() + 1
		showing = fmt.Sprintf("%d-%d of %d", from, from+count-1, total)
	}

	return Meta{
		TotalCount: total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
		Showing:    showing,
	}
}
