package pagination

import (
	"testing"

	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
)

func TestParams_Normalize(t *testing.T) {
	var errs validator.ValidationErrors
	p := Params{}
	p.Normalize(&errs)
	assert.Empty(t, errs)
	assert.Equal(t, Params{Page: 1, Limit: DefaultLimit}, p)

	errs = nil
	p = Params{Page: -1, Limit: 500}
	p.Normalize(&errs)
	assert.Len(t, errs, 2)
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(Params{Page: 2, Limit: 20}, 45, 20)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, "21-40 of 45", meta.Showing)

	empty := NewMeta(Params{Page: 1, Limit: 20}, 0, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.Equal(t, "0-0 of 0", empty.Showing)
}
