package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/salary"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleError(t *testing.T) {
	var verrs validator.ValidationErrors
	verrs.Add("month", "month must be YYYY-MM")

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", verrs, http.StatusUnprocessableEntity, CodeValidation},
		{"wrapped not found", fmt.Errorf("failed to load: %w", salary.ErrSalaryNotFound), http.StatusNotFound, CodeNotFound},
		{"unregistered device", device.ErrDeviceNotRegistered, http.StatusForbidden, CodeForbidden},
		{"overlapping leave", leave.ErrOverlappingLeave, http.StatusConflict, CodeConflict},
		{"month not closed", salary.ErrMonthNotClosed, http.StatusBadRequest, CodeBadRequest},
		{"unauthenticated", user.ErrUnauthenticated, http.StatusUnauthorized, CodeUnauthorized},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			body := decode(t, rec)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}

	rec := httptest.NewRecorder()
	HandleError(rec, verrs)
	assert.Equal(t, "month must be YYYY-MM", decode(t, rec).Error.Details["month"])

	rec = httptest.NewRecorder()
	HandleError(rec, errors.New("pq: password authentication failed"))
	assert.Equal(t, "An unexpected error occurred", decode(t, rec).Error.Message, "internal errors are not echoed")
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Created(rec, "Leave request submitted", map[string]string{"id": "l1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, "Leave request submitted", body.Message)
	assert.Nil(t, body.Error)
	assert.Equal(t, map[string]any{"id": "l1"}, body.Data)
}

func TestFile(t *testing.T) {
	rec := httptest.NewRecorder()
	File(rec, "salary-slip-2024-03.pdf", "application/pdf", []byte("%PDF-1.3"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="salary-slip-2024-03.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "8", rec.Header().Get("Content-Length"))
	assert.Equal(t, "%PDF-1.3", rec.Body.String())
}
