package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/document"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/master/holiday"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/master/office"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/resignation"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/salary"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-hr-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth and identity
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrRefreshTokenRevoked),
		errors.Is(err, user.ErrUnauthenticated),
		errors.Is(err, notification.ErrInvalidStreamToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrNoLinkedAccount),
		errors.Is(err, user.ErrUserInactive),
		errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, user.ErrCannotDeactivateSelf):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrOAuthDisabled):
		NotFound(w, err.Error())

	// Access to someone else's records
	case errors.Is(err, attendance.ErrForbidden),
		errors.Is(err, leave.ErrForbidden),
		errors.Is(err, leave.ErrCannotReviewOwn),
		errors.Is(err, resignation.ErrForbidden),
		errors.Is(err, resignation.ErrCannotReviewOwn),
		errors.Is(err, salary.ErrForbidden),
		errors.Is(err, document.ErrForbidden):
		Forbidden(w, err.Error())

	// Device push from an unknown source
	case errors.Is(err, device.ErrDeviceNotRegistered),
		errors.Is(err, device.ErrDeviceInactive):
		Forbidden(w, err.Error())

	case errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, office.ErrOfficeNotFound),
		errors.Is(err, holiday.ErrHolidayNotFound),
		errors.Is(err, device.ErrDeviceNotFound),
		errors.Is(err, punch.ErrPunchNotFound),
		errors.Is(err, attendance.ErrAttendanceNotFound),
		errors.Is(err, leave.ErrLeaveNotFound),
		errors.Is(err, resignation.ErrResignationNotFound),
		errors.Is(err, salary.ErrSalaryNotFound),
		errors.Is(err, document.ErrTemplateNotFound),
		errors.Is(err, document.ErrDocumentNotFound),
		errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, err.Error())

	case errors.Is(err, user.ErrUserEmailExists),
		errors.Is(err, user.ErrEmployeeCodeExists),
		errors.Is(err, user.ErrBiometricIDExists),
		errors.Is(err, office.ErrOfficeNameExists),
		errors.Is(err, office.ErrOfficeInUse),
		errors.Is(err, holiday.ErrHolidayExists),
		errors.Is(err, device.ErrSerialNumberExists),
		errors.Is(err, device.ErrSyncInProgress),
		errors.Is(err, leave.ErrOverlappingLeave),
		errors.Is(err, leave.ErrNotPending),
		errors.Is(err, resignation.ErrAlreadyResigned),
		errors.Is(err, resignation.ErrNotPending),
		errors.Is(err, salary.ErrSalaryExists),
		errors.Is(err, salary.ErrSalaryAlreadyPaid),
		errors.Is(err, salary.ErrInvalidTransition):
		Conflict(w, err.Error())

	case errors.Is(err, attendance.ErrCheckOutBeforeIn),
		errors.Is(err, attendance.ErrCheckOutWithoutIn),
		errors.Is(err, attendance.ErrPunchInFuture),
		errors.Is(err, attendance.ErrUserHasNoBiometric),
		errors.Is(err, attendance.ErrRangeTooLarge),
		errors.Is(err, attendance.ErrBackfillFuture),
		errors.Is(err, punch.ErrEmptyPayload),
		errors.Is(err, resignation.ErrLastDayInPast),
		errors.Is(err, salary.ErrMonthNotClosed),
		errors.Is(err, document.ErrNoDefaultTemplate),
		errors.Is(err, document.ErrNotRelieved):
		BadRequest(w, err.Error(), nil)

	case database.IsTransient(err):
		slog.Warn("Database unavailable", "error", err)
		ServiceUnavailable(w, "Database temporarily unavailable, please retry")

	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
