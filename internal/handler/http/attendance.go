package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-hr-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Recalculate(w http.ResponseWriter, r *http.Request)
	ManualPunch(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

func attendanceFilter(r *http.Request) attendance.AttendanceFilter {
	return attendance.AttendanceFilter{
		UserID:    queryString(r, "user_id"),
		OfficeID:  queryString(r, "office_id"),
		Status:    queryString(r, "status"),
		DayStatus: queryString(r, "day_status"),
		IsLate:    queryBool(r, "is_late"),
		DateFrom:  queryString(r, "date_from"),
		DateTo:    queryString(r, "date_to"),
		SortOrder: r.URL.Query().Get("sort_order"),
		Params:    pageParams(r),
	}
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.List(r.Context(), attendanceFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.ListMine(r.Context(), attendanceFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// Update implements AttendanceHandler.
func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateDayRequest
	if !decodeJSON(w, r, &req, "UpdateAttendance") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.attendanceService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance updated successfully", resp)
}

// Recalculate implements AttendanceHandler.
func (h *attendanceHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	var req attendance.RecalculateRequest
	if !decodeJSON(w, r, &req, "RecalculateAttendance") {
		return
	}

	resp, err := h.attendanceService.Recalculate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance recalculated", resp)
}

// ManualPunch implements AttendanceHandler.
func (h *attendanceHandlerImpl) ManualPunch(w http.ResponseWriter, r *http.Request) {
	var req attendance.ManualPunchRequest
	if !decodeJSON(w, r, &req, "ManualPunch") {
		return
	}

	resp, err := h.attendanceService.RecordManualPunch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Punch recorded successfully", resp)
}
