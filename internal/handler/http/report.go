package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-hr-go/internal/handler/http/response"
)

type ReportHandler interface {
	Today(w http.ResponseWriter, r *http.Request)
	MonthlyAttendance(w http.ResponseWriter, r *http.Request)
	MonthlySalaries(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

func monthlyRequest(r *http.Request) report.MonthlyReportRequest {
	return report.MonthlyReportRequest{
		Month:    r.URL.Query().Get("month"),
		OfficeID: queryString(r, "office_id"),
	}
}

// Today implements ReportHandler.
func (h *reportHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	resp, err := h.reportService.TodaySummary(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// MonthlyAttendance implements ReportHandler.
func (h *reportHandlerImpl) MonthlyAttendance(w http.ResponseWriter, r *http.Request) {
	wb, err := h.reportService.MonthlyAttendance(r.Context(), monthlyRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.File(w, wb.Filename, report.ContentTypeXLSX, wb.Content)
}

// MonthlySalaries implements ReportHandler.
func (h *reportHandlerImpl) MonthlySalaries(w http.ResponseWriter, r *http.Request) {
	wb, err := h.reportService.MonthlySalaries(r.Context(), monthlyRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.File(w, wb.Filename, report.ContentTypeXLSX, wb.Content)
}
