package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/salary"
	"github.com/cmlabs-hris/attendance-hr-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SalaryHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Calculate(w http.ResponseWriter, r *http.Request)
	Recalculate(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
	Hold(w http.ResponseWriter, r *http.Request)
	Release(w http.ResponseWriter, r *http.Request)
	Slip(w http.ResponseWriter, r *http.Request)
}

type salaryHandlerImpl struct {
	salaryService salary.SalaryService
}

func NewSalaryHandler(salaryService salary.SalaryService) SalaryHandler {
	return &salaryHandlerImpl{salaryService: salaryService}
}

// List implements SalaryHandler. Employees get their own records.
func (h *salaryHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.salaryService.List(r.Context(), salary.SalaryFilter{
		Month:    queryString(r, "month"),
		UserID:   queryString(r, "user_id"),
		OfficeID: queryString(r, "office_id"),
		Status:   queryString(r, "status"),
		Params:   pageParams(r),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// Get implements SalaryHandler.
func (h *salaryHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.salaryService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// Create implements SalaryHandler.
func (h *salaryHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req salary.CreateSalaryRequest
	if !decodeJSON(w, r, &req, "CreateSalary") {
		return
	}
	resp, err := h.salaryService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Salary record created successfully", resp)
}

// Update implements SalaryHandler.
func (h *salaryHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req salary.UpdateSalaryRequest
	if !decodeJSON(w, r, &req, "UpdateSalary") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.salaryService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Salary record updated successfully", resp)
}

// Calculate implements SalaryHandler.
func (h *salaryHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	var req salary.CalculateRequest
	if !decodeJSON(w, r, &req, "CalculateSalaries") {
		return
	}
	resp, err := h.salaryService.Calculate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Salaries calculated", resp)
}

// Recalculate implements SalaryHandler.
func (h *salaryHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	resp, err := h.salaryService.Recalculate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Salary recalculated", resp)
}

func (h *salaryHandlerImpl) statusChange(w http.ResponseWriter, r *http.Request, op, message string, change func(*http.Request, salary.StatusChangeRequest) (salary.SalaryResponse, error)) {
	var req salary.StatusChangeRequest
	if !decodeOptionalJSON(w, r, &req, op) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := change(r, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, message, resp)
}

// MarkPaid implements SalaryHandler.
func (h *salaryHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, "MarkSalaryPaid", "Salary marked as paid", func(r *http.Request, req salary.StatusChangeRequest) (salary.SalaryResponse, error) {
		return h.salaryService.MarkPaid(r.Context(), req)
	})
}

// Hold implements SalaryHandler.
func (h *salaryHandlerImpl) Hold(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, "HoldSalary", "Salary put on hold", func(r *http.Request, req salary.StatusChangeRequest) (salary.SalaryResponse, error) {
		return h.salaryService.Hold(r.Context(), req)
	})
}

// Release implements SalaryHandler.
func (h *salaryHandlerImpl) Release(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, "ReleaseSalary", "Salary released", func(r *http.Request, req salary.StatusChangeRequest) (salary.SalaryResponse, error) {
		return h.salaryService.Release(r.Context(), req)
	})
}

// Slip implements SalaryHandler.
func (h *salaryHandlerImpl) Slip(w http.ResponseWriter, r *http.Request) {
	file, err := h.salaryService.Slip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.File(w, file.Filename, file.ContentType, file.Content)
}
