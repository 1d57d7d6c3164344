package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/master"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/master/holiday"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/master/office"
	"github.com/cmlabs-hris/attendance-hr-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type MasterHandler interface {
	// Office handlers
	CreateOffice(w http.ResponseWriter, r *http.Request)
	GetOffice(w http.ResponseWriter, r *http.Request)
	ListOffices(w http.ResponseWriter, r *http.Request)
	UpdateOffice(w http.ResponseWriter, r *http.Request)
	DeleteOffice(w http.ResponseWriter, r *http.Request)

	// Holiday handlers
	CreateHoliday(w http.ResponseWriter, r *http.Request)
	ListHolidays(w http.ResponseWriter, r *http.Request)
	DeleteHoliday(w http.ResponseWriter, r *http.Request)
}

type masterHandlerImpl struct {
	masterService master.MasterService
}

func NewMasterHandler(masterService master.MasterService) MasterHandler {
	return &masterHandlerImpl{
		masterService: masterService,
	}
}

// ==================== OFFICE HANDLERS ====================

func (h *masterHandlerImpl) CreateOffice(w http.ResponseWriter, r *http.Request) {
	var req office.CreateOfficeRequest
	if !decodeJSON(w, r, &req, "CreateOffice") {
		return
	}

	resp, err := h.masterService.CreateOffice(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Office created successfully", resp)
}

func (h *masterHandlerImpl) GetOffice(w http.ResponseWriter, r *http.Request) {
	resp, err := h.masterService.GetOffice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *masterHandlerImpl) ListOffices(w http.ResponseWriter, r *http.Request) {
	resp, err := h.masterService.ListOffices(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *masterHandlerImpl) UpdateOffice(w http.ResponseWriter, r *http.Request) {
	var req office.UpdateOfficeRequest
	if !decodeJSON(w, r, &req, "UpdateOffice") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.masterService.UpdateOffice(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Office updated successfully", resp)
}

func (h *masterHandlerImpl) DeleteOffice(w http.ResponseWriter, r *http.Request) {
	if err := h.masterService.DeleteOffice(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Office deleted successfully", nil)
}

// ==================== HOLIDAY HANDLERS ====================

func (h *masterHandlerImpl) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req holiday.CreateHolidayRequest
	if !decodeJSON(w, r, &req, "CreateHoliday") {
		return
	}

	resp, err := h.masterService.CreateHoliday(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday created successfully", resp)
}

func (h *masterHandlerImpl) ListHolidays(w http.ResponseWriter, r *http.Request) {
	filter := holiday.HolidayFilter{
		Year:     getIntQueryParam(r, "year", time.Now().Year()),
		OfficeID: queryString(r, "office_id"),
	}

	resp, err := h.masterService.ListHolidays(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *masterHandlerImpl) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.masterService.DeleteHoliday(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday deleted successfully", nil)
}
