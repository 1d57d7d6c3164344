package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/resignation"
	"github.com/cmlabs-hris/attendance-hr-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ResignationHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Accept(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Withdraw(w http.ResponseWriter, r *http.Request)
}

type resignationHandlerImpl struct {
	resignationService resignation.ResignationService
}

func NewResignationHandler(resignationService resignation.ResignationService) ResignationHandler {
	return &resignationHandlerImpl{resignationService: resignationService}
}

// Submit implements ResignationHandler.
func (h *resignationHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req resignation.SubmitRequest
	if !decodeJSON(w, r, &req, "SubmitResignation") {
		return
	}
	resp, err := h.resignationService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Resignation submitted successfully", resp)
}

// ListMine implements ResignationHandler.
func (h *resignationHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	resp, err := h.resignationService.ListMine(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// List implements ResignationHandler.
func (h *resignationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.resignationService.List(r.Context(), resignation.ResignationFilter{
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

// Get implements ResignationHandler.
func (h *resignationHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.resignationService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// Accept implements ResignationHandler.
func (h *resignationHandlerImpl) Accept(w http.ResponseWriter, r *http.Request) {
	var req resignation.ReviewRequest
	if !decodeOptionalJSON(w, r, &req, "AcceptResignation") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.resignationService.Accept(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Resignation accepted", resp)
}

// Reject implements ResignationHandler.
func (h *resignationHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var req resignation.ReviewRequest
	if !decodeOptionalJSON(w, r, &req, "RejectResignation") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.resignationService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Resignation rejected", resp)
}

// Withdraw implements ResignationHandler.
func (h *resignationHandlerImpl) Withdraw(w http.ResponseWriter, r *http.Request) {
	resp, err := h.resignationService.Withdraw(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Resignation withdrawn", resp)
}
