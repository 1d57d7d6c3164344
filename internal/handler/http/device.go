package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-hr-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type DeviceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Sync(w http.ResponseWriter, r *http.Request)
	ListPunches(w http.ResponseWriter, r *http.Request)
}

type deviceHandlerImpl struct {
	deviceService device.DeviceService
}

func NewDeviceHandler(deviceService device.DeviceService) DeviceHandler {
	return &deviceHandlerImpl{deviceService: deviceService}
}

// List implements DeviceHandler.
func (h *deviceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	devices, err := h.deviceService.List(r.Context(), device.DeviceFilter{
		OfficeID: queryString(r, "office_id"),
		IsActive: queryBool(r, "is_active"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, devices)
}

// Create implements DeviceHandler.
func (h *deviceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req device.CreateDeviceRequest
	if !decodeJSON(w, r, &req, "CreateDevice") {
		return
	}
	created, err := h.deviceService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Device registered successfully", created)
}

// Get implements DeviceHandler.
func (h *deviceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.deviceService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, d)
}

// Update implements DeviceHandler.
func (h *deviceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req device.UpdateDeviceRequest
	if !decodeJSON(w, r, &req, "UpdateDevice") {
		return
	}
	req.ID = chi.URLParam(r, "id")
	updated, err := h.deviceService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Device updated successfully", updated)
}

// Delete implements DeviceHandler.
func (h *deviceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.deviceService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Device deleted successfully", nil)
}

// Sync implements DeviceHandler. A device that cannot be reached still
// answers 200 with the error recorded in the result.
func (h *deviceHandlerImpl) Sync(w http.ResponseWriter, r *http.Request) {
	result, err := h.deviceService.Sync(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ListPunches implements DeviceHandler.
func (h *deviceHandlerImpl) ListPunches(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "id")
	punches, err := h.deviceService.ListPunches(r.Context(), punch.PunchFilter{
		DeviceID: &deviceID,
		DateFrom: queryString(r, "date_from"),
		DateTo:   queryString(r, "date_to"),
		Params:   pageParams(r),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, punches)
}
