package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/document"
	"github.com/cmlabs-hris/attendance-hr-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type DocumentHandler interface {
	ListTemplates(w http.ResponseWriter, r *http.Request)
	CreateTemplate(w http.ResponseWriter, r *http.Request)
	GetTemplate(w http.ResponseWriter, r *http.Request)
	UpdateTemplate(w http.ResponseWriter, r *http.Request)
	DeleteTemplate(w http.ResponseWriter, r *http.Request)

	Generate(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Download(w http.ResponseWriter, r *http.Request)
}

type documentHandlerImpl struct {
	documentService document.DocumentService
}

func NewDocumentHandler(documentService document.DocumentService) DocumentHandler {
	return &documentHandlerImpl{documentService: documentService}
}

// ListTemplates implements DocumentHandler.
func (h *documentHandlerImpl) ListTemplates(w http.ResponseWriter, r *http.Request) {
	var kind *document.Kind
	if k := queryString(r, "kind"); k != nil {
		v := document.Kind(*k)
		kind = &v
	}
	templates, err := h.documentService.ListTemplates(r.Context(), kind)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, templates)
}

// CreateTemplate implements DocumentHandler.
func (h *documentHandlerImpl) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req document.CreateTemplateRequest
	if !decodeJSON(w, r, &req, "CreateTemplate") {
		return
	}
	resp, err := h.documentService.CreateTemplate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Template created successfully", resp)
}

// GetTemplate implements DocumentHandler.
func (h *documentHandlerImpl) GetTemplate(w http.ResponseWriter, r *http.Request) {
	resp, err := h.documentService.GetTemplate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// UpdateTemplate implements DocumentHandler.
func (h *documentHandlerImpl) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var req document.UpdateTemplateRequest
	if !decodeJSON(w, r, &req, "UpdateTemplate") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.documentService.UpdateTemplate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Template updated successfully", resp)
}

// DeleteTemplate implements DocumentHandler.
func (h *documentHandlerImpl) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.documentService.DeleteTemplate(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Template deleted successfully", nil)
}

// Generate implements DocumentHandler.
func (h *documentHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req document.GenerateRequest
	if !decodeJSON(w, r, &req, "GenerateDocument") {
		return
	}
	resp, err := h.documentService.Generate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Document generated successfully", resp)
}

// List implements DocumentHandler.
func (h *documentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.documentService.List(r.Context(), document.DocumentFilter{
		UserID: queryString(r, "user_id"),
		Kind:   queryString(r, "kind"),
		Params: pageParams(r),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// Get implements DocumentHandler.
func (h *documentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.documentService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// Download implements DocumentHandler.
func (h *documentHandlerImpl) Download(w http.ResponseWriter, r *http.Request) {
	file, err := h.documentService.Download(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.File(w, file.Filename, file.ContentType, file.Content)
}
