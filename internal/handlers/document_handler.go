package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"pdf-whisperer/internal/models"
	"pdf-whisperer/internal/services"
)

// DocumentHandler handles HTTP requests for document operations
type DocumentHandler struct {
	docService *services.DocumentService
	logger     *log.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService *services.DocumentService, logger *log.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		logger:     logger,
	}
}

// removeRequest is the payload for document removal. The original frontend
// sent the name under "fileName"; both keys are accepted.
type removeRequest struct {
	Name     string `json:"name"`
	FileName string `json:"fileName"`
}

// DocumentListResponse represents the document listing payload
type DocumentListResponse struct {
	Documents []models.DocumentSummary `json:"documents"`
	Count     int                      `json:"count"`
}

// UploadPDF godoc
// @Summary Upload a PDF document
// @Description Upload a PDF, extract its text and add it to the chat context
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param pdfFile formData file true "PDF file"
// @Success 200 {object} services.UploadDocumentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /upload-pdf [post]
func (h *DocumentHandler) UploadPDF(w http.ResponseWriter, r *http.Request) {
	h.logger.Printf("Upload request from %s", r.RemoteAddr)

	if err := r.ParseMultipartForm(services.MaxUploadSize); err != nil {
		h.logger.Printf("Failed to parse form: %v", err)
		h.sendError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	file, header, err := r.FormFile("pdfFile")
	if err != nil {
		h.logger.Printf("No file uploaded: %v", err)
		h.sendError(w, http.StatusBadRequest, "No PDF file uploaded")
		return
	}
	defer file.Close()

	resp, err := h.docService.UploadDocument(r.Context(), &services.UploadDocumentRequest{
		Filename:    header.Filename,
		FileContent: file,
		FileSize:    header.Size,
	})
	if err != nil {
		h.logger.Printf("Upload failed: %v", err)
		h.sendDocumentError(w, err, "Upload failed")
		return
	}

	h.sendJSON(w, http.StatusOK, resp)
}

// ImportURL godoc
// @Summary Import a web page
// @Description Scrape a web page, extract its text and add it to the chat context
// @Tags documents
// @Accept json
// @Produce json
// @Param request body object true "Request with url field"
// @Success 200 {object} services.UploadDocumentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /import-url [post]
func (h *DocumentHandler) ImportURL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.docService.ImportURL(r.Context(), req.URL)
	if err != nil {
		h.logger.Printf("Import failed: %v", err)
		h.sendDocumentError(w, err, "Import failed")
		return
	}

	h.sendJSON(w, http.StatusOK, resp)
}

// ClearContext godoc
// @Summary Remove a document
// @Description Remove a document from the chat context and delete its stored file
// @Tags documents
// @Accept json
// @Produce json
// @Param request body removeRequest true "Document name to remove"
// @Success 200 {object} models.BasicResponse
// @Failure 404 {object} ErrorResponse
// @Router /clear-context [post]
func (h *DocumentHandler) ClearContext(w http.ResponseWriter, r *http.Request) {
	var req removeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	name := req.Name
	if name == "" {
		name = req.FileName
	}
	if name == "" {
		h.sendError(w, http.StatusBadRequest, "Document name is required")
		return
	}

	if err := h.docService.RemoveDocument(name); err != nil {
		h.logger.Printf("Remove failed: %v", err)
		h.sendDocumentError(w, err, "Remove failed")
		return
	}

	h.sendJSON(w, http.StatusOK, models.BasicResponse{
		Message: fmt.Sprintf("Document '%s' has been removed", name),
		Status:  "success",
	})
}

// ListDocuments godoc
// @Summary List documents
// @Description List all stored documents with keyword digests
// @Tags documents
// @Produce json
// @Success 200 {object} DocumentListResponse
// @Router /documents [get]
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs := h.docService.ListDocuments()

	h.sendJSON(w, http.StatusOK, DocumentListResponse{
		Documents: docs,
		Count:     len(docs),
	})
}

// sendDocumentError maps the error taxonomy onto HTTP statuses
func (h *DocumentHandler) sendDocumentError(w http.ResponseWriter, err error, prefix string) {
	var validationErr *models.ValidationError
	var notFoundErr *models.NotFoundError
	var upstreamErr *models.UpstreamError

	switch {
	case errors.As(err, &validationErr):
		h.sendError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &notFoundErr):
		h.sendError(w, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &upstreamErr):
		h.sendError(w, http.StatusBadGateway, fmt.Sprintf("%s: %v", prefix, err))
	default:
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("%s: %v", prefix, err))
	}
}

func (h *DocumentHandler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *DocumentHandler) sendError(w http.ResponseWriter, status int, message string) {
	h.sendJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Status:  status,
	})
}

// ErrorResponse is the JSON error payload
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}
