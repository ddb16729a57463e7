package routes

import (
	"net/http"

	"pdf-whisperer/internal/handlers"

	"github.com/gorilla/mux"
)

// Handlers collects everything the route table needs
type Handlers struct {
	Health http.HandlerFunc
	Home   http.HandlerFunc

	DocHandler  *handlers.DocumentHandler
	ChatHandler *handlers.ChatHandler
}

// RegisterRoutes sets up all application routes. The document and chat
// paths keep the original frontend's names (/upload-pdf, /gemini,
// /clear-context).
func RegisterRoutes(router *mux.Router, h *Handlers) {
	// Health endpoints
	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	router.HandleFunc("/llm/health", h.ChatHandler.ModelHealth).Methods(http.MethodGet)

	// Document context
	router.HandleFunc("/upload-pdf", h.DocHandler.UploadPDF).Methods(http.MethodPost)
	router.HandleFunc("/import-url", h.DocHandler.ImportURL).Methods(http.MethodPost)
	router.HandleFunc("/clear-context", h.DocHandler.ClearContext).Methods(http.MethodPost)
	router.HandleFunc("/documents", h.DocHandler.ListDocuments).Methods(http.MethodGet)

	// Chat
	router.HandleFunc("/gemini", h.ChatHandler.Chat).Methods(http.MethodPost)

	// Main routes
	router.HandleFunc("/", h.Home).Methods(http.MethodGet)
}
