package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"pdf-whisperer/internal/models"
	"pdf-whisperer/internal/services"
)

// ChatHandler handles chat requests from the frontend
type ChatHandler struct {
	chatService *services.ChatService
	model       services.ModelClient
	logger      *log.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *services.ChatService, model services.ModelClient, logger *log.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		model:       model,
		logger:      logger,
	}
}

// Chat godoc
// @Summary Chat with the model
// @Description Ask a general question, a question grounded in selected documents, or request an in-place document update
// @Tags chat
// @Accept json
// @Produce json
// @Param request body models.ChatRequest true "Chat request"
// @Success 200 {object} models.ChatResponse
// @Failure 400 {object} models.ChatResponse
// @Failure 502 {object} models.ChatResponse
// @Router /gemini [post]
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var request models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	response, err := h.chatService.Handle(r.Context(), request)
	if err != nil {
		h.logger.Printf("Chat request failed: %v", err)
		h.sendChatError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// ModelHealth godoc
// @Summary Check model availability
// @Description Check if the generative model endpoint is reachable
// @Tags chat
// @Produce json
// @Success 200 {object} models.BasicResponse
// @Failure 503 {object} models.BasicResponse
// @Router /llm/health [get]
func (h *ChatHandler) ModelHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.model.HealthCheck(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(models.BasicResponse{
			Message: "Model endpoint is not available: " + err.Error(),
			Status:  "error",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(models.BasicResponse{
		Message: "Model endpoint is available",
		Status:  "success",
	})
}

// sendChatError maps the error taxonomy onto HTTP statuses
func (h *ChatHandler) sendChatError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	var upstreamErr *models.UpstreamError

	switch {
	case errors.As(err, &validationErr):
		h.sendError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &upstreamErr):
		if upstreamErr.Timeout {
			h.sendError(w, http.StatusGatewayTimeout, upstreamErr.Error())
		} else {
			h.sendError(w, http.StatusBadGateway, upstreamErr.Error())
		}
	default:
		h.sendError(w, http.StatusInternalServerError, "Something went wrong: "+err.Error())
	}
}

func (h *ChatHandler) sendError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ChatResponse{
		Message: message,
		Status:  "error",
	})
}
