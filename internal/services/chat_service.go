package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"pdf-whisperer/internal/models"
	"pdf-whisperer/internal/repositories"
)

// ChatService is the top-level chat entry point: classify the request,
// assemble the prompt, call the model, and for update intents commit or
// reject the rewrite.
//
// The model call runs under its own deadline and outside any store lock, so
// a hung upstream can never block document mutations from other requests.
type ChatService struct {
	store        *repositories.DocumentStore
	model        ModelClient
	modelTimeout time.Duration
	logger       *log.Logger
}

// NewChatService creates a chat orchestrator
func NewChatService(store *repositories.DocumentStore, model ModelClient, modelTimeout time.Duration, logger *log.Logger) *ChatService {
	if modelTimeout == 0 {
		modelTimeout = DefaultLLMTimeout
	}
	return &ChatService{
		store:        store,
		model:        model,
		modelTimeout: modelTimeout,
		logger:       logger,
	}
}

// Handle processes one chat request and produces the response payload.
// Request-scoped failures come back as typed errors; recoverable update
// outcomes come back as friendly response messages.
func (s *ChatService) Handle(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	if req.Message == "" {
		return nil, &models.ValidationError{Field: "message", Message: "message is required"}
	}

	intent := ClassifyIntent(req.IsContextRequired, req.SelectedDocuments, req.Message)
	s.logger.Printf("Chat request classified as %s (selection: %d)", intent.Kind, len(req.SelectedDocuments))

	switch intent.Kind {
	case IntentGeneral:
		return s.handleGeneral(ctx, req.Message)
	case IntentContextQA:
		return s.handleContextQA(ctx, intent.Documents, req.Message)
	case IntentContextUpdate:
		return s.handleContextUpdate(ctx, intent.Document, req.Message)
	default:
		return nil, fmt.Errorf("unknown intent kind %q", intent.Kind)
	}
}

// handleGeneral forwards the user message verbatim as the model prompt
func (s *ChatService) handleGeneral(ctx context.Context, message string) (*models.ChatResponse, error) {
	answer, err := s.callModel(ctx, message)
	if err != nil {
		return nil, err
	}
	return &models.ChatResponse{Message: answer, Status: "success"}, nil
}

// handleContextQA resolves the selection, tolerating names that left the
// store since the user picked them, and answers from the remaining blocks.
func (s *ChatService) handleContextQA(ctx context.Context, names []string, message string) (*models.ChatResponse, error) {
	var docs []models.DocumentRecord
	var skipped []string

	for _, name := range names {
		rec, dupes, err := s.store.FindByName(name)
		if err != nil {
			skipped = append(skipped, name)
			continue
		}
		if dupes > 1 {
			s.logger.Printf("Selection %q matches %d records; using the first", name, dupes)
		}
		docs = append(docs, rec)
	}

	if len(skipped) > 0 {
		s.logger.Printf("Skipping %d selected document(s) no longer in the store: %v", len(skipped), skipped)
	}

	prompt := BuildContextQAPrompt(docs, message)

	answer, err := s.callModel(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &models.ChatResponse{
		Message:          answer,
		Status:           "success",
		SkippedDocuments: skipped,
	}, nil
}

// handleContextUpdate rewrites one document in place. A missing target
// short-circuits with an explanatory message before any model call; a
// failed or timed-out call leaves the store and its file untouched.
func (s *ChatService) handleContextUpdate(ctx context.Context, name string, message string) (*models.ChatResponse, error) {
	doc, dupes, err := s.store.FindByName(name)
	if err != nil {
		return &models.ChatResponse{
			Message: fmt.Sprintf("I couldn't find the document '%s'. It may have been removed; upload it again to make changes.", name),
			Status:  "success",
		}, nil
	}
	if dupes > 1 {
		s.logger.Printf("Update target %q matches %d records; updating the first", name, dupes)
	}

	prompt := BuildContextUpdatePrompt(doc, message)

	output, err := s.callModel(ctx, prompt)
	if err != nil {
		return nil, err
	}

	updated, err := ApplyDocumentUpdate(s.store, name, output)
	switch {
	case errors.Is(err, models.ErrEmptyModelResponse):
		return &models.ChatResponse{
			Message: fmt.Sprintf("The model returned an empty response, so '%s' was left unchanged.", name),
			Status:  "success",
		}, nil
	case errors.Is(err, models.ErrNoEffectiveChange):
		return &models.ChatResponse{
			Message: fmt.Sprintf("The requested change did not alter '%s'; the document was left as is.", name),
			Status:  "success",
		}, nil
	case err != nil:
		return nil, err
	}

	s.logger.Printf("Updated document %q (%d bytes of text)", updated.Name, len(updated.Text))

	return &models.ChatResponse{
		Message: fmt.Sprintf("I've updated '%s' with the requested changes.", updated.Name),
		Status:  "success",
	}, nil
}

// callModel invokes the model under the configured deadline
func (s *ChatService) callModel(ctx context.Context, prompt string) (string, error) {
	mctx, cancel := context.WithTimeout(ctx, s.modelTimeout)
	defer cancel()

	answer, err := s.model.Generate(mctx, prompt)
	if err != nil {
		var upstream *models.UpstreamError
		if errors.As(err, &upstream) {
			return "", err
		}
		return "", &models.UpstreamError{
			Service: "llm",
			Timeout: errors.Is(err, context.DeadlineExceeded),
			Err:     err,
		}
	}
	return answer, nil
}
