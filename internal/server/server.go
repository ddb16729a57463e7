package server

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"pdf-whisperer/internal/handlers"
	"pdf-whisperer/internal/repositories"
	"pdf-whisperer/internal/routes"
	"pdf-whisperer/internal/services"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewServer wires the store, services and handlers into an http.Server
func NewServer() (*http.Server, error) {
	logger := log.New(os.Stdout, "[SERVER] ", log.LstdFlags)

	store, err := initializeStore(logger)
	if err != nil {
		return nil, err
	}

	extractor := initializeExtractionClient(logger)
	model := initializeModelClient(logger)

	documentService := services.NewDocumentService(extractor, store, getEnv("UPLOAD_DIR", "uploads"), logger)
	chatService := services.NewChatService(store, model, getLLMTimeout(), logger)

	h := &routes.Handlers{
		Health:      handlers.HealthCheckHandler,
		Home:        handlers.HomeHandler,
		DocHandler:  handlers.NewDocumentHandler(documentService, logger),
		ChatHandler: handlers.NewChatHandler(chatService, model, logger),
	}

	router := mux.NewRouter()
	routes.RegisterRoutes(router, h)

	// Add Swagger endpoints
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8000/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	))

	port := getEnv("PORT", "8000")
	logger.Printf("Listening on :%s", port)

	return &http.Server{
		Addr:    ":" + port,
		Handler: corsMiddleware(router),
	}, nil
}

// initializeStore creates the file-backed document store
func initializeStore(logger *log.Logger) (*repositories.DocumentStore, error) {
	path := getEnv("DOCUMENT_STORE_PATH", "data/documents.json")
	logger.Printf("Document store file: %s", path)

	persistence := repositories.NewFilePersistence(path, logger)
	return repositories.NewDocumentStore(persistence, logger)
}

// initializeExtractionClient configures the external text-extraction client
func initializeExtractionClient(logger *log.Logger) services.ExtractorInterface {
	baseURL := getEnv("EXTRACTOR_BASE_URL", services.DefaultExtractorBaseURL)
	timeout := 60 * time.Second
	retries := 3

	logger.Printf("Extraction service: %s (timeout: %v, retries: %d)", baseURL, timeout, retries)
	return services.NewExtractionClientWithOptions(baseURL, timeout, retries)
}

// initializeModelClient configures the generative model client. The API key
// and model id are opaque pass-through configuration.
func initializeModelClient(logger *log.Logger) services.ModelClient {
	config := services.LLMConfig{
		BaseURL: getEnv("LLM_BASE_URL", services.DefaultLLMBaseURL),
		Model:   getEnv("LLM_MODEL", services.DefaultLLMModel),
		APIKey:  os.Getenv("LLM_API_KEY"),
		Timeout: getLLMTimeout(),
	}

	logger.Printf("Model endpoint: %s (model: %s, timeout: %v)", config.BaseURL, config.Model, config.Timeout)
	return services.NewLLMService(config)
}

// getLLMTimeout reads the model-call deadline from the environment
func getLLMTimeout() time.Duration {
	if secondsStr := os.Getenv("LLM_TIMEOUT_SECONDS"); secondsStr != "" {
		if seconds, err := strconv.Atoi(secondsStr); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return services.DefaultLLMTimeout
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
