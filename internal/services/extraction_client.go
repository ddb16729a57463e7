package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"pdf-whisperer/internal/models"
)

const DefaultExtractorBaseURL = "http://localhost:8000"

// ExtractorInterface defines the contract with the external text-extraction
// service: PDF bytes or a page URL in, plain text out. The extraction
// mechanics (PDF parsing, HTML stripping) live entirely on the other side.
type ExtractorInterface interface {
	ExtractPDF(ctx context.Context, fileData []byte, filename string) (*ExtractResponse, error)
	ExtractURL(ctx context.Context, pageURL string) (*ExtractResponse, error)
	HealthCheck(ctx context.Context) error
}

// ExtractResponse represents the extraction service's reply
type ExtractResponse struct {
	Text       string `json:"text"`
	Title      string `json:"title,omitempty"`
	TotalPages int    `json:"total_pages,omitempty"`
}

// extractURLRequest is the payload for URL extraction
type extractURLRequest struct {
	URL string `json:"url"`
}

// ExtractionClient handles communication with the extraction service
type ExtractionClient struct {
	baseURL    string
	httpClient *http.Client
	retries    int
}

// NewExtractionClient creates a client with default settings
func NewExtractionClient(baseURL string) *ExtractionClient {
	return NewExtractionClientWithOptions(baseURL, 60*time.Second, 3)
}

// NewExtractionClientWithOptions creates a client with custom settings
func NewExtractionClientWithOptions(baseURL string, timeout time.Duration, retries int) *ExtractionClient {
	if baseURL == "" {
		baseURL = DefaultExtractorBaseURL
	}
	return &ExtractionClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		retries: retries,
	}
}

// ExtractPDF uploads PDF bytes as multipart form data and returns the
// extracted text. Retries with exponential backoff on 5xx and transport
// errors; 4xx responses are not retried.
func (c *ExtractionClient) ExtractPDF(ctx context.Context, fileData []byte, filename string) (*ExtractResponse, error) {
	url := c.baseURL + "/extract/pdf"

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*attempt) * time.Second
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)

		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			return nil, fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := part.Write(fileData); err != nil {
			return nil, fmt.Errorf("failed to write file data: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("failed to close multipart writer: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, "POST", url, &buf)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			bodyBytes, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(bodyBytes))
			continue
		}

		var result ExtractResponse
		if err := parseExtractorResponse(resp, &result); err != nil {
			return nil, &models.UpstreamError{Service: "extractor", Err: err}
		}
		return &result, nil
	}

	return nil, &models.UpstreamError{
		Service: "extractor",
		Err:     fmt.Errorf("request failed after %d retries: %w", c.retries, lastErr),
	}
}

// ExtractURL asks the extraction service to fetch a page and return its
// text content.
func (c *ExtractionClient) ExtractURL(ctx context.Context, pageURL string) (*ExtractResponse, error) {
	resp, err := c.doRequest(ctx, "POST", "/extract/url", extractURLRequest{URL: pageURL})
	if err != nil {
		return nil, &models.UpstreamError{Service: "extractor", Err: err}
	}

	var result ExtractResponse
	if err := parseExtractorResponse(resp, &result); err != nil {
		return nil, &models.UpstreamError{Service: "extractor", Err: err}
	}
	return &result, nil
}

// HealthCheck verifies the extraction service is reachable
func (c *ExtractionClient) HealthCheck(ctx context.Context) error {
	resp, err := c.doRequest(ctx, "GET", "/health", nil)
	if err != nil {
		return fmt.Errorf("extraction service not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("extraction service returned status %d", resp.StatusCode)
	}
	return nil
}

// doRequest performs a JSON request with retry logic
func (c *ExtractionClient) doRequest(ctx context.Context, method, endpoint string, body interface{}) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*attempt) * time.Second
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := c.makeRequest(ctx, method, endpoint, body)
		if err == nil && resp.StatusCode < 500 {
			// Success or client error (don't retry 4xx)
			return resp, nil
		}

		lastErr = err
		if resp != nil {
			resp.Body.Close()
		}
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", c.retries, lastErr)
}

// makeRequest creates and executes a single HTTP request
func (c *ExtractionClient) makeRequest(ctx context.Context, method, endpoint string, body interface{}) (*http.Response, error) {
	url := c.baseURL + endpoint

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// parseExtractorResponse reads and parses a JSON response
func parseExtractorResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
