package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pdf-whisperer/internal/models"
	"pdf-whisperer/internal/repositories"

	"github.com/google/uuid"
)

// MaxUploadSize caps uploaded PDF files at 50MB
const MaxUploadSize = 50 << 20

// DocumentService orchestrates document intake and removal: it saves the
// uploaded artifact, calls the external extraction service, adds the record
// to the store, and deletes the artifact again when a file record is
// removed.
type DocumentService struct {
	extractor ExtractorInterface
	store     *repositories.DocumentStore
	keywords  *KeywordExtractor
	uploadDir string
	logger    *log.Logger
}

// NewDocumentService creates a document service
func NewDocumentService(extractor ExtractorInterface, store *repositories.DocumentStore, uploadDir string, logger *log.Logger) *DocumentService {
	return &DocumentService{
		extractor: extractor,
		store:     store,
		keywords:  NewKeywordExtractor(),
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// UploadDocumentRequest carries an uploaded file into the service
type UploadDocumentRequest struct {
	Filename    string
	FileContent io.Reader
	FileSize    int64
}

// UploadDocumentResponse reports a successful intake
type UploadDocumentResponse struct {
	FileName      string `json:"fileName"`
	DocumentCount int    `json:"documentCount"`
}

// UploadDocument stores the PDF bytes on disk, extracts their text and adds
// the record. The stored artifact gets a uuid-prefixed name so duplicate
// uploads of the same filename never collide on disk, even though the store
// itself allows duplicate names.
func (s *DocumentService) UploadDocument(ctx context.Context, req *UploadDocumentRequest) (*UploadDocumentResponse, error) {
	if err := s.validateUploadRequest(req); err != nil {
		return nil, err
	}

	fileData, err := io.ReadAll(io.LimitReader(req.FileContent, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(fileData) > MaxUploadSize {
		return nil, &models.ValidationError{Field: "pdfFile", Message: "file exceeds the 50MB upload limit"}
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	artifactPath := filepath.Join(s.uploadDir, uuid.New().String()+"-"+filepath.Base(req.Filename))
	if err := os.WriteFile(artifactPath, fileData, 0o644); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	extracted, err := s.extractor.ExtractPDF(ctx, fileData, req.Filename)
	if err != nil {
		s.removeArtifact(artifactPath)
		return nil, err
	}
	if strings.TrimSpace(extracted.Text) == "" {
		s.removeArtifact(artifactPath)
		return nil, &models.ValidationError{Field: "pdfFile", Message: "no text could be extracted from the PDF"}
	}

	count, err := s.store.Add(models.DocumentRecord{
		Name:        req.Filename,
		SourceType:  models.SourceTypeFile,
		ArtifactRef: artifactPath,
		Text:        extracted.Text,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		s.removeArtifact(artifactPath)
		return nil, err
	}

	s.logger.Printf("Stored document %q (%d bytes of text, %d total)", req.Filename, len(extracted.Text), count)

	return &UploadDocumentResponse{
		FileName:      req.Filename,
		DocumentCount: count,
	}, nil
}

// ImportURL scrapes a web page through the extraction service and stores
// its text. URL records carry no artifact; the URL itself is the name.
func (s *DocumentService) ImportURL(ctx context.Context, pageURL string) (*UploadDocumentResponse, error) {
	if strings.TrimSpace(pageURL) == "" {
		return nil, &models.ValidationError{Field: "url", Message: "url is required"}
	}
	if !strings.HasPrefix(pageURL, "http://") && !strings.HasPrefix(pageURL, "https://") {
		return nil, &models.ValidationError{Field: "url", Message: "url must start with http:// or https://"}
	}

	extracted, err := s.extractor.ExtractURL(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(extracted.Text) == "" {
		return nil, &models.ValidationError{Field: "url", Message: "no text could be extracted from the page"}
	}

	count, err := s.store.Add(models.DocumentRecord{
		Name:       pageURL,
		SourceType: models.SourceTypeURL,
		Text:       extracted.Text,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Printf("Imported page %q (%d bytes of text, %d total)", pageURL, len(extracted.Text), count)

	return &UploadDocumentResponse{
		FileName:      pageURL,
		DocumentCount: count,
	}, nil
}

// RemoveDocument deletes the first record matching name and, for file
// uploads, its stored artifact. The store mutation comes first; an artifact
// that fails to delete is logged but does not fail the request, since the
// record is already gone from the catalogue.
func (s *DocumentService) RemoveDocument(name string) error {
	removed, err := s.store.Remove(name)
	if err != nil {
		return err
	}

	if removed.SourceType == models.SourceTypeFile && removed.ArtifactRef != "" {
		if err := os.Remove(removed.ArtifactRef); err != nil && !os.IsNotExist(err) {
			s.logger.Printf("Failed to delete artifact %s: %v", removed.ArtifactRef, err)
		}
	}

	s.logger.Printf("Removed document %q", name)
	return nil
}

// ListDocuments returns listing summaries for all records in insertion
// order, each with a short keyword digest. Keyword extraction failures
// degrade to an empty digest.
func (s *DocumentService) ListDocuments() []models.DocumentSummary {
	records := s.store.List()

	summaries := make([]models.DocumentSummary, len(records))
	for i, rec := range records {
		summary := rec.ToSummary()
		keywords, err := s.keywords.ExtractKeywords(rec.Text, 8)
		if err != nil {
			s.logger.Printf("Keyword extraction failed for %q: %v", rec.Name, err)
		} else {
			summary.Keywords = keywords
		}
		summaries[i] = summary
	}
	return summaries
}

func (s *DocumentService) validateUploadRequest(req *UploadDocumentRequest) error {
	if req.Filename == "" {
		return &models.ValidationError{Field: "pdfFile", Message: "filename is required"}
	}
	if req.FileContent == nil {
		return &models.ValidationError{Field: "pdfFile", Message: "file content is required"}
	}
	if !strings.EqualFold(filepath.Ext(req.Filename), ".pdf") {
		return &models.ValidationError{Field: "pdfFile", Message: "only PDF files are supported"}
	}
	return nil
}

func (s *DocumentService) removeArtifact(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Printf("Failed to clean up artifact %s: %v", path, err)
	}
}
