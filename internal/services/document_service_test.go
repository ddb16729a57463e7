package services

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pdf-whisperer/internal/models"
	"pdf-whisperer/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Mock Extractor
// ============================================================================

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) ExtractPDF(ctx context.Context, fileData []byte, filename string) (*ExtractResponse, error) {
	args := m.Called(ctx, fileData, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ExtractResponse), args.Error(1)
}

func (m *MockExtractor) ExtractURL(ctx context.Context, pageURL string) (*ExtractResponse, error) {
	args := m.Called(ctx, pageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ExtractResponse), args.Error(1)
}

func (m *MockExtractor) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// ============================================================================
// Setup
// ============================================================================

func setupDocumentService(t *testing.T) (*DocumentService, *MockExtractor, *repositories.DocumentStore, string) {
	t.Helper()
	logger := log.New(os.Stdout, "[TEST] ", log.LstdFlags)
	dir := t.TempDir()
	persistence := repositories.NewFilePersistence(filepath.Join(dir, "documents.json"), logger)
	store, err := repositories.NewDocumentStore(persistence, logger)
	require.NoError(t, err)

	extractor := &MockExtractor{}
	uploadDir := filepath.Join(dir, "uploads")
	service := NewDocumentService(extractor, store, uploadDir, logger)
	return service, extractor, store, uploadDir
}

func uploadReq(filename, content string) *UploadDocumentRequest {
	return &UploadDocumentRequest{
		Filename:    filename,
		FileContent: bytes.NewBufferString(content),
		FileSize:    int64(len(content)),
	}
}

func listArtifacts(t *testing.T, uploadDir string) []string {
	t.Helper()
	entries, err := os.ReadDir(uploadDir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names
}

// ============================================================================
// Tests
// ============================================================================

func TestUploadDocument_Success(t *testing.T) {
	service, extractor, store, uploadDir := setupDocumentService(t)

	extractor.On("ExtractPDF", mock.Anything, []byte("%PDF-1.4 fake"), "report.pdf").
		Return(&ExtractResponse{Text: "Revenue was 10.", TotalPages: 1}, nil)

	resp, err := service.UploadDocument(context.Background(), uploadReq("report.pdf", "%PDF-1.4 fake"))

	require.NoError(t, err)
	assert.Equal(t, "report.pdf", resp.FileName)
	assert.Equal(t, 1, resp.DocumentCount)

	rec, _, err := store.FindByName("report.pdf")
	require.NoError(t, err)
	assert.Equal(t, models.SourceTypeFile, rec.SourceType)
	assert.Equal(t, "Revenue was 10.", rec.Text)

	// Artifact is on disk with a uuid prefix and the original base name
	artifacts := listArtifacts(t, uploadDir)
	require.Len(t, artifacts, 1)
	assert.True(t, strings.HasSuffix(artifacts[0], "-report.pdf"))
	assert.Equal(t, filepath.Join(uploadDir, artifacts[0]), rec.ArtifactRef)
}

func TestUploadDocument_DuplicateNamesGetDistinctArtifacts(t *testing.T) {
	service, extractor, store, uploadDir := setupDocumentService(t)

	extractor.On("ExtractPDF", mock.Anything, mock.Anything, "report.pdf").
		Return(&ExtractResponse{Text: "some text"}, nil)

	_, err := service.UploadDocument(context.Background(), uploadReq("report.pdf", "v1"))
	require.NoError(t, err)
	resp, err := service.UploadDocument(context.Background(), uploadReq("report.pdf", "v2"))
	require.NoError(t, err)

	assert.Equal(t, 2, resp.DocumentCount)
	assert.Equal(t, 2, store.Count())
	assert.Len(t, listArtifacts(t, uploadDir), 2)
}

func TestUploadDocument_RejectsNonPDF(t *testing.T) {
	service, extractor, _, _ := setupDocumentService(t)

	_, err := service.UploadDocument(context.Background(), uploadReq("notes.txt", "plain text"))

	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	extractor.AssertNotCalled(t, "ExtractPDF", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadDocument_ExtractionFailureCleansArtifact(t *testing.T) {
	service, extractor, store, uploadDir := setupDocumentService(t)

	extractor.On("ExtractPDF", mock.Anything, mock.Anything, "report.pdf").
		Return(nil, &models.UpstreamError{Service: "extractor", Err: assert.AnError})

	_, err := service.UploadDocument(context.Background(), uploadReq("report.pdf", "%PDF"))

	var upstream *models.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, 0, store.Count())
	assert.Empty(t, listArtifacts(t, uploadDir))
}

func TestUploadDocument_EmptyExtractedText(t *testing.T) {
	service, extractor, store, uploadDir := setupDocumentService(t)

	extractor.On("ExtractPDF", mock.Anything, mock.Anything, "scanned.pdf").
		Return(&ExtractResponse{Text: "   \n"}, nil)

	_, err := service.UploadDocument(context.Background(), uploadReq("scanned.pdf", "%PDF"))

	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 0, store.Count())
	assert.Empty(t, listArtifacts(t, uploadDir))
}

func TestImportURL_Success(t *testing.T) {
	service, extractor, store, _ := setupDocumentService(t)

	extractor.On("ExtractURL", mock.Anything, "https://example.com/page").
		Return(&ExtractResponse{Text: "page content", Title: "Example"}, nil)

	resp, err := service.ImportURL(context.Background(), "https://example.com/page")

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/page", resp.FileName)

	rec, _, err := store.FindByName("https://example.com/page")
	require.NoError(t, err)
	assert.Equal(t, models.SourceTypeURL, rec.SourceType)
	assert.Empty(t, rec.ArtifactRef, "URL imports carry no stored artifact")
}

func TestImportURL_Validation(t *testing.T) {
	service, extractor, _, _ := setupDocumentService(t)

	for _, url := range []string{"", "   ", "ftp://example.com", "example.com"} {
		_, err := service.ImportURL(context.Background(), url)
		var validationErr *models.ValidationError
		assert.ErrorAs(t, err, &validationErr, "url %q", url)
	}
	extractor.AssertNotCalled(t, "ExtractURL", mock.Anything, mock.Anything)
}

func TestRemoveDocument_DeletesArtifact(t *testing.T) {
	service, extractor, store, uploadDir := setupDocumentService(t)

	extractor.On("ExtractPDF", mock.Anything, mock.Anything, "report.pdf").
		Return(&ExtractResponse{Text: "some text"}, nil)
	_, err := service.UploadDocument(context.Background(), uploadReq("report.pdf", "%PDF"))
	require.NoError(t, err)
	require.Len(t, listArtifacts(t, uploadDir), 1)

	err = service.RemoveDocument("report.pdf")

	require.NoError(t, err)
	assert.Equal(t, 0, store.Count())
	assert.Empty(t, listArtifacts(t, uploadDir))
}

func TestRemoveDocument_NotFound(t *testing.T) {
	service, _, _, _ := setupDocumentService(t)

	err := service.RemoveDocument("missing.pdf")

	var notFound *models.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestListDocuments_InsertionOrderWithKeywords(t *testing.T) {
	service, extractor, _, _ := setupDocumentService(t)

	extractor.On("ExtractPDF", mock.Anything, mock.Anything, "first.pdf").
		Return(&ExtractResponse{Text: "The quarterly revenue report shows strong growth in Europe."}, nil)
	extractor.On("ExtractPDF", mock.Anything, mock.Anything, "second.pdf").
		Return(&ExtractResponse{Text: "Meeting notes from the engineering standup."}, nil)

	_, err := service.UploadDocument(context.Background(), uploadReq("first.pdf", "%PDF"))
	require.NoError(t, err)
	_, err = service.UploadDocument(context.Background(), uploadReq("second.pdf", "%PDF"))
	require.NoError(t, err)

	summaries := service.ListDocuments()

	require.Len(t, summaries, 2)
	assert.Equal(t, "first.pdf", summaries[0].Name)
	assert.Equal(t, "second.pdf", summaries[1].Name)
	assert.NotEmpty(t, summaries[0].Keywords)
	assert.Greater(t, summaries[0].TextLength, 0)
}
