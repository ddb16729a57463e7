package repositories

import (
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pdf-whisperer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPersistence(t *testing.T) (*FilePersistence, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "documents.json")
	logger := log.New(os.Stdout, "[TEST] ", log.LstdFlags)
	return NewFilePersistence(path, logger), path
}

func testRecord(name string) models.DocumentRecord {
	return models.DocumentRecord{
		Name:       name,
		SourceType: models.SourceTypeFile,
		Text:       "some extracted text",
		CreatedAt:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestLoad_MissingFile(t *testing.T) {
	p, _ := newTestPersistence(t)

	records, err := p.Load()

	assert.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoad_MalformedFile(t *testing.T) {
	p, path := newTestPersistence(t)
	require.NoError(t, os.WriteFile(path, []byte("{not valid json"), 0o644))

	records, err := p.Load()

	// Malformed snapshots must not prevent startup
	assert.NoError(t, err)
	assert.Empty(t, records)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	p, _ := newTestPersistence(t)
	records := []models.DocumentRecord{
		testRecord("a.pdf"),
		{
			Name:       "https://example.com/page",
			SourceType: models.SourceTypeURL,
			Text:       "page text\nwith newlines",
			CreatedAt:  time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC),
		},
	}

	require.NoError(t, p.Save(records))

	loaded, err := p.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, records[0].Name, loaded[0].Name)
	assert.Equal(t, records[0].Text, loaded[0].Text)
	assert.Equal(t, models.SourceTypeURL, loaded[1].SourceType)
	assert.Equal(t, "page text\nwith newlines", loaded[1].Text)
	assert.True(t, records[1].CreatedAt.Equal(loaded[1].CreatedAt))
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	p, path := newTestPersistence(t)

	require.NoError(t, p.Save([]models.DocumentRecord{testRecord("a.pdf")}))
	require.NoError(t, p.Save([]models.DocumentRecord{testRecord("b.pdf")}))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the snapshot file should remain after save")
	assert.Equal(t, filepath.Base(path), entries[0].Name())
}

func TestSave_EmptySet(t *testing.T) {
	p, _ := newTestPersistence(t)

	require.NoError(t, p.Save([]models.DocumentRecord{}))

	loaded, err := p.Load()
	assert.NoError(t, err)
	assert.Empty(t, loaded)
}
