package services

import (
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pdf-whisperer/internal/models"
	"pdf-whisperer/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApplierStore(t *testing.T) *repositories.DocumentStore {
	t.Helper()
	logger := log.New(os.Stdout, "[TEST] ", log.LstdFlags)
	persistence := repositories.NewFilePersistence(filepath.Join(t.TempDir(), "documents.json"), logger)
	store, err := repositories.NewDocumentStore(persistence, logger)
	require.NoError(t, err)

	_, err = store.Add(models.DocumentRecord{
		Name:       "A",
		SourceType: models.SourceTypeFile,
		Text:       "The meeting is on Monday.",
		CreatedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)
	return store
}

func TestApplyDocumentUpdate_NotFound(t *testing.T) {
	store := setupApplierStore(t)

	_, err := ApplyDocumentUpdate(store, "missing", "new text")

	var notFound *models.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestApplyDocumentUpdate_EmptyResponse(t *testing.T) {
	store := setupApplierStore(t)

	for _, output := range []string{"", "   ", "\n\t\n"} {
		_, err := ApplyDocumentUpdate(store, "A", output)
		assert.ErrorIs(t, err, models.ErrEmptyModelResponse)
	}

	rec, _, err := store.FindByName("A")
	require.NoError(t, err)
	assert.Equal(t, "The meeting is on Monday.", rec.Text)
}

func TestApplyDocumentUpdate_NoEffectiveChange(t *testing.T) {
	store := setupApplierStore(t)

	// Identical modulo surrounding whitespace counts as an echo
	_, err := ApplyDocumentUpdate(store, "A", "  The meeting is on Monday.\n")

	assert.ErrorIs(t, err, models.ErrNoEffectiveChange)

	rec, _, findErr := store.FindByName("A")
	require.NoError(t, findErr)
	assert.Equal(t, "The meeting is on Monday.", rec.Text)
}

func TestApplyDocumentUpdate_NoEffectiveChange_NeverNotFound(t *testing.T) {
	store := setupApplierStore(t)

	rec, _, err := store.FindByName("A")
	require.NoError(t, err)

	_, applyErr := ApplyDocumentUpdate(store, "A", rec.Text)
	assert.ErrorIs(t, applyErr, models.ErrNoEffectiveChange)
}

func TestApplyDocumentUpdate_Success_StoresVerbatim(t *testing.T) {
	store := setupApplierStore(t)

	// Untrimmed output is stored exactly as the model produced it
	output := "\nThe meeting is on Tuesday.\n"
	updated, err := ApplyDocumentUpdate(store, "A", output)

	require.NoError(t, err)
	assert.Equal(t, output, updated.Text)

	rec, _, err := store.FindByName("A")
	require.NoError(t, err)
	assert.Equal(t, output, rec.Text)
}
