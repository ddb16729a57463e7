package services

import (
	"strings"

	"pdf-whisperer/internal/models"
	"pdf-whisperer/internal/repositories"
)

// ApplyDocumentUpdate validates a model rewrite and commits it to the store.
//
// Outcomes:
//   - NotFoundError when the target document is absent
//   - ErrEmptyModelResponse when the output is empty or all whitespace
//   - ErrNoEffectiveChange when the output equals the current text after
//     trimming (the model echoed the input back); the store stays untouched
//     and the caller turns this into a friendly "nothing changed" message
//   - on success the verbatim, untrimmed output becomes the new text and
//     the updated record is returned for confirmation messaging
func ApplyDocumentUpdate(store *repositories.DocumentStore, docName string, modelOutput string) (models.DocumentRecord, error) {
	current, _, err := store.FindByName(docName)
	if err != nil {
		return models.DocumentRecord{}, err
	}

	if strings.TrimSpace(modelOutput) == "" {
		return models.DocumentRecord{}, models.ErrEmptyModelResponse
	}

	if strings.TrimSpace(modelOutput) == strings.TrimSpace(current.Text) {
		return models.DocumentRecord{}, models.ErrNoEffectiveChange
	}

	return store.UpdateText(docName, modelOutput)
}
