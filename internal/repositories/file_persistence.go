package repositories

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"pdf-whisperer/internal/models"
)

// Persistence defines durable save/load of the full document set.
// Save must be atomic: a crash mid-write leaves either the previous or the
// new snapshot on disk, never a torn one.
type Persistence interface {
	Load() ([]models.DocumentRecord, error)
	Save(records []models.DocumentRecord) error
}

// FilePersistence stores the document set as a single JSON file. Every save
// rewrites the whole file via a temp file in the same directory followed by
// an atomic rename.
type FilePersistence struct {
	path   string
	logger *log.Logger
}

// NewFilePersistence creates a file-backed persistence layer
func NewFilePersistence(path string, logger *log.Logger) *FilePersistence {
	return &FilePersistence{
		path:   path,
		logger: logger,
	}
}

// Load reads the backing file. A missing file yields an empty set. A file
// that fails to parse is logged and also yields an empty set, so a corrupt
// snapshot never prevents startup.
func (p *FilePersistence) Load() ([]models.DocumentRecord, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.DocumentRecord{}, nil
		}
		return nil, &models.PersistenceError{Operation: "load", Err: err}
	}

	var records []models.DocumentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		p.logger.Printf("Document store file %s is malformed, starting empty: %v", p.path, err)
		return []models.DocumentRecord{}, nil
	}

	return records, nil
}

// Save writes the full record set. The temp file lives in the target
// directory so the final rename stays on one filesystem.
func (p *FilePersistence) Save(records []models.DocumentRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &models.PersistenceError{Operation: "save", Err: err}
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &models.PersistenceError{Operation: "save", Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".documents-*.json")
	if err != nil {
		return &models.PersistenceError{Operation: "save", Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &models.PersistenceError{Operation: "save", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &models.PersistenceError{Operation: "save", Err: err}
	}

	if err := os.Rename(tmpName, p.path); err != nil {
		os.Remove(tmpName)
		return &models.PersistenceError{Operation: "save", Err: fmt.Errorf("rename: %w", err)}
	}

	return nil
}
