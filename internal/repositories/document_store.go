package repositories

import (
	"log"
	"sync"

	"pdf-whisperer/internal/models"
)

// DocumentStore is the in-memory catalogue of extracted document text,
// mirrored to a Persistence backend after every mutation.
//
// Records keep insertion order and names are deliberately not enforced
// unique: two uploads with the same filename both insert, and every lookup
// returns the first match. FindByName reports how many records share the
// name so callers can surface the ambiguity instead of hiding it.
//
// A single mutex serializes every read-modify-write cycle (add, remove,
// update and the save that follows), so a concurrent remove and update of
// the same name always resolve to one of the two sequential outcomes.
// Reads hand out copies and never observe a half-applied mutation.
type DocumentStore struct {
	mu          sync.RWMutex
	records     []models.DocumentRecord
	persistence Persistence
	logger      *log.Logger
}

// NewDocumentStore creates a store rehydrated from the persistence layer
func NewDocumentStore(persistence Persistence, logger *log.Logger) (*DocumentStore, error) {
	records, err := persistence.Load()
	if err != nil {
		return nil, err
	}

	logger.Printf("Document store loaded with %d record(s)", len(records))

	return &DocumentStore{
		records:     records,
		persistence: persistence,
		logger:      logger,
	}, nil
}

// Add appends a record and saves. There is no uniqueness check; duplicate
// names are logged. Returns the new store size. If the save fails the
// append is rolled back and the error reported.
func (s *DocumentStore) Add(record models.DocumentRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.countByNameLocked(record.Name) > 0 {
		s.logger.Printf("Duplicate document name %q added; lookups will keep returning the first record", record.Name)
	}

	s.records = append(s.records, record)

	if err := s.persistence.Save(s.records); err != nil {
		s.records = s.records[:len(s.records)-1]
		return 0, err
	}

	return len(s.records), nil
}

// FindByName returns a copy of the first record with the given name, along
// with the total number of records sharing that name.
func (s *DocumentStore) FindByName(name string) (models.DocumentRecord, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.records {
		if rec.Name == name {
			return rec, s.countByNameLocked(name), nil
		}
	}
	return models.DocumentRecord{}, 0, &models.NotFoundError{Name: name}
}

// IndexByName returns the index of the first record with the given name
func (s *DocumentStore) IndexByName(name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, rec := range s.records {
		if rec.Name == name {
			return i, nil
		}
	}
	return -1, &models.NotFoundError{Name: name}
}

// Remove deletes the first record with the given name and saves. The removed
// record is returned so the caller can delete its backing artifact (file
// uploads only). A failed save reinserts the record at its original index.
func (s *DocumentStore) Remove(name string) (models.DocumentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, rec := range s.records {
		if rec.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.DocumentRecord{}, &models.NotFoundError{Name: name}
	}

	removed := s.records[idx]
	s.records = append(s.records[:idx], s.records[idx+1:]...)

	if err := s.persistence.Save(s.records); err != nil {
		rest := append([]models.DocumentRecord{removed}, s.records[idx:]...)
		s.records = append(s.records[:idx], rest...)
		return models.DocumentRecord{}, err
	}

	return removed, nil
}

// UpdateText replaces the text of the first record with the given name and
// saves. Identity, createdAt and artifactRef are unchanged: this is an
// in-place edit, not a new record. A failed save restores the old text.
func (s *DocumentStore) UpdateText(name string, newText string) (models.DocumentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, rec := range s.records {
		if rec.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.DocumentRecord{}, &models.NotFoundError{Name: name}
	}

	oldText := s.records[idx].Text
	s.records[idx].Text = newText

	if err := s.persistence.Save(s.records); err != nil {
		s.records[idx].Text = oldText
		return models.DocumentRecord{}, err
	}

	return s.records[idx], nil
}

// List returns a snapshot copy of all records in insertion order
func (s *DocumentStore) List() []models.DocumentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.DocumentRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Count returns the number of stored records
func (s *DocumentStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *DocumentStore) countByNameLocked(name string) int {
	n := 0
	for _, rec := range s.records {
		if rec.Name == name {
			n++
		}
	}
	return n
}
