package models

import (
	"time"
)

// SourceType identifies where a document's text came from
type SourceType string

const (
	SourceTypeFile SourceType = "file"
	SourceTypeURL  SourceType = "url"
)

// IsValid checks if the source type is one of the known values
func (s SourceType) IsValid() bool {
	switch s {
	case SourceTypeFile, SourceTypeURL:
		return true
	default:
		return false
	}
}

// String returns the string representation of the source type
func (s SourceType) String() string {
	return string(s)
}

// DocumentRecord represents a stored document: its identity, source and
// extracted plain text. Records are kept in insertion order and names are
// not enforced unique; lookups always return the first match.
type DocumentRecord struct {
	Name        string     `json:"name"`
	SourceType  SourceType `json:"sourceType"`
	ArtifactRef string     `json:"artifactRef,omitempty"` // stored file path, file uploads only
	Text        string     `json:"text"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Validate checks if the record is complete enough to be stored
func (d *DocumentRecord) Validate() error {
	if d.Name == "" {
		return &ValidationError{Field: "name", Message: "document name is required"}
	}
	if !d.SourceType.IsValid() {
		return &ValidationError{Field: "sourceType", Message: "source type must be file or url"}
	}
	if d.Text == "" {
		return &ValidationError{Field: "text", Message: "extracted text must not be empty"}
	}
	return nil
}

// DocumentSummary is the listing view of a record: everything except the
// full extracted text, plus a short keyword digest.
type DocumentSummary struct {
	Name       string     `json:"name"`
	SourceType SourceType `json:"sourceType"`
	CreatedAt  string     `json:"createdAt"`
	TextLength int        `json:"textLength"`
	Keywords   []string   `json:"keywords,omitempty"`
}

// ToSummary converts a record to its listing view. Keywords are filled in
// by the document service.
func (d *DocumentRecord) ToSummary() DocumentSummary {
	return DocumentSummary{
		Name:       d.Name,
		SourceType: d.SourceType,
		CreatedAt:  d.CreatedAt.Format(time.RFC3339),
		TextLength: len(d.Text),
	}
}
