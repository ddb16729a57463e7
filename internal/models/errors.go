package models

import "errors"

// Recoverable update outcomes. These are not hard failures: the store is
// left untouched and the orchestrator turns them into explanatory messages.
var (
	// ErrEmptyModelResponse means the model returned nothing usable for an
	// in-place update.
	ErrEmptyModelResponse = errors.New("model returned an empty response")

	// ErrNoEffectiveChange means the model echoed the document back
	// unchanged (ignoring surrounding whitespace).
	ErrNoEffectiveChange = errors.New("model output matches the current document text")
)

// ValidationError represents a client-facing validation failure
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NotFoundError reports a referenced document name absent from the store
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return "document not found: " + e.Name
}

// UpstreamError reports a failure from an external collaborator (the model
// or the extraction service), including timeouts.
type UpstreamError struct {
	Service string // "llm" or "extractor"
	Timeout bool
	Err     error
}

func (e *UpstreamError) Error() string {
	prefix := e.Service
	if prefix == "" {
		prefix = "upstream"
	}
	if e.Timeout {
		prefix += " timed out"
	} else {
		prefix += " request failed"
	}
	if e.Err != nil {
		return prefix + ": " + e.Err.Error()
	}
	return prefix
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a backing-file read/write failure. Mutations
// that hit one are rolled back before it reaches the caller.
type PersistenceError struct {
	Operation string
	Err       error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return "persistence " + e.Operation + " failed: " + e.Err.Error()
	}
	return "persistence " + e.Operation + " failed"
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
