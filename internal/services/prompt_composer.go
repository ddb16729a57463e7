package services

import (
	"strings"

	"pdf-whisperer/internal/models"
)

// Prompt builders for the two context-grounded intents. Both are pure
// string construction: same inputs, same bytes out, document blocks in the
// order supplied. General questions bypass these and go to the model as-is.

// BuildContextQAPrompt assembles the grounded Q&A prompt over the given
// records. Callers resolve names to records first; names missing from the
// store are skipped before this is called, so a stale selection degrades to
// fewer blocks instead of failing the whole request.
func BuildContextQAPrompt(docs []models.DocumentRecord, message string) string {
	names := make([]string, len(docs))
	for i, doc := range docs {
		names[i] = doc.Name
	}

	var b strings.Builder

	if len(docs) == 1 {
		b.WriteString("Based only on the following text content extracted from the document '")
		b.WriteString(names[0])
		b.WriteString("', please answer the question below.\n")
	} else {
		b.WriteString("Based only on the following text content extracted from the documents '")
		b.WriteString(strings.Join(names, ", "))
		b.WriteString("', please answer the question below.\n")
	}
	b.WriteString("If the answer cannot be found in the provided text, state that clearly. Do not use outside knowledge.\n")
	b.WriteString("When quoting or referencing a specific passage, cite the document it came from by name.\n\n")

	for _, doc := range docs {
		b.WriteString("--- DOCUMENT: ")
		b.WriteString(doc.Name)
		b.WriteString(" ---\n")
		b.WriteString(doc.Text)
		b.WriteString("\n--- END DOCUMENT ---\n\n")
	}

	b.WriteString("Question: ")
	b.WriteString(message)
	b.WriteString("\n\nAnswer:")

	return b.String()
}

// BuildContextUpdatePrompt assembles the in-place edit instruction for one
// document. The model is told to return only the complete modified text,
// which the update applier then validates and commits.
func BuildContextUpdatePrompt(doc models.DocumentRecord, message string) string {
	var b strings.Builder

	b.WriteString("Your task is to apply the change requested below to the full text of the document '")
	b.WriteString(doc.Name)
	b.WriteString("'.\n")
	b.WriteString("Preserve the overall structure and flow of the document.\n")
	b.WriteString("Return ONLY the complete modified document text, with no commentary, explanation, or formatting wrapper.\n\n")

	b.WriteString("--- DOCUMENT: ")
	b.WriteString(doc.Name)
	b.WriteString(" ---\n")
	b.WriteString(doc.Text)
	b.WriteString("\n--- END DOCUMENT ---\n\n")

	b.WriteString("Requested change: ")
	b.WriteString(message)

	return b.String()
}
