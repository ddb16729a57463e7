package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		name              string
		isContextRequired bool
		selectedDocuments []string
		message           string
		expectKind        IntentKind
		expectDocs        []string
		expectDoc         string
	}{
		{
			name:              "No context required",
			isContextRequired: false,
			selectedDocuments: []string{},
			message:           "hi",
			expectKind:        IntentGeneral,
		},
		{
			name:              "Context required but nothing selected",
			isContextRequired: true,
			selectedDocuments: []string{},
			message:           "update the date",
			expectKind:        IntentGeneral,
		},
		{
			name:              "Context required with selection but toggle off",
			isContextRequired: false,
			selectedDocuments: []string{"A"},
			message:           "update the date",
			expectKind:        IntentGeneral,
		},
		{
			name:              "Single doc with update verb",
			isContextRequired: true,
			selectedDocuments: []string{"A"},
			message:           "update the date to 2025",
			expectKind:        IntentContextUpdate,
			expectDoc:         "A",
		},
		{
			name:              "Two docs disables update",
			isContextRequired: true,
			selectedDocuments: []string{"A", "B"},
			message:           "update the date",
			expectKind:        IntentContextQA,
			expectDocs:        []string{"A", "B"},
		},
		{
			name:              "Single doc question",
			isContextRequired: true,
			selectedDocuments: []string{"A"},
			message:           "summarize this",
			expectKind:        IntentContextQA,
			expectDocs:        []string{"A"},
		},
		{
			name:              "Substring false positive routes to update",
			isContextRequired: true,
			selectedDocuments: []string{"A"},
			message:           "please update me on recent events",
			expectKind:        IntentContextUpdate,
			expectDoc:         "A",
		},
		{
			name:              "Verb match is case insensitive",
			isContextRequired: true,
			selectedDocuments: []string{"A"},
			message:           "REPLACE the second paragraph",
			expectKind:        IntentContextUpdate,
			expectDoc:         "A",
		},
		{
			name:              "Verb without trailing space does not match",
			isContextRequired: true,
			selectedDocuments: []string{"A"},
			message:           "is this an update?",
			expectKind:        IntentContextQA,
			expectDocs:        []string{"A"},
		},
		{
			name:              "Verb inside a larger word with a space still matches",
			isContextRequired: true,
			selectedDocuments: []string{"A"},
			message:           "what does correct mean here? correct the typo",
			expectKind:        IntentContextUpdate,
			expectDoc:         "A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := ClassifyIntent(tt.isContextRequired, tt.selectedDocuments, tt.message)

			assert.Equal(t, tt.expectKind, intent.Kind)
			if tt.expectKind == IntentContextQA {
				assert.Equal(t, tt.expectDocs, intent.Documents)
			}
			if tt.expectKind == IntentContextUpdate {
				assert.Equal(t, tt.expectDoc, intent.Document)
			}
		})
	}
}

func TestClassifyIntent_CopiesSelection(t *testing.T) {
	selection := []string{"A", "B"}
	intent := ClassifyIntent(true, selection, "summarize")

	selection[0] = "mutated"

	assert.Equal(t, "A", intent.Documents[0])
}
