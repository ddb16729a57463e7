package services

import "strings"

// IntentKind classifies the purpose of a chat request
type IntentKind string

const (
	IntentGeneral       IntentKind = "general"        // plain chat, no document context
	IntentContextQA     IntentKind = "context_qa"     // grounded Q&A over selected documents
	IntentContextUpdate IntentKind = "context_update" // in-place rewrite of one document
)

// Intent is the classification result. Documents holds the selection for
// context_qa; Document holds the single target for context_update.
type Intent struct {
	Kind      IntentKind
	Documents []string
	Document  string
}

// updateVerbs are matched as raw substrings of the lowercased message. The
// trailing space is significant: this is a literal substring test, not word
// tokenization, so "please update me on recent events" routes to update
// when exactly one document is selected. That ambiguity is a known,
// preserved limitation of the routing contract; replacing it with a real
// tokenizer changes observable routing and needs a product decision first.
var updateVerbs = []string{"update ", "change ", "modify ", "correct ", "replace ", "edit "}

// ClassifyIntent routes a chat request to one of the three intents. Pure
// function of the toggle, the selection and the message text:
//
//  1. context not required, or nothing selected  -> general
//  2. exactly one selection and the message contains an update verb -> context_update
//  3. otherwise -> context_qa (single or multi document)
//
// Selecting more than one document always disables update routing.
func ClassifyIntent(isContextRequired bool, selectedDocuments []string, message string) Intent {
	if !isContextRequired || len(selectedDocuments) == 0 {
		return Intent{Kind: IntentGeneral}
	}

	if len(selectedDocuments) == 1 && containsUpdateVerb(message) {
		return Intent{Kind: IntentContextUpdate, Document: selectedDocuments[0]}
	}

	docs := make([]string, len(selectedDocuments))
	copy(docs, selectedDocuments)
	return Intent{Kind: IntentContextQA, Documents: docs}
}

func containsUpdateVerb(message string) bool {
	lower := strings.ToLower(message)
	for _, verb := range updateVerbs {
		if strings.Contains(lower, verb) {
			return true
		}
	}
	return false
}
