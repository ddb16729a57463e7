package services

import (
	"sort"
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"
)

// KeywordExtractor produces a short keyword digest of a document's text,
// used by the document listing endpoint.
type KeywordExtractor struct {
	stopWords map[string]bool
	minLength int
	// Large documents are truncated before NLP processing; a digest of the
	// opening text is enough for a listing.
	maxChars int
}

// NewKeywordExtractor creates a keyword extractor
func NewKeywordExtractor() *KeywordExtractor {
	stopWords := map[string]bool{
		"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
		"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
		"with": true, "by": true, "is": true, "are": true, "was": true, "were": true,
		"be": true, "been": true, "have": true, "has": true, "had": true, "do": true,
		"does": true, "did": true, "will": true, "would": true, "could": true, "should": true,
		"this": true, "that": true, "these": true, "those": true, "i": true, "you": true,
		"he": true, "she": true, "it": true, "we": true, "they": true, "my": true,
		"your": true, "his": true, "her": true, "its": true, "our": true, "their": true,
		"as": true, "from": true, "not": true, "no": true, "if": true, "then": true,
	}

	return &KeywordExtractor{
		stopWords: stopWords,
		minLength: 3,
		maxChars:  4000,
	}
}

type keywordScore struct {
	word      string
	frequency int
	score     float64
}

// ExtractKeywords returns up to limit keywords for the text, scored by POS
// tag with named entities boosted.
func (ke *KeywordExtractor) ExtractKeywords(text string, limit int) ([]string, error) {
	if len(text) > ke.maxChars {
		text = text[:ke.maxChars]
	}

	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, err
	}

	wordFreq := make(map[string]*keywordScore)

	for _, tok := range doc.Tokens() {
		word := strings.ToLower(tok.Text)
		if ke.shouldSkipWord(word, tok.Tag) {
			continue
		}

		score := ke.calculateScore(tok.Tag)
		if existing, exists := wordFreq[word]; exists {
			existing.frequency++
			existing.score += score
		} else {
			wordFreq[word] = &keywordScore{word: word, frequency: 1, score: score}
		}
	}

	// Named entities get a flat boost
	for _, ent := range doc.Entities() {
		word := strings.ToLower(ent.Text)
		if len(word) >= ke.minLength && !ke.stopWords[word] {
			if existing, exists := wordFreq[word]; exists {
				existing.score += 2.0
			} else {
				wordFreq[word] = &keywordScore{word: word, frequency: 1, score: 2.0}
			}
		}
	}

	scored := make([]keywordScore, 0, len(wordFreq))
	for _, kw := range wordFreq {
		scored = append(scored, *kw)
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].word < scored[j].word
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}

	keywords := make([]string, len(scored))
	for i, kw := range scored {
		keywords[i] = kw.word
	}
	return keywords, nil
}

// shouldSkipWord filters stop words, short tokens and non-alphabetic junk
func (ke *KeywordExtractor) shouldSkipWord(word, tag string) bool {
	if len(word) < ke.minLength {
		return true
	}
	if ke.stopWords[word] {
		return true
	}
	for _, r := range word {
		if !unicode.IsLetter(r) && r != '-' {
			return true
		}
	}
	// Keep nouns, verbs and adjectives only
	switch {
	case strings.HasPrefix(tag, "NN"), strings.HasPrefix(tag, "VB"), strings.HasPrefix(tag, "JJ"):
		return false
	default:
		return true
	}
}

// calculateScore weights tokens by part of speech
func (ke *KeywordExtractor) calculateScore(tag string) float64 {
	switch {
	case strings.HasPrefix(tag, "NNP"): // Proper nouns
		return 1.5
	case strings.HasPrefix(tag, "NN"): // Nouns
		return 1.2
	case strings.HasPrefix(tag, "JJ"): // Adjectives
		return 0.8
	case strings.HasPrefix(tag, "VB"): // Verbs
		return 0.6
	default:
		return 0.3
	}
}
