// Package model defines the data models shared across the analysis pipeline.
package model

import "strings"

// DocumentCategory classifies a data room document.
type DocumentCategory string

const (
	CategoryPitchDeck    DocumentCategory = "pitch_deck"
	CategoryTranscript   DocumentCategory = "transcript"
	CategoryEmail        DocumentCategory = "email"
	CategoryFounderEmail DocumentCategory = "founder_email"
	CategoryUpdate       DocumentCategory = "update"
)

// Categories returns all document categories in indexing order.
func Categories() []DocumentCategory {
	return []DocumentCategory{
		CategoryPitchDeck,
		CategoryTranscript,
		CategoryEmail,
		CategoryFounderEmail,
		CategoryUpdate,
	}
}

// Document is one uploaded data room file. Chunks is populated during
// indexing when nil; callers may pre-chunk and set it directly.
type Document struct {
	Filename string   `json:"filename"`
	Text     string   `json:"text"`
	Chunks   []string `json:"chunks,omitempty"`
}

// DocumentSet groups data room documents by category.
type DocumentSet map[DocumentCategory][]Document

// Add appends a document under its category.
func (s DocumentSet) Add(category DocumentCategory, doc Document) {
	s[category] = append(s[category], doc)
}

// Total returns the number of documents across all categories.
func (s DocumentSet) Total() int {
	n := 0
	for _, docs := range s {
		n += len(docs)
	}
	return n
}

// categoryPrefixes maps upload filename prefixes to categories. Files
// without a recognized prefix are treated as pitch deck material.
var categoryPrefixes = []struct {
	prefix   string
	category DocumentCategory
}{
	{"[Transcript]", CategoryTranscript},
	{"[FounderEmail]", CategoryFounderEmail},
	{"[Email]", CategoryEmail},
	{"[Update]", CategoryUpdate},
}

// CategorizeFilename maps an upload filename to a document category and
// returns the filename with the category prefix stripped.
func CategorizeFilename(filename string) (DocumentCategory, string) {
	for _, p := range categoryPrefixes {
		if strings.HasPrefix(filename, p.prefix) {
			name := strings.TrimSpace(strings.TrimPrefix(filename, p.prefix))
			if name == "" {
				name = filename
			}
			return p.category, name
		}
	}
	return CategoryPitchDeck, filename
}
