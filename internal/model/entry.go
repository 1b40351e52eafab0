// Package model defines the core glossary data types.
package model

import "strings"

// Entry represents one glossary item: a normalized term, its meaning
// and zero or more example sentences in insertion order.
type Entry struct {
	Term     string   `json:"term"`
	Meaning  string   `json:"meaning"`
	Examples []string `json:"examples,omitempty"`
}

// Stats holds glossary-wide statistics.
type Stats struct {
	Count              int     `json:"count"`
	TotalExamples      int     `json:"total_examples"`
	AvgExamplesPerTerm float64 `json:"avg_examples_per_term"`
}

// Normalize canonicalizes a term: lower-cased with surrounding
// whitespace stripped, so case and whitespace variants collide on the
// same key. Applied before every lookup, insert and delete.
func Normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// SplitExamples breaks a multi-line submission into one example per
// non-empty line, trimming whitespace. An all-blank submission yields
// nil, which commits as an entry with zero examples.
func SplitExamples(text string) []string {
	var examples []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			examples = append(examples, line)
		}
	}
	return examples
}
