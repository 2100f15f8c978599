// Package lexer turns raw text into search terms. Documents and queries go
// through the same Tokenize so their terms line up.
package lexer

import (
	"strings"
	"unicode/utf8"

	unicodetok "github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var tokenizer = unicodetok.NewUnicodeTokenizer()

// Tokenize splits text into case-folded words following Unicode word
// boundaries. Whitespace and punctuation never become terms. Invalid UTF-8
// is replaced before segmentation.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	normalized := norm.NFKC.String(text)

	// cases.Caser is stateful, so one per call keeps Tokenize goroutine-safe.
	folder := cases.Fold()
	stream := tokenizer.Tokenize([]byte(normalized))
	terms := make([]string, 0, len(stream))
	for _, token := range stream {
		term := folder.String(string(token.Term))
		if term == "" {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

// Frequencies counts term occurrences in text and returns the counts with the
// total number of terms.
func Frequencies(text string) (map[string]int, int) {
	terms := Tokenize(text)
	counts := make(map[string]int, len(terms))
	for _, term := range terms {
		counts[term]++
	}
	return counts, len(terms)
}
