// Package pages provides the read-only store of per-page text extracted
// from the source document. Pages are the atomic indexing unit for all
// downstream analysis: every chapter boundary, keyword match, and export
// row is attributed to a page number held here.
package pages

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// ErrPageNotFound is returned when a requested page is absent from the store.
var ErrPageNotFound = errors.New("page not found")

// Page is one unit of the source document's pagination.
// Immutable once extracted; empty text is valid (the page simply had no
// extractable text).
type Page struct {
	Number    int    `json:"page" yaml:"page"`
	Text      string `json:"text" yaml:"text"`
	WordCount int    `json:"word_count" yaml:"word_count"`
	CharCount int    `json:"char_count" yaml:"char_count"`
}

// Store is an ordered, read-only mapping from page number to page text.
// It is built once from the upstream decoder's output and never mutated.
type Store struct {
	byNumber map[int]Page
	order    []int
}

// NewStore builds a Store from the decoder's page number to text mapping.
// Word and character counts are derived here; character counts are in
// runes so mixed Thai/ASCII text is counted consistently.
func NewStore(texts map[int]string) *Store {
	s := &Store{byNumber: make(map[int]Page, len(texts))}
	for num, text := range texts {
		s.byNumber[num] = Page{
			Number:    num,
			Text:      text,
			WordCount: len(strings.Fields(text)),
			CharCount: utf8.RuneCountInString(text),
		}
		s.order = append(s.order, num)
	}
	sort.Ints(s.order)
	return s
}

// Get returns the text of the given page.
// Fails with ErrPageNotFound when the page is absent.
func (s *Store) Get(pageNum int) (string, error) {
	p, ok := s.byNumber[pageNum]
	if !ok {
		return "", fmt.Errorf("page %d: %w", pageNum, ErrPageNotFound)
	}
	return p.Text, nil
}

// Page returns the full page record for the given page number.
func (s *Store) Page(pageNum int) (Page, error) {
	p, ok := s.byNumber[pageNum]
	if !ok {
		return Page{}, fmt.Errorf("page %d: %w", pageNum, ErrPageNotFound)
	}
	return p, nil
}

// All returns every page ordered by page number ascending.
func (s *Store) All() []Page {
	out := make([]Page, 0, len(s.order))
	for _, num := range s.order {
		out = append(out, s.byNumber[num])
	}
	return out
}

// Count returns the number of pages in the store.
func (s *Store) Count() int {
	return len(s.order)
}

// Has reports whether the store contains the given page number.
func (s *Store) Has(pageNum int) bool {
	_, ok := s.byNumber[pageNum]
	return ok
}
