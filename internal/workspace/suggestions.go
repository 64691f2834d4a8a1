package workspace

import (
	"slices"
	"sync"

	"github.com/utafrali/counterdesk/internal/domain"
)

// SuggestionList holds the latest search results for one draft. Each search
// takes a ticket from Begin; only the response carrying the newest ticket is
// applied, so a slow early response cannot overwrite a later one.
type SuggestionList struct {
	mu     sync.Mutex
	target Target
	issued uint64
	items  []domain.Product
}

// NewSuggestionList returns an empty list for target.
func NewSuggestionList(target Target) *SuggestionList {
	return &SuggestionList{target: target}
}

// Begin issues the ticket for a new search.
func (l *SuggestionList) Begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.issued++
	return l.issued
}

// Apply replaces the list wholesale if seq is still the newest ticket.
// It reports whether the results were applied.
func (l *SuggestionList) Apply(seq uint64, items []domain.Product) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if seq != l.issued {
		staleSuggestionsTotal.WithLabelValues(string(l.target)).Inc()
		return false
	}
	l.items = slices.Clone(items)
	return true
}

// Clear empties the list and invalidates searches still in flight.
func (l *SuggestionList) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.issued++
	l.items = nil
}

// Items returns a copy of the current suggestions.
func (l *SuggestionList) Items() []domain.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

// Find returns the suggestion with the given id.
func (l *SuggestionList) Find(id domain.ProductID) (domain.Product, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.items {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}
