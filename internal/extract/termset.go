package extract

import "github.com/takak2166/wordpress2sanity/internal/models"

// TermSet is a run scoped set of taxonomy terms keyed by id.
// The caller owns it and passes the same set to every export file so a
// term repeated across files is only staged once.
type TermSet struct {
	terms map[string]*models.Term
	order []string
}

// NewTermSet creates an empty set
func NewTermSet() *TermSet {
	return &TermSet{terms: make(map[string]*models.Term)}
}

// Add inserts t unless a term with the same id exists, and reports whether
// it was inserted. An existing term is never replaced.
func (s *TermSet) Add(t *models.Term) bool {
	if _, ok := s.terms[t.ID]; ok {
		return false
	}
	s.terms[t.ID] = t
	s.order = append(s.order, t.ID)
	return true
}

// Get returns the term stored under id
func (s *TermSet) Get(id string) (*models.Term, bool) {
	t, ok := s.terms[id]
	return t, ok
}

// Len returns the number of distinct terms
func (s *TermSet) Len() int {
	return len(s.order)
}

// Terms returns every term in insertion order
func (s *TermSet) Terms() []*models.Term {
	out := make([]*models.Term, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.terms[id])
	}
	return out
}
