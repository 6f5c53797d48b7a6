package blocks

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Structurer converts rich text HTML into an ordered block list
type Structurer struct {
	sanitizer Sanitizer
	schema    Schema
	rules     []Rule
}

// Option configures a Structurer
type Option func(*Structurer)

// WithSanitizer replaces the default bluemonday policy
func WithSanitizer(s Sanitizer) Option {
	return func(st *Structurer) {
		st.sanitizer = s
	}
}

// WithSchema sets the body schema handed to the default converter
func WithSchema(schema Schema) Option {
	return func(st *Structurer) {
		st.schema = schema
	}
}

// WithRules replaces the rule chain evaluated before the default converter
func WithRules(rules ...Rule) Option {
	return func(st *Structurer) {
		st.rules = rules
	}
}

// New creates a Structurer with the code block and image rules
func New(opts ...Option) *Structurer {
	s := &Structurer{
		sanitizer: NewPolicy(),
		schema:    DefaultSchema,
		rules:     DefaultRules(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Structure sanitizes and parses body HTML, then converts it to blocks.
// Empty input yields an empty list.
func (s *Structurer) Structure(body string) ([]Block, error) {
	if strings.TrimSpace(body) == "" {
		return []Block{}, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s.sanitizer.Sanitize(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse body html: %w", err)
	}

	c := &converter{rules: s.rules, schema: s.schema}
	c.walk(doc.Find("body"))
	c.flush()

	if c.out == nil {
		return []Block{}, nil
	}
	assignKeys(c.out)
	return c.out, nil
}
