package blocks

import "slices"

// Schema describes what the destination body field accepts.
// The default converter degrades anything outside it: unknown styles become
// "normal", unknown decorators and annotations are dropped.
type Schema struct {
	Styles      []string
	Lists       []string
	Decorators  []string
	Annotations []string
}

// DefaultSchema matches a typical blog post body field
var DefaultSchema = Schema{
	Styles:      []string{"normal", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote"},
	Lists:       []string{"bullet", "number"},
	Decorators:  []string{"strong", "em", "code", "underline", "strike-through"},
	Annotations: []string{TypeLink},
}

func (s Schema) style(name string) string {
	if slices.Contains(s.Styles, name) {
		return name
	}
	return "normal"
}

func (s Schema) hasList(name string) bool {
	return slices.Contains(s.Lists, name)
}

func (s Schema) hasDecorator(name string) bool {
	return slices.Contains(s.Decorators, name)
}

func (s Schema) hasAnnotation(name string) bool {
	return slices.Contains(s.Annotations, name)
}
