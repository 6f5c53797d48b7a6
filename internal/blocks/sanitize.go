package blocks

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer turns untrusted HTML into safe HTML
type Sanitizer interface {
	Sanitize(html string) string
}

var codeClass = regexp.MustCompile(`^(language|lang)-[\w+#-]+$`)

// NewPolicy returns the sanitizing policy applied to post bodies: the user
// generated content policy plus language classes on code blocks.
func NewPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(codeClass).OnElements("code", "pre")
	return p
}
