package models

import (
	"regexp"
	"strings"

	"github.com/gosimple/slug"
)

var repeatedDashes = regexp.MustCompile(`-{2,}`)

// Slugify lowercases s and keeps only ASCII letters, digits and single
// dashes. Underscores are removed rather than kept.
func Slugify(s string) string {
	out := strings.ReplaceAll(slug.Make(s), "_", "")
	out = repeatedDashes.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}
