package blocks

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Rule converts one element into blocks. Returning false declines the
// element so the next rule, and finally the default converter, can try.
// Returning true with no blocks claims the element and drops it.
type Rule interface {
	Deserialize(el *goquery.Selection) ([]Block, bool)
}

// RuleFunc adapts a function to the Rule interface
type RuleFunc func(el *goquery.Selection) ([]Block, bool)

func (f RuleFunc) Deserialize(el *goquery.Selection) ([]Block, bool) {
	return f(el)
}

// DefaultRules are evaluated before the default converter, in order
func DefaultRules() []Rule {
	return []Rule{
		RuleFunc(CodeBlockRule),
		RuleFunc(ImageRule),
	}
}

// CodeBlockRule claims pre elements. Text comes from a nested code element
// when present, otherwise from the pre itself. Empty code is declined.
func CodeBlockRule(el *goquery.Selection) ([]Block, bool) {
	if goquery.NodeName(el) != "pre" {
		return nil, false
	}

	src := el
	if code := el.ChildrenFiltered("code").First(); code.Length() > 0 {
		src = code
	}

	text := src.Text()
	if text == "" {
		return nil, false
	}

	return []Block{{
		Type:     TypeCode,
		Code:     text,
		Language: codeLanguage(src, el),
	}}, true
}

// ImageRule claims a bare img, or a paragraph whose only child is an img.
// Images mixed with text are left to the default converter.
func ImageRule(el *goquery.Selection) ([]Block, bool) {
	img := el
	switch goquery.NodeName(el) {
	case "img":
	case "p":
		only, ok := onlyChild(el)
		if !ok || goquery.NodeName(only) != "img" {
			return nil, false
		}
		img = only
	default:
		return nil, false
	}

	src := strings.TrimSpace(img.AttrOr("src", ""))
	if src == "" {
		return nil, false
	}

	return []Block{{
		Type:  TypeImage,
		Asset: AssetPrefix + normalizeSrc(src),
	}}, true
}

// normalizeSrc turns protocol-relative URLs into https ones
func normalizeSrc(src string) string {
	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}
	return src
}

// onlyChild returns the single element child of el, ignoring whitespace
// text and comments. It fails when el holds any other text or element.
func onlyChild(el *goquery.Selection) (*goquery.Selection, bool) {
	var only *goquery.Selection
	ok := true
	el.Contents().EachWithBreak(func(_ int, child *goquery.Selection) bool {
		node := child.Get(0)
		switch node.Type {
		case html.CommentNode:
			return true
		case html.TextNode:
			if strings.TrimSpace(node.Data) == "" {
				return true
			}
			ok = false
		case html.ElementNode:
			if only != nil {
				ok = false
			}
			only = child
		}
		return ok
	})
	if !ok || only == nil {
		return nil, false
	}
	return only, true
}

func codeLanguage(sels ...*goquery.Selection) string {
	for _, sel := range sels {
		for _, class := range strings.Fields(sel.AttrOr("class", "")) {
			if !codeClass.MatchString(class) {
				continue
			}
			_, lang, _ := strings.Cut(class, "-")
			return lang
		}
	}
	return ""
}
