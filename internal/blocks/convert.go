package blocks

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var whitespace = regexp.MustCompile(`\s+`)

var headingStyles = map[string]string{
	"h1": "h1", "h2": "h2", "h3": "h3", "h4": "h4", "h5": "h5", "h6": "h6",
	"p": "normal", "blockquote": "blockquote",
}

var containers = map[string]bool{
	"div": true, "section": true, "article": true, "aside": true, "main": true,
	"header": true, "footer": true, "figure": true, "figcaption": true,
	"details": true, "summary": true, "center": true,
	"table": true, "thead": true, "tbody": true, "tfoot": true, "tr": true, "td": true, "th": true,
	"dl": true, "dd": true, "dt": true,
}

var skipped = map[string]bool{
	"hr": true, "script": true, "style": true, "iframe": true,
}

var decorators = map[string]string{
	"strong": "strong", "b": "strong",
	"em": "em", "i": "em",
	"code": "code", "kbd": "code", "tt": "code",
	"u": "underline", "ins": "underline",
	"s": "strike-through", "strike": "strike-through", "del": "strike-through",
}

// converter walks a parsed body and collects blocks, giving rules the first
// chance at every block level element.
type converter struct {
	rules  []Rule
	schema Schema
	out    []Block

	// pending collects inline content found outside any text block
	pending *Block
	links   int

	// quote is the style paragraphs inherit inside a blockquote
	quote string
}

func (c *converter) walk(parent *goquery.Selection) {
	parent.Contents().Each(func(_ int, child *goquery.Selection) {
		node := child.Get(0)
		switch node.Type {
		case html.TextNode:
			if c.pending == nil && strings.TrimSpace(node.Data) == "" {
				return
			}
			c.appendPending(child)
		case html.ElementNode:
			c.element(child)
		}
	})
}

func (c *converter) element(el *goquery.Selection) {
	for _, rule := range c.rules {
		if bs, ok := rule.Deserialize(el); ok {
			c.flush()
			c.out = append(c.out, bs...)
			return
		}
	}

	name := goquery.NodeName(el)
	switch {
	case headingStyles[name] != "":
		c.flush()
		style := c.schema.style(headingStyles[name])
		if name == "p" {
			style = c.paragraphStyle()
		}
		if hasBlockChildren(el) {
			if name == "blockquote" {
				c.walkQuote(el, style)
				return
			}
			c.walk(el)
			return
		}
		c.text(el, style, "", 0)
	case name == "ul" || name == "ol":
		c.flush()
		c.list(el, 1)
	case containers[name]:
		c.flush()
		c.walk(el)
	case skipped[name]:
		c.flush()
	default:
		c.appendPending(el)
	}
}

// walkQuote converts a blockquote holding block elements. Its paragraphs
// and stray inline content keep the blockquote style.
func (c *converter) walkQuote(el *goquery.Selection, style string) {
	outer := c.quote
	c.quote = style
	c.walk(el)
	c.flush()
	c.quote = outer
}

func (c *converter) paragraphStyle() string {
	if c.quote != "" {
		return c.quote
	}
	return "normal"
}

func (c *converter) list(el *goquery.Selection, level int) {
	kind := "bullet"
	if goquery.NodeName(el) == "ol" {
		kind = "number"
	}
	if !c.schema.hasList(kind) {
		kind = ""
	}

	el.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		nested := li.ChildrenFiltered("ul, ol")
		b := c.newTextBlock("normal", kind, level)
		c.inline(li, nil, &b, nested)
		c.emit(b)
		nested.Each(func(_ int, sub *goquery.Selection) {
			c.list(sub, level+1)
		})
	})
}

func (c *converter) text(el *goquery.Selection, style, listItem string, level int) {
	b := c.newTextBlock(style, listItem, level)
	c.inline(el, nil, &b, nil)
	c.emit(b)
}

func (c *converter) newTextBlock(style, listItem string, level int) Block {
	b := Block{Type: TypeBlock, Style: style}
	if listItem != "" {
		b.ListItem = listItem
		b.Level = level
	}
	return b
}

func (c *converter) appendPending(sel *goquery.Selection) {
	if c.pending == nil {
		b := c.newTextBlock(c.paragraphStyle(), "", 0)
		c.pending = &b
	}
	c.inlineNode(sel, nil, c.pending, nil)
}

func (c *converter) flush() {
	if c.pending == nil {
		return
	}
	b := *c.pending
	c.pending = nil
	c.emit(b)
}

// emit normalizes the spans of a text block and drops it when it has no text
func (c *converter) emit(b Block) {
	b.Children = mergeSpans(b.Children)
	if len(b.Children) == 0 {
		return
	}
	c.out = append(c.out, b)
}

// inline converts the contents of el into spans on b, skipping excluded nodes
func (c *converter) inline(el *goquery.Selection, marks []string, b *Block, exclude *goquery.Selection) {
	el.Contents().Each(func(_ int, child *goquery.Selection) {
		if exclude != nil && exclude.Length() > 0 && exclude.IsSelection(child) {
			return
		}
		c.inlineNode(child, marks, b, exclude)
	})
}

func (c *converter) inlineNode(sel *goquery.Selection, marks []string, b *Block, exclude *goquery.Selection) {
	node := sel.Get(0)
	switch node.Type {
	case html.TextNode:
		b.Children = append(b.Children, Span{
			Type:  TypeSpan,
			Text:  whitespace.ReplaceAllString(node.Data, " "),
			Marks: slices.Clone(marks),
		})
		return
	case html.ElementNode:
	default:
		return
	}

	name := goquery.NodeName(sel)
	switch {
	case name == "br":
		b.Children = append(b.Children, Span{Type: TypeSpan, Text: "\n", Marks: slices.Clone(marks)})
		return
	case name == "img" || skipped[name]:
		return
	case decorators[name] != "":
		if c.schema.hasDecorator(decorators[name]) && !slices.Contains(marks, decorators[name]) {
			marks = append(slices.Clone(marks), decorators[name])
		}
	case name == "a":
		if href := strings.TrimSpace(sel.AttrOr("href", "")); href != "" && c.schema.hasAnnotation(TypeLink) {
			c.links++
			def := MarkDef{Type: TypeLink, Key: key(TypeLink, strconv.Itoa(c.links), href), Href: href}
			b.MarkDefs = append(b.MarkDefs, def)
			marks = append(slices.Clone(marks), def.Key)
		}
	}
	c.inline(sel, marks, b, exclude)
}

// mergeSpans joins neighbours with equal marks and trims the block edges
func mergeSpans(spans []Span) []Span {
	var out []Span
	for _, span := range spans {
		if n := len(out); n > 0 && strings.HasSuffix(out[n-1].Text, " ") {
			span.Text = strings.TrimLeft(span.Text, " ")
		}
		if span.Text == "" {
			continue
		}
		if n := len(out); n > 0 && slices.Equal(out[n-1].Marks, span.Marks) {
			out[n-1].Text += span.Text
			continue
		}
		if span.Marks == nil {
			span.Marks = []string{}
		}
		out = append(out, span)
	}

	for len(out) > 0 {
		out[0].Text = strings.TrimLeft(out[0].Text, " ")
		if out[0].Text != "" {
			break
		}
		out = out[1:]
	}
	for len(out) > 0 {
		last := len(out) - 1
		out[last].Text = strings.TrimRight(out[last].Text, " ")
		if out[last].Text != "" {
			break
		}
		out = out[:last]
	}
	return out
}

func hasBlockChildren(el *goquery.Selection) bool {
	found := false
	el.Children().EachWithBreak(func(_ int, child *goquery.Selection) bool {
		name := goquery.NodeName(child)
		if headingStyles[name] != "" || containers[name] || name == "ul" || name == "ol" || name == "pre" {
			found = true
		}
		return !found
	})
	return found
}
