package blocks

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructureEmpty(t *testing.T) {
	for _, input := range []string{"", "   \n\t"} {
		got, err := New().Structure(input)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestStructureCodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		code     string
		language string
	}{
		{
			name: "pre with nested code",
			html: `<pre><code>x=1</code></pre>`,
			code: "x=1",
		},
		{
			name: "bare pre",
			html: "<pre>echo hello\necho world</pre>",
			code: "echo hello\necho world",
		},
		{
			name:     "language class survives sanitizing",
			html:     `<pre><code class="language-go">fmt.Println(1 &lt; 2)</code></pre>`,
			code:     "fmt.Println(1 < 2)",
			language: "go",
		},
		{
			name: "markup inside code is flattened to text",
			html: `<pre><code>a <b>bold</b> move</code></pre>`,
			code: "a bold move",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().Structure(tt.html)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, TypeCode, got[0].Type)
			assert.Equal(t, tt.code, got[0].Code)
			assert.Equal(t, tt.language, got[0].Language)
		})
	}
}

func TestStructureEmptyPreFallsThrough(t *testing.T) {
	got, err := New().Structure(`<pre></pre><p>after</p>`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, TypeBlock, got[0].Type)
	assert.Equal(t, "after", got[0].Text())
}

func TestStructureImages(t *testing.T) {
	tests := []struct {
		name string
		html string
		url  string
	}{
		{
			name: "paragraph wrapping protocol relative image",
			html: `<p><img src="//ex.com/a.png"></p>`,
			url:  "https://ex.com/a.png",
		},
		{
			name: "bare image",
			html: `<img src="https://ex.com/b.jpg" alt="b">`,
			url:  "https://ex.com/b.jpg",
		},
		{
			name: "whitespace around the only image",
			html: "<p>\n  <img src=\"http://ex.com/c.gif\">\n</p>",
			url:  "http://ex.com/c.gif",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().Structure(tt.html)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, TypeImage, got[0].Type)
			assert.Equal(t, "image@"+tt.url, got[0].Asset)
			assert.Equal(t, tt.url, got[0].AssetURL())
		})
	}
}

func TestStructureInlineImageIsNotExtracted(t *testing.T) {
	got, err := New().Structure(`<p>Look <img src="//ex.com/a.png"> here</p>`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, TypeBlock, got[0].Type)
	assert.Equal(t, "Look here", got[0].Text())
}

func TestStructureKeepsSourceOrder(t *testing.T) {
	html := `<h2>Intro</h2>
<p>First <strong>bold</strong> paragraph.</p>
<pre><code>go run .</code></pre>
<p><img src="//ex.com/shot.png"></p>
<ul><li>one</li><li>two<ol><li>nested</li></ol></li></ul>
<blockquote>quoted</blockquote>`

	got, err := New().Structure(html)
	require.NoError(t, err)

	var types []string
	for _, b := range got {
		kind := b.Type
		if b.Type == TypeBlock {
			kind += ":" + b.Style
			if b.ListItem != "" {
				kind += ":" + b.ListItem
			}
		}
		types = append(types, kind)
	}
	assert.Equal(t, []string{
		"block:h2",
		"block:normal",
		"code",
		"image",
		"block:normal:bullet",
		"block:normal:bullet",
		"block:normal:number",
		"block:blockquote",
	}, types)

	assert.Equal(t, "Intro", got[0].Text())
	assert.Equal(t, "two", got[5].Text())
	assert.Equal(t, 1, got[5].Level)
	assert.Equal(t, "nested", got[6].Text())
	assert.Equal(t, 2, got[6].Level)
}

func TestStructureQuoteWithParagraphs(t *testing.T) {
	html := `<blockquote class="wp-block-quote"><p>First line</p><p>Second <em>line</em></p><cite>Someone</cite></blockquote>
<p>after</p>`

	got, err := New().Structure(html)
	require.NoError(t, err)
	require.Len(t, got, 4)

	for i, want := range []string{"First line", "Second line", "Someone"} {
		assert.Equal(t, TypeBlock, got[i].Type)
		assert.Equal(t, "blockquote", got[i].Style)
		assert.Equal(t, want, got[i].Text())
	}
	assert.Equal(t, "normal", got[3].Style)
	assert.Equal(t, "after", got[3].Text())
}

func TestStructureQuoteSingleParagraph(t *testing.T) {
	got, err := New().Structure(`<blockquote><p>quoted</p></blockquote>`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "blockquote", got[0].Style)
	assert.Equal(t, "quoted", got[0].Text())
}

func TestStructureQuoteKeepsHeadingsAndLists(t *testing.T) {
	got, err := New().Structure(`<blockquote><h3>Title</h3><ul><li>item</li></ul></blockquote>`)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "h3", got[0].Style)
	assert.Equal(t, "bullet", got[1].ListItem)
	assert.Equal(t, "normal", got[1].Style)
}

func TestStructureMarksAndLinks(t *testing.T) {
	got, err := New().Structure(`<p>Read <a href="https://ex.com">the <em>docs</em></a> now</p>`)
	require.NoError(t, err)
	require.Len(t, got, 1)

	b := got[0]
	require.Len(t, b.MarkDefs, 1)
	link := b.MarkDefs[0]
	assert.Equal(t, TypeLink, link.Type)
	assert.Equal(t, "https://ex.com", link.Href)

	require.Len(t, b.Children, 4)
	assert.Equal(t, "Read ", b.Children[0].Text)
	assert.Empty(t, b.Children[0].Marks)
	assert.Equal(t, "the ", b.Children[1].Text)
	assert.Equal(t, []string{link.Key}, b.Children[1].Marks)
	assert.Equal(t, "docs", b.Children[2].Text)
	assert.Equal(t, []string{link.Key, "em"}, b.Children[2].Marks)
	assert.Equal(t, " now", b.Children[3].Text)
}

func TestStructureStrayTextBecomesParagraph(t *testing.T) {
	got, err := New().Structure("Just text with <em>emphasis</em>\n<p>Then a paragraph</p>")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Just text with emphasis", got[0].Text())
	assert.Equal(t, "Then a paragraph", got[1].Text())
}

func TestStructureDropsScripts(t *testing.T) {
	got, err := New().Structure(`<p>safe</p><script>alert(1)</script>`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "safe", got[0].Text())
}

func TestStructureSchemaDegradesUnknownStyles(t *testing.T) {
	schema := Schema{Styles: []string{"normal"}, Lists: []string{"bullet"}}
	got, err := New(WithSchema(schema)).Structure(`<h1>Title</h1><p><strong>x</strong></p>`)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "normal", got[0].Style)
	assert.Empty(t, got[1].Children[0].Marks)
}

func TestStructureKeysAreStable(t *testing.T) {
	html := `<p>one</p><p>two</p>`
	first, err := New().Structure(html)
	require.NoError(t, err)
	second, err := New().Structure(html)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first[0].Key, first[1].Key)
	assert.Len(t, first[0].Key, 12)
	assert.NotEmpty(t, first[0].Children[0].Key)
}

func TestCustomRuleRunsFirst(t *testing.T) {
	hr := RuleFunc(func(el *goquery.Selection) ([]Block, bool) {
		if goquery.NodeName(el) != "hr" {
			return nil, false
		}
		return []Block{{Type: "break"}}, true
	})
	drop := RuleFunc(func(el *goquery.Selection) ([]Block, bool) {
		return nil, goquery.NodeName(el) == "blockquote"
	})

	rules := append([]Rule{hr, drop}, DefaultRules()...)
	got, err := New(WithRules(rules...)).Structure(`<p>a</p><hr><blockquote>gone</blockquote><pre>x</pre>`)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, TypeBlock, got[0].Type)
	assert.Equal(t, "break", got[1].Type)
	assert.Equal(t, TypeCode, got[2].Type)
}

type upperSanitizer struct{}

func (upperSanitizer) Sanitize(html string) string { return strings.ToUpper(html) }

func TestWithSanitizer(t *testing.T) {
	got, err := New(WithSanitizer(upperSanitizer{})).Structure(`<p>quiet</p>`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "QUIET", got[0].Text())
}
