package notion

import (
	"strings"
	"unicode/utf8"

	"github.com/jomei/notionapi"

	"github.com/takak2166/wordpress2sanity/internal/blocks"
)

// maxTextLength is the longest content Notion accepts in one rich text object
const maxTextLength = 2000

// codeLanguages maps class derived languages to Notion's language names
var codeLanguages = map[string]string{
	"js":     "javascript",
	"ts":     "typescript",
	"sh":     "shell",
	"py":     "python",
	"rb":     "ruby",
	"golang": "go",
	"yml":    "yaml",
	"cs":     "c#",
	"cpp":    "c++",
}

// RenderBlocks converts a structured body into Notion blocks. Nested list
// levels are flattened since page-create children are a single level.
func RenderBlocks(body []blocks.Block) []notionapi.Block {
	out := make([]notionapi.Block, 0, len(body))
	for _, b := range body {
		if block := renderBlock(b); block != nil {
			out = append(out, block)
		}
	}
	return out
}

func renderBlock(b blocks.Block) notionapi.Block {
	switch b.Type {
	case blocks.TypeCode:
		return createCodeBlock(b.Code, b.Language)
	case blocks.TypeImage:
		return createImageBlock(b.AssetURL())
	case blocks.TypeBlock:
	default:
		return nil
	}

	text := richText(b)
	switch {
	case b.ListItem == "bullet":
		return createBulletedListBlock(text)
	case b.ListItem == "number":
		return createNumberedListBlock(text)
	case strings.HasPrefix(b.Style, "h") && len(b.Style) == 2:
		return createHeadingBlock(text, int(b.Style[1]-'0'))
	case b.Style == "blockquote":
		return &notionapi.QuoteBlock{
			BasicBlock: notionapi.BasicBlock{
				Object: "block",
				Type:   notionapi.BlockTypeQuote,
			},
			Quote: notionapi.Quote{
				RichText: text,
			},
		}
	default:
		return createParagraphBlock(text)
	}
}

// richText converts the spans of a text block, carrying decorators as
// annotations and link mark defs as text links
func richText(b blocks.Block) []notionapi.RichText {
	var out []notionapi.RichText
	for _, span := range b.Children {
		var annotations notionapi.Annotations
		var link *notionapi.Link
		for _, mark := range span.Marks {
			switch mark {
			case "strong":
				annotations.Bold = true
			case "em":
				annotations.Italic = true
			case "code":
				annotations.Code = true
			case "underline":
				annotations.Underline = true
			case "strike-through":
				annotations.Strikethrough = true
			default:
				if def, ok := b.MarkDef(mark); ok && def.Type == blocks.TypeLink {
					link = &notionapi.Link{Url: def.Href}
				}
			}
		}
		annotated := annotations.Bold || annotations.Italic || annotations.Code ||
			annotations.Underline || annotations.Strikethrough

		for _, chunk := range chunks(span.Text) {
			rt := notionapi.RichText{
				Text: &notionapi.Text{
					Content: chunk,
					Link:    link,
				},
			}
			if annotated {
				a := annotations
				rt.Annotations = &a
			}
			out = append(out, rt)
		}
	}
	return out
}

func plainRichText(content string) []notionapi.RichText {
	var out []notionapi.RichText
	for _, chunk := range chunks(content) {
		out = append(out, notionapi.RichText{
			Text: &notionapi.Text{
				Content: chunk,
			},
		})
	}
	return out
}

// chunks splits s into pieces Notion accepts without breaking a rune
func chunks(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for utf8.RuneCountInString(s) > maxTextLength {
		cut := 0
		for i := 0; i < maxTextLength; i++ {
			_, size := utf8.DecodeRuneInString(s[cut:])
			cut += size
		}
		out = append(out, s[:cut])
		s = s[cut:]
	}
	return append(out, s)
}

// createHeadingBlock creates a heading block with the specified level.
// Notion has three heading levels, deeper ones render as level 3.
func createHeadingBlock(text []notionapi.RichText, level int) notionapi.Block {
	switch level {
	case 1:
		return &notionapi.Heading1Block{
			BasicBlock: notionapi.BasicBlock{
				Object: "block",
				Type:   notionapi.BlockTypeHeading1,
			},
			Heading1: notionapi.Heading{
				RichText: text,
			},
		}
	case 2:
		return &notionapi.Heading2Block{
			BasicBlock: notionapi.BasicBlock{
				Object: "block",
				Type:   notionapi.BlockTypeHeading2,
			},
			Heading2: notionapi.Heading{
				RichText: text,
			},
		}
	default:
		return &notionapi.Heading3Block{
			BasicBlock: notionapi.BasicBlock{
				Object: "block",
				Type:   notionapi.BlockTypeHeading3,
			},
			Heading3: notionapi.Heading{
				RichText: text,
			},
		}
	}
}

func createCodeBlock(content, language string) notionapi.Block {
	lang := "plain text"
	if language != "" {
		lang = strings.ToLower(language)
		if mapped, ok := codeLanguages[lang]; ok {
			lang = mapped
		}
	}
	return &notionapi.CodeBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: "block",
			Type:   notionapi.BlockTypeCode,
		},
		Code: notionapi.Code{
			RichText: plainRichText(content),
			Language: lang,
		},
	}
}

func createImageBlock(url string) notionapi.Block {
	return &notionapi.ImageBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: "block",
			Type:   notionapi.BlockTypeImage,
		},
		Image: *externalImage(url),
	}
}

func createBulletedListBlock(text []notionapi.RichText) notionapi.Block {
	return &notionapi.BulletedListItemBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: "block",
			Type:   notionapi.BlockTypeBulletedListItem,
		},
		BulletedListItem: notionapi.ListItem{
			RichText: text,
		},
	}
}

func createNumberedListBlock(text []notionapi.RichText) notionapi.Block {
	return &notionapi.NumberedListItemBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: "block",
			Type:   notionapi.BlockTypeNumberedListItem,
		},
		NumberedListItem: notionapi.ListItem{
			RichText: text,
		},
	}
}

func createParagraphBlock(text []notionapi.RichText) notionapi.Block {
	return &notionapi.ParagraphBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: "block",
			Type:   notionapi.BlockTypeParagraph,
		},
		Paragraph: notionapi.Paragraph{
			RichText: text,
		},
	}
}

func externalImage(url string) *notionapi.Image {
	return &notionapi.Image{
		Type: notionapi.FileTypeExternal,
		External: &notionapi.FileObject{
			URL: url,
		},
	}
}
