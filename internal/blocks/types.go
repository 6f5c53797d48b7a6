package blocks

import "strings"

// Block and span types understood by the destination
const (
	TypeBlock = "block"
	TypeCode  = "code"
	TypeImage = "image"
	TypeSpan  = "span"
	TypeLink  = "link"

	// AssetPrefix tells the importer to fetch an image asset from a URL
	AssetPrefix = "image@"
)

// Block is one structural unit of a document body.
// Text blocks use Style, ListItem, Level, Children and MarkDefs;
// code blocks use Code and Language; image blocks use Asset.
type Block struct {
	Type     string    `json:"_type"`
	Key      string    `json:"_key,omitempty"`
	Style    string    `json:"style,omitempty"`
	ListItem string    `json:"listItem,omitempty"`
	Level    int       `json:"level,omitempty"`
	Children []Span    `json:"children,omitempty"`
	MarkDefs []MarkDef `json:"markDefs,omitempty"`
	Code     string    `json:"code,omitempty"`
	Language string    `json:"language,omitempty"`
	Asset    string    `json:"_sanityAsset,omitempty"`
}

// Span is a run of text sharing the same marks
type Span struct {
	Type  string   `json:"_type"`
	Key   string   `json:"_key,omitempty"`
	Text  string   `json:"text"`
	Marks []string `json:"marks"`
}

// MarkDef is an annotation referenced from span marks by key
type MarkDef struct {
	Type string `json:"_type"`
	Key  string `json:"_key"`
	Href string `json:"href,omitempty"`
}

// Text returns the plain text of a text block
func (b Block) Text() string {
	var sb strings.Builder
	for _, span := range b.Children {
		sb.WriteString(span.Text)
	}
	return sb.String()
}

// AssetURL returns the source URL of an image block
func (b Block) AssetURL() string {
	return strings.TrimPrefix(b.Asset, AssetPrefix)
}

// MarkDef looks up an annotation by key
func (b Block) MarkDef(key string) (MarkDef, bool) {
	for _, def := range b.MarkDefs {
		if def.Key == key {
			return def, true
		}
	}
	return MarkDef{}, false
}
