package notion

import (
	"strings"

	"github.com/jomei/notionapi"

	"github.com/takak2166/wordpress2sanity/internal/models"
)

// Page is a Document staged as an offline Notion page-create payload
type Page struct {
	ID      string                       `json:"_id"`
	Type    string                       `json:"_type"`
	Request *notionapi.PageCreateRequest `json:"page"`
}

func (p *Page) RecordKind() string { return p.Type }
func (p *Page) RecordID() string   { return p.ID }

// Renderer builds page payloads under an optional parent page
type Renderer struct {
	parentID notionapi.PageID
	terms    map[string]string
}

// NewRenderer creates a Renderer. parentPageID may be empty when the
// payloads are completed by whoever submits them.
func NewRenderer(parentPageID string) *Renderer {
	return &Renderer{
		parentID: notionapi.PageID(parentPageID),
		terms:    make(map[string]string),
	}
}

// AddTerms makes category and tag titles available to multi-select properties
func (r *Renderer) AddTerms(terms ...*models.Term) {
	for _, t := range terms {
		r.terms[t.ID] = t.Title
	}
}

// Render converts a resolved Document into a page payload
func (r *Renderer) Render(doc *models.Document) *Page {
	props := notionapi.Properties{
		"Name": notionapi.TitleProperty{
			Type:  notionapi.PropertyTypeTitle,
			Title: plainRichText(doc.Title),
		},
		"Slug": notionapi.RichTextProperty{
			Type:     notionapi.PropertyTypeRichText,
			RichText: plainRichText(doc.Slug.Current),
		},
	}
	if doc.Description != "" {
		props["Description"] = notionapi.RichTextProperty{
			Type:     notionapi.PropertyTypeRichText,
			RichText: plainRichText(doc.Description),
		}
	}
	if doc.PublishedAt != nil {
		published := notionapi.Date(*doc.PublishedAt)
		props["Published"] = notionapi.DateProperty{
			Type: notionapi.PropertyTypeDate,
			Date: &notionapi.DateObject{
				Start: &published,
			},
		}
	}
	if len(doc.Categories) > 0 {
		props["Categories"] = r.multiSelect(doc.Categories)
	}
	if len(doc.Tags) > 0 {
		props["Tags"] = r.multiSelect(doc.Tags)
	}

	req := &notionapi.PageCreateRequest{
		Properties: props,
		Children:   RenderBlocks(doc.Body),
	}
	if r.parentID != "" {
		req.Parent = notionapi.Parent{
			Type:   "page_id",
			PageID: r.parentID,
		}
	}
	if doc.MainImage != nil {
		req.Cover = externalImage(doc.MainImage.URL())
	}

	return &Page{ID: doc.ID, Type: doc.Type, Request: req}
}

// multiSelect names options by term title, falling back to the id suffix
func (r *Renderer) multiSelect(refs []models.Reference) notionapi.MultiSelectProperty {
	options := make([]notionapi.Option, 0, len(refs))
	for _, ref := range refs {
		name, ok := r.terms[ref.Ref]
		if !ok {
			name = strings.TrimPrefix(ref.Ref, ref.Type+"_")
		}
		// Notion rejects commas in option names
		options = append(options, notionapi.Option{Name: strings.ReplaceAll(name, ",", " ")})
	}
	return notionapi.MultiSelectProperty{
		Type:        notionapi.PropertyTypeMultiSelect,
		MultiSelect: options,
	}
}
