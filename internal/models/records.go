package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/takak2166/wordpress2sanity/internal/blocks"
)

// Record kinds. Post and page kinds come straight from wp:post_type.
const (
	KindAuthor     = "author"
	KindCategory   = "category"
	KindTag        = "tag"
	KindAttachment = "attachment"
	KindPost       = "post"
	KindPage       = "page"
)

const (
	// DraftPrefix marks a document id as not yet published
	DraftPrefix = "drafts."
	// ThumbnailMetaKey is the post-meta key holding a featured image attachment id
	ThumbnailMetaKey = "_thumbnail_id"
	// StatusDraft is the wp:status value of an unpublished item
	StatusDraft = "draft"
	// TaxonomyCategory and TaxonomyTag are the supported category domains
	TaxonomyCategory = "category"
	TaxonomyTag      = "post_tag"
)

// Record is anything that can be staged for import
type Record interface {
	RecordKind() string
	RecordID() string
}

// DocumentID namespaces a source id by its kind, e.g. post_42
func DocumentID(kind, sourceID string) string {
	return kind + "_" + sourceID
}

// Slug is the destination's slug object
type Slug struct {
	Type    string `json:"_type"`
	Current string `json:"current"`
}

// NewSlug wraps a slug string
func NewSlug(current string) Slug {
	return Slug{Type: "slug", Current: current}
}

// Reference points from one staged record to another by id
type Reference struct {
	Type string `json:"_type"`
	Ref  string `json:"_ref"`
}

// ArrayReference builds a reference for use as an array element.
// Its type is the referenced record's kind.
func ArrayReference(r Record) Reference {
	return Reference{Type: r.RecordKind(), Ref: r.RecordID()}
}

// SingleReference builds a singular reference field
func SingleReference(r Record) Reference {
	return Reference{Type: "reference", Ref: r.RecordID()}
}

// Image is an image field whose asset is fetched by the importer from a URL
type Image struct {
	Type  string `json:"_type"`
	Asset string `json:"_sanityAsset"`
}

// NewImage builds an image field from a source URL
func NewImage(url string) *Image {
	return &Image{Type: "image", Asset: blocks.AssetPrefix + url}
}

// URL returns the source URL of the image asset
func (i *Image) URL() string {
	return strings.TrimPrefix(i.Asset, blocks.AssetPrefix)
}

// Author is a staged author document
type Author struct {
	Type  string `json:"_type"`
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Slug  Slug   `json:"slug"`
	Email string `json:"email"`
}

func (a *Author) RecordKind() string { return a.Type }
func (a *Author) RecordID() string   { return a.ID }

// Term is a staged category or tag
type Term struct {
	Type  string `json:"_type"`
	ID    string `json:"_id"`
	Title string `json:"title"`
}

func (t *Term) RecordKind() string { return t.Type }
func (t *Term) RecordID() string   { return t.ID }

// AttachmentStub pairs a source attachment id with its URL.
// Stubs are only used to resolve featured images and are never staged.
type AttachmentStub struct {
	ID  string
	URL string
}

// Document is a staged post or page
type Document struct {
	ID          string         `json:"_id"`
	Type        string         `json:"_type"`
	Title       string         `json:"title"`
	Slug        Slug           `json:"slug"`
	Description string         `json:"description"`
	Body        []blocks.Block `json:"body"`
	PublishedAt *time.Time     `json:"publishedAt,omitempty"`
	MainImage   *Image         `json:"mainImage,omitempty"`
	Categories  []Reference    `json:"categories,omitempty"`
	Tags        []Reference    `json:"tags,omitempty"`
	Author      *Reference     `json:"author,omitempty"`

	// ThumbnailID is the unresolved featured image attachment id
	ThumbnailID string `json:"-"`
	Draft       bool   `json:"-"`
}

func (d *Document) RecordKind() string { return d.Type }
func (d *Document) RecordID() string   { return d.ID }

// MarshalJSON always writes categories and tags on posts, as empty arrays
// when the post has none. Other types never carry them.
func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	out := struct {
		plain
		Categories *[]Reference `json:"categories,omitempty"`
		Tags       *[]Reference `json:"tags,omitempty"`
	}{plain: plain(d)}

	if d.Type == KindPost {
		categories := nonNil(d.Categories)
		tags := nonNil(d.Tags)
		out.Categories = &categories
		out.Tags = &tags
	}
	return json.Marshal(out)
}

func nonNil(refs []Reference) []Reference {
	if refs == nil {
		return []Reference{}
	}
	return refs
}
