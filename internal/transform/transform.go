package transform

import (
	"fmt"
	"strings"

	"github.com/takak2166/wordpress2sanity/internal/blocks"
	"github.com/takak2166/wordpress2sanity/internal/extract"
	"github.com/takak2166/wordpress2sanity/internal/logger"
	"github.com/takak2166/wordpress2sanity/internal/models"
)

// BodyStructurer converts an item's encoded content into blocks
type BodyStructurer interface {
	Structure(body string) ([]blocks.Block, error)
}

// Transformer turns extracted entries into Documents
type Transformer struct {
	usePostLinkForSlug bool
	structurer         BodyStructurer
	parseDate          DateParser
}

// Option configures a Transformer
type Option func(*Transformer)

// WithPostLinkSlugs derives published slugs from the item permalink
func WithPostLinkSlugs(enabled bool) Option {
	return func(t *Transformer) {
		t.usePostLinkForSlug = enabled
	}
}

// WithStructurer replaces the default body structurer
func WithStructurer(s BodyStructurer) Option {
	return func(t *Transformer) {
		t.structurer = s
	}
}

// WithDateParser replaces ParseDate
func WithDateParser(p DateParser) Option {
	return func(t *Transformer) {
		t.parseDate = p
	}
}

// New creates a Transformer
func New(opts ...Option) *Transformer {
	t := &Transformer{
		structurer: blocks.New(),
		parseDate:  ParseDate,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform builds the Document for one entry. siteLink is the channel link
// and authors the authors extracted from the same export file.
func (t *Transformer) Transform(entry extract.Entry, siteLink string, authors []*models.Author) (*models.Document, error) {
	item := entry.Item
	draft := item.Status == models.StatusDraft

	id := models.DocumentID(item.PostType, item.PostID)
	if draft {
		id = models.DraftPrefix + id
	}

	body, err := t.structurer.Structure(item.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to structure body of %s: %w", id, err)
	}

	doc := &models.Document{
		ID:          id,
		Type:        item.PostType,
		Title:       item.Title,
		Slug:        models.NewSlug(t.slug(item, siteLink, draft)),
		Description: item.Description,
		Body:        body,
		Draft:       draft,
	}

	if item.PostType == models.KindPost {
		doc.Categories = entry.Categories
		doc.Tags = entry.Tags
		if author := findAuthor(authors, item.Creator); author != nil {
			ref := models.SingleReference(author)
			doc.Author = &ref
		} else {
			logger.Warn("No author found for post", logger.Fields{
				"id":      id,
				"creator": item.Creator,
			})
		}
	}

	if published, ok := t.parseDate(item); ok && !draft {
		doc.PublishedAt = &published
	}

	if thumbnail, ok := item.Meta(models.ThumbnailMetaKey); ok && thumbnail != "" {
		doc.ThumbnailID = thumbnail
	}

	return doc, nil
}

func (t *Transformer) slug(item *models.Item, siteLink string, draft bool) string {
	if t.usePostLinkForSlug && !draft {
		if s := LinkSlug(item.Link, siteLink); s != "" {
			return s
		}
	}
	return TitleSlug(item.Title)
}

// TitleSlug lowercases the title and keeps only URL safe characters
func TitleSlug(title string) string {
	return models.Slugify(title)
}

// LinkSlug strips the site link and every path separator from a permalink.
// It returns "" when the link is not under the site.
func LinkSlug(link, siteLink string) string {
	site := strings.TrimRight(siteLink, "/")
	if site == "" || !strings.HasPrefix(link, site) {
		return ""
	}
	return strings.ReplaceAll(strings.TrimPrefix(link, site), "/", "")
}

func findAuthor(authors []*models.Author, creator string) *models.Author {
	if creator == "" {
		return nil
	}
	want := models.Slugify(creator)
	for _, a := range authors {
		if a.Slug.Current == want {
			return a
		}
	}
	return nil
}
