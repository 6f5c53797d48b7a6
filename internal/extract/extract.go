package extract

import (
	"slices"

	"github.com/takak2166/wordpress2sanity/internal/logger"
	"github.com/takak2166/wordpress2sanity/internal/models"
)

// Entry is an item to transform along with the taxonomy references built for it
type Entry struct {
	Item       *models.Item
	Categories []models.Reference
	Tags       []models.Reference
}

// Result is everything extracted from one export file
type Result struct {
	Authors []*models.Author
	// Categories and Tags hold only the terms first seen in this file
	Categories  []*models.Term
	Tags        []*models.Term
	Attachments []models.AttachmentStub
	Entries     []Entry
	Skipped     int
}

// Extractor derives authors, taxonomy terms, attachment stubs and the items
// to transform from a parsed export
type Extractor struct {
	postTypes []string
	terms     *TermSet
}

// New creates an Extractor importing the given content types and recording
// taxonomy terms in terms
func New(postTypes []string, terms *TermSet) *Extractor {
	return &Extractor{postTypes: postTypes, terms: terms}
}

// NewAuthor builds the author document for a wp:author entry
func NewAuthor(a models.WPAuthor) *models.Author {
	return &models.Author{
		Type:  models.KindAuthor,
		ID:    models.DocumentID(models.KindAuthor, a.ID),
		Name:  a.DisplayName,
		Slug:  models.NewSlug(models.Slugify(a.Login)),
		Email: a.Email,
	}
}

// Extract walks the channel once, in source order
func (e *Extractor) Extract(ch *models.Channel) *Result {
	res := &Result{}

	seen := make(map[string]bool)
	for _, a := range ch.Authors {
		author := NewAuthor(a)
		if seen[author.ID] {
			continue
		}
		seen[author.ID] = true
		res.Authors = append(res.Authors, author)
	}

	for i := range ch.Items {
		item := &ch.Items[i]

		if item.PostType == models.KindAttachment {
			if item.AttachmentURL == "" {
				logger.Debug("Attachment has no url, skipping", logger.Fields{"post_id": item.PostID})
				continue
			}
			res.Attachments = append(res.Attachments, models.AttachmentStub{
				ID:  item.PostID,
				URL: item.AttachmentURL,
			})
			continue
		}

		if !slices.Contains(e.postTypes, item.PostType) {
			logger.Debug("Item type is not imported, skipping", logger.Fields{
				"post_id":   item.PostID,
				"post_type": item.PostType,
			})
			res.Skipped++
			continue
		}

		res.Entries = append(res.Entries, e.entry(item, res))
	}

	return res
}

func (e *Extractor) entry(item *models.Item, res *Result) Entry {
	entry := Entry{
		Item:       item,
		Categories: []models.Reference{},
		Tags:       []models.Reference{},
	}

	for _, tax := range item.Categories {
		var kind string
		switch tax.Domain {
		case models.TaxonomyCategory:
			kind = models.KindCategory
		case models.TaxonomyTag:
			kind = models.KindTag
		default:
			continue
		}

		term := &models.Term{
			Type:  kind,
			ID:    models.DocumentID(kind, tax.NiceName),
			Title: tax.Name,
		}
		ref := models.ArrayReference(term)

		if kind == models.KindCategory {
			entry.Categories = append(entry.Categories, ref)
		} else {
			entry.Tags = append(entry.Tags, ref)
		}

		if !e.terms.Add(term) {
			logger.Debug("Term is already parsed", logger.Fields{
				"type":  kind,
				"title": term.Title,
			})
			continue
		}
		if kind == models.KindCategory {
			res.Categories = append(res.Categories, term)
		} else {
			res.Tags = append(res.Tags, term)
		}
	}

	return entry
}
