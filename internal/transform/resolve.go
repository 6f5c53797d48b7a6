package transform

import (
	"github.com/takak2166/wordpress2sanity/internal/logger"
	"github.com/takak2166/wordpress2sanity/internal/models"
)

// Resolve replaces each document's thumbnail id with the image of the
// matching attachment stub. Stubs must come from the same export file.
// A thumbnail without a stub is dropped.
func Resolve(docs []*models.Document, stubs []models.AttachmentStub) int {
	urls := make(map[string]string, len(stubs))
	for _, stub := range stubs {
		urls[stub.ID] = stub.URL
	}

	resolved := 0
	for _, doc := range docs {
		if doc.ThumbnailID == "" {
			continue
		}
		url, ok := urls[doc.ThumbnailID]
		if !ok {
			logger.Warn("Featured image attachment not found", logger.Fields{
				"id":            doc.ID,
				"attachment_id": doc.ThumbnailID,
			})
			doc.MainImage = nil
			doc.ThumbnailID = ""
			continue
		}
		doc.MainImage = models.NewImage(url)
		doc.ThumbnailID = ""
		resolved++
	}
	return resolved
}
