package transform

import (
	"strings"
	"time"

	"github.com/takak2166/wordpress2sanity/internal/models"
)

const (
	wpDateLayout = "2006-01-02 15:04:05"
	wpZeroDate   = "0000-00-00 00:00:00"
)

// pubDateLayouts are tried in order against the RSS pubDate field
var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
}

// DateParser returns the publish time of an item, or false when it has none
type DateParser func(item *models.Item) (time.Time, bool)

// ParseDate prefers wp:post_date_gmt and falls back to pubDate.
// Unpublished items carry a zero GMT date, which is treated as absent.
func ParseDate(item *models.Item) (time.Time, bool) {
	if gmt := strings.TrimSpace(item.PostDateGMT); gmt != "" && gmt != wpZeroDate {
		if t, err := time.ParseInLocation(wpDateLayout, gmt, time.UTC); err == nil {
			return t, true
		}
	}

	pub := strings.TrimSpace(item.PubDate)
	if pub == "" {
		return time.Time{}, false
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, pub); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
