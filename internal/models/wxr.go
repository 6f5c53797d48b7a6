package models

import "encoding/xml"

// RSS represents the root of a WordPress export file
type RSS struct {
	XMLName xml.Name `xml:"rss"`
	Channel *Channel `xml:"channel"`
}

// Channel holds the site metadata and every exported item.
// Repeated elements decode into slices, so a single author or item
// is always seen as a one-element list.
type Channel struct {
	Title       string     `xml:"title"`
	Link        string     `xml:"link"`
	Description string     `xml:"description"`
	Authors     []WPAuthor `xml:"author"`
	Items       []Item     `xml:"item"`
}

// WPAuthor is a wp:author entry
type WPAuthor struct {
	ID          string `xml:"author_id"`
	Login       string `xml:"author_login"`
	Email       string `xml:"author_email"`
	DisplayName string `xml:"author_display_name"`
}

// Item is a single exported post, page, attachment or custom type
type Item struct {
	Title         string     `xml:"title"`
	Link          string     `xml:"link"`
	PubDate       string     `xml:"pubDate"`
	Creator       string     `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Description   string     `xml:"description"`
	Content       string     `xml:"http://purl.org/rss/1.0/modules/content/ encoded"`
	PostID        string     `xml:"post_id"`
	PostDate      string     `xml:"post_date"`
	PostDateGMT   string     `xml:"post_date_gmt"`
	Status        string     `xml:"status"`
	PostType      string     `xml:"post_type"`
	AttachmentURL string     `xml:"attachment_url"`
	Categories    []Taxonomy `xml:"category"`
	PostMeta      []PostMeta `xml:"postmeta"`
}

// Taxonomy is a category element attached to an item
type Taxonomy struct {
	Domain   string `xml:"domain,attr"`
	NiceName string `xml:"nicename,attr"`
	Name     string `xml:",chardata"`
}

// PostMeta is a wp:postmeta key/value pair
type PostMeta struct {
	Key   string `xml:"meta_key"`
	Value string `xml:"meta_value"`
}

// Meta returns the value of the first post-meta entry with the given key
func (i *Item) Meta(key string) (string, bool) {
	for _, m := range i.PostMeta {
		if m.Key == key {
			return m.Value, true
		}
	}
	return "", false
}
