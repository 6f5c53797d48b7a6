package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/takak2166/wordpress2sanity/internal/logger"
	"github.com/takak2166/wordpress2sanity/internal/models"
)

var (
	// ErrMissingChannel is returned when the export has no rss channel
	ErrMissingChannel = errors.New("export has no channel")
	// ErrMissingItems is returned when the channel declares no items
	ErrMissingItems = errors.New("export channel has no items")
)

// Parser reads WordPress eXtended RSS export files
type Parser struct {
	channel *models.Channel
}

// New creates a new Parser instance
func New() *Parser {
	return &Parser{}
}

// ParseFile reads and parses a WordPress export file
func (p *Parser) ParseFile(filepath string) (*models.Channel, error) {
	logger.Debug("Reading WordPress export file", logger.Fields{
		"filepath": filepath,
	})

	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer f.Close()

	return p.Parse(f)
}

// Parse decodes an export from r and checks it has the structure the
// pipeline relies on: a channel holding at least one item.
func (p *Parser) Parse(r io.Reader) (*models.Channel, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = xml.HTMLEntity

	var export models.RSS
	if err := dec.Decode(&export); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	if export.Channel == nil {
		return nil, ErrMissingChannel
	}
	if len(export.Channel.Items) == 0 {
		return nil, ErrMissingItems
	}

	normalize(export.Channel)
	p.channel = export.Channel

	logger.Info("Successfully parsed WordPress export file", logger.Fields{
		"items_count":   len(export.Channel.Items),
		"authors_count": len(export.Channel.Authors),
	})

	return p.channel, nil
}

// GetChannel returns the channel of the last parsed export
func (p *Parser) GetChannel() *models.Channel {
	return p.channel
}

// normalize trims the identifier-like fields that are compared verbatim later
func normalize(ch *models.Channel) {
	ch.Link = strings.TrimSpace(ch.Link)
	for i := range ch.Authors {
		a := &ch.Authors[i]
		a.ID = strings.TrimSpace(a.ID)
		a.Login = strings.TrimSpace(a.Login)
	}
	for i := range ch.Items {
		item := &ch.Items[i]
		item.Link = strings.TrimSpace(item.Link)
		item.PostID = strings.TrimSpace(item.PostID)
		item.PostType = strings.TrimSpace(item.PostType)
		item.Status = strings.TrimSpace(item.Status)
		item.Creator = strings.TrimSpace(item.Creator)
		item.AttachmentURL = strings.TrimSpace(item.AttachmentURL)
		for j := range item.PostMeta {
			item.PostMeta[j].Key = strings.TrimSpace(item.PostMeta[j].Key)
			item.PostMeta[j].Value = strings.TrimSpace(item.PostMeta[j].Value)
		}
	}
}
