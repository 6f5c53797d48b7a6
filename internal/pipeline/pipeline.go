package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/takak2166/wordpress2sanity/internal/config"
	"github.com/takak2166/wordpress2sanity/internal/extract"
	"github.com/takak2166/wordpress2sanity/internal/logger"
	"github.com/takak2166/wordpress2sanity/internal/models"
	"github.com/takak2166/wordpress2sanity/internal/notion"
	"github.com/takak2166/wordpress2sanity/internal/parser"
	"github.com/takak2166/wordpress2sanity/internal/transform"
)

//go:generate mockgen -source=pipeline.go -destination=mock_pipeline/mock_pipeline.go -package=mock_pipeline
type Stager interface {
	Stage(kind, id string, record interface{}, overwrite bool) (bool, error)
}

// Options selects what gets imported and how documents are staged
type Options struct {
	PostTypes          []string
	UsePostLinkForSlug bool
	OutputFormat       string // config.FormatSanity or config.FormatNotion
	NotionParentPageID string
}

// Summary counts what a run produced
type Summary struct {
	Files        int
	FilesSkipped int
	Authors      int
	Categories   int
	Tags         int
	Attachments  int
	Documents    int
	ItemsSkipped int
}

// Runner processes export files one at a time, in order. It owns the
// run-scoped taxonomy set, so one Runner must be used per run.
type Runner struct {
	stager      Stager
	parser      *parser.Parser
	extractor   *extract.Extractor
	transformer *transform.Transformer
	renderer    *notion.Renderer
	summary     Summary
}

// New creates a Runner staging records through stager
func New(stager Stager, opts Options) *Runner {
	r := &Runner{
		stager:      stager,
		parser:      parser.New(),
		extractor:   extract.New(opts.PostTypes, extract.NewTermSet()),
		transformer: transform.New(transform.WithPostLinkSlugs(opts.UsePostLinkForSlug)),
	}
	if opts.OutputFormat == config.FormatNotion {
		r.renderer = notion.NewRenderer(opts.NotionParentPageID)
	}
	return r
}

// Run processes every file. A file that cannot be read or is not well formed
// XML is skipped; an export missing its channel or items aborts the run, as
// does any failure to stage a record.
func (r *Runner) Run(ctx context.Context, files []string) (Summary, error) {
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return r.summary, err
		}
		if err := r.ProcessFile(path); err != nil {
			return r.summary, err
		}
	}
	return r.summary, nil
}

// ProcessFile runs one export file through extraction, transformation,
// reference resolution and staging
func (r *Runner) ProcessFile(path string) error {
	logger.Info("Processing export file", logger.Fields{"file": path})

	ch, err := r.parser.ParseFile(path)
	if err != nil {
		if errors.Is(err, parser.ErrMissingChannel) || errors.Is(err, parser.ErrMissingItems) {
			return fmt.Errorf("%s: %w", path, err)
		}
		logger.Error("Failed to parse export file, skipping", err, logger.Fields{"file": path})
		r.summary.FilesSkipped++
		return nil
	}
	r.summary.Files++

	logger.Info("Site meta", logger.Fields{
		"title":       ch.Title,
		"link":        ch.Link,
		"description": ch.Description,
		"authors":     len(ch.Authors),
	})

	res := r.extractor.Extract(ch)
	r.summary.ItemsSkipped += res.Skipped
	r.summary.Attachments += len(res.Attachments)

	for _, author := range res.Authors {
		if err := r.stage(author, author); err != nil {
			return err
		}
	}
	r.summary.Authors += len(res.Authors)

	for _, terms := range [][]*models.Term{res.Categories, res.Tags} {
		for _, term := range terms {
			if err := r.stage(term, term); err != nil {
				return err
			}
		}
	}
	r.summary.Categories += len(res.Categories)
	r.summary.Tags += len(res.Tags)
	if r.renderer != nil {
		r.renderer.AddTerms(res.Categories...)
		r.renderer.AddTerms(res.Tags...)
	}

	docs := make([]*models.Document, 0, len(res.Entries))
	for _, entry := range res.Entries {
		doc, err := r.transformer.Transform(entry, ch.Link, res.Authors)
		if err != nil {
			logger.Error("Failed to transform item, skipping", err, logger.Fields{
				"file":    path,
				"post_id": entry.Item.PostID,
			})
			r.summary.ItemsSkipped++
			continue
		}
		docs = append(docs, doc)
	}

	transform.Resolve(docs, res.Attachments)

	for _, doc := range docs {
		var record interface{} = doc
		if r.renderer != nil {
			record = r.renderer.Render(doc)
		}
		if err := r.stage(doc, record); err != nil {
			return err
		}
	}
	r.summary.Documents += len(docs)

	logger.Info("Finished export file", logger.Fields{
		"file":      path,
		"documents": len(docs),
		"authors":   len(res.Authors),
	})
	return nil
}

// Summary returns the counts accumulated so far
func (r *Runner) Summary() Summary {
	return r.summary
}

func (r *Runner) stage(rec models.Record, payload interface{}) error {
	if _, err := r.stager.Stage(rec.RecordKind(), rec.RecordID(), payload, true); err != nil {
		return fmt.Errorf("failed to stage %s %s: %w", rec.RecordKind(), rec.RecordID(), err)
	}
	return nil
}
