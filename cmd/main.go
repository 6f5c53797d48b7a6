package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/takak2166/wordpress2sanity/internal/aggregate"
	"github.com/takak2166/wordpress2sanity/internal/config"
	"github.com/takak2166/wordpress2sanity/internal/logger"
	"github.com/takak2166/wordpress2sanity/internal/pipeline"
	"github.com/takak2166/wordpress2sanity/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configFile string
		cfg        *config.Config
	)

	rootCmd := &cobra.Command{
		Use:   "wordpress2sanity",
		Short: "Convert WordPress exports into an NDJSON import file",
		Long: `Reads every WordPress export (*.xml) in the exports directory, stages
authors, categories, tags, posts and pages as JSON documents in the imports
directory and aggregates them into one sanity-import-<date>.ndjson file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file, it is optional
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to load .env file: %w", err)
			}

			var err error
			cfg, err = config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return logger.Init(cfg.LogLevel, cfg.LogFormat)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default ./config.{json,yaml,toml} if present)")
	flags.StringSlice("post-types", nil, "Content types to import (default post,page)")
	flags.Bool("use-post-link-for-slug", false, "Derive published slugs from the post permalink")
	flags.String("exports-dir", "", "Directory holding WordPress export files (default ./exports)")
	flags.String("imports-dir", "", "Directory for staged documents and the import file (default ./imports)")
	flags.String("output-format", "", "Staged document format: sanity or notion (default sanity)")
	flags.String("notion-parent-page-id", "", "Parent page id for notion output")
	flags.Bool("clean", false, "Remove previously staged documents before converting")
	flags.String("log-level", "", "Log level: debug, info, warn, error (default info)")
	flags.String("log-format", "", "Log format: text or json (default text)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "aggregate",
		Short: "Write the import file from already staged documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			count, err := aggregate.ToFile(cfg.ImportsDir, importFilePath(cfg, start))
			if err != nil {
				return err
			}
			logger.Info("Aggregation completed", logger.Fields{
				"documents": count,
				"seconds":   time.Since(start).Seconds(),
			})
			return nil
		},
	})

	return rootCmd
}

func run(ctx context.Context, cfg *config.Config) error {
	start := time.Now()

	logger.Info("Importing content types", logger.Fields{
		"post_types":    strings.Join(cfg.PostTypes, ", "),
		"output_format": cfg.OutputFormat,
	})

	files, err := filepath.Glob(filepath.Join(cfg.ExportsDir, "*.xml"))
	if err != nil {
		return fmt.Errorf("failed to list export files: %w", err)
	}
	if len(files) == 0 {
		logger.Warn("No export files found", logger.Fields{"exports_dir": cfg.ExportsDir})
	}

	st := store.New(cfg.ImportsDir)
	if cfg.Clean {
		if err := st.Reset(); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(cfg.ImportsDir, 0755); err != nil {
		return fmt.Errorf("failed to create imports directory: %w", err)
	}

	runner := pipeline.New(st, pipeline.Options{
		PostTypes:          cfg.PostTypes,
		UsePostLinkForSlug: cfg.UsePostLinkForSlug,
		OutputFormat:       cfg.OutputFormat,
		NotionParentPageID: cfg.NotionParentPageID,
	})
	summary, err := runner.Run(ctx, files)
	if err != nil {
		return err
	}

	logger.Info("Starting recursive import file write", logger.Fields{"imports_dir": cfg.ImportsDir})
	count, err := aggregate.ToFile(cfg.ImportsDir, importFilePath(cfg, start))
	if err != nil {
		return err
	}

	logger.Info("Migration completed", logger.Fields{
		"files":         summary.Files,
		"files_skipped": summary.FilesSkipped,
		"authors":       summary.Authors,
		"categories":    summary.Categories,
		"tags":          summary.Tags,
		"attachments":   summary.Attachments,
		"documents":     summary.Documents,
		"items_skipped": summary.ItemsSkipped,
		"aggregated":    count,
		"seconds":       time.Since(start).Seconds(),
	})
	return nil
}

func importFilePath(cfg *config.Config, start time.Time) string {
	return filepath.Join(cfg.ImportsDir, aggregate.FileName(start))
}
