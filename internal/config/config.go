package config

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Output formats
const (
	FormatSanity = "sanity"
	FormatNotion = "notion"
)

type Config struct {
	PostTypes          []string // content types to import, e.g. post, page
	UsePostLinkForSlug bool     // derive published slugs from the permalink
	ExportsDir         string   // directory scanned for *.xml exports
	ImportsDir         string   // staging directory and aggregate output
	OutputFormat       string
	NotionParentPageID string
	Clean              bool // remove previously staged records before the run
	LogLevel           string
	LogFormat          string
}

// flagKeys maps command line flags to config keys
var flagKeys = map[string]string{
	"post-types":             "post_types",
	"use-post-link-for-slug": "use_post_link_for_slug",
	"exports-dir":            "exports_dir",
	"imports-dir":            "imports_dir",
	"output-format":          "output_format",
	"notion-parent-page-id":  "notion_parent_page_id",
	"clean":                  "clean",
	"log-level":              "log_level",
	"log-format":             "log_format",
}

// Load reads configuration from defaults, an optional config file, the
// environment and finally any flags set on the command line. With an empty
// configFile a config.{json,yaml,toml} in the working directory is used if present.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("post_types", []string{"post", "page"})
	v.SetDefault("use_post_link_for_slug", false)
	v.SetDefault("exports_dir", "./exports")
	v.SetDefault("imports_dir", "./imports")
	v.SetDefault("output_format", FormatSanity)
	v.SetDefault("notion_parent_page_id", "")
	v.SetDefault("clean", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	return &Config{
		PostTypes:          splitList(v.GetStringSlice("post_types")),
		UsePostLinkForSlug: v.GetBool("use_post_link_for_slug"),
		ExportsDir:         v.GetString("exports_dir"),
		ImportsDir:         v.GetString("imports_dir"),
		OutputFormat:       strings.ToLower(v.GetString("output_format")),
		NotionParentPageID: v.GetString("notion_parent_page_id"),
		Clean:              v.GetBool("clean"),
		LogLevel:           v.GetString("log_level"),
		LogFormat:          v.GetString("log_format"),
	}, nil
}

// Validate checks the settings a run cannot start without
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.PostTypes, validation.Required, validation.Each(validation.Required)),
		validation.Field(&c.ExportsDir, validation.Required),
		validation.Field(&c.ImportsDir, validation.Required),
		validation.Field(&c.OutputFormat, validation.Required, validation.In(FormatSanity, FormatNotion)),
	)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// splitList accepts both list values and comma separated strings, as
// POST_TYPES=post,page arrives from the environment as one string
func splitList(values []string) []string {
	out := []string{}
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
