// Package internal holds the application-level configuration.
package internal

import (
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/validate"
)

// Known check names for the validation.disable list. Document acyclicity
// cannot be disabled.
var checkNames = []any{
	"item-cycles",
	"link-validity",
	"link-conformance",
	"suspect",
	"review",
	"empty-text",
	"child-linkage",
	"unlinked",
	"empty-documents",
}

// Config represents the application configuration, loaded from raido.yml.
type Config struct {
	App        ApplicationConfig `yaml:"app"`
	Project    ProjectConfig     `yaml:"project"`
	Validation ValidationConfig  `yaml:"validation"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Project.Validate(); err != nil {
		return err
	}
	return c.Validation.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// ProjectConfig holds the path to the requirements tree root.
type ProjectConfig struct {
	Root string `yaml:"root"`
}

// Validate validates the project configuration.
func (c *ProjectConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
	)
}

// ValidationConfig selects which checks run and how findings escalate.
//
// Disable lists check names switched off for this project; the document
// acyclicity check always runs. ChildLinkageLevel raises or lowers the
// severity of the child-linkage completeness check.
type ValidationConfig struct {
	Disable           []string `yaml:"disable"`
	ChildLinkageLevel string   `yaml:"child_linkage_level"`
	WarnAll           bool     `yaml:"warn_all"`
	ErrorAll          bool     `yaml:"error_all"`
	Skip              []string `yaml:"skip"`
}

// Validate validates the validation configuration.
func (c *ValidationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Disable, validation.Each(validation.In(checkNames...))),
		validation.Field(&c.ChildLinkageLevel, validation.In("", "info", "warning", "error")),
	)
}

// Options translates the configuration into validation options.
func (c *ValidationConfig) Options() []validate.Option {
	var opts []validate.Option
	for _, name := range c.Disable {
		switch name {
		case "item-cycles":
			opts = append(opts, validate.WithoutItemCycles())
		case "link-validity":
			opts = append(opts, validate.WithoutLinkValidity())
		case "link-conformance":
			opts = append(opts, validate.WithoutLinkConformance())
		case "suspect":
			opts = append(opts, validate.WithoutSuspect())
		case "review":
			opts = append(opts, validate.WithoutReview())
		case "empty-text":
			opts = append(opts, validate.WithoutEmptyText())
		case "child-linkage":
			opts = append(opts, validate.WithoutChildLinkage())
		case "unlinked":
			opts = append(opts, validate.WithoutUnlinked())
		case "empty-documents":
			opts = append(opts, validate.WithoutEmptyDocuments())
		}
	}
	if c.ChildLinkageLevel != "" {
		opts = append(opts, validate.WithChildLinkageLevel(models.Level(c.ChildLinkageLevel)))
	}
	if c.WarnAll {
		opts = append(opts, validate.WarnAll())
	}
	if c.ErrorAll {
		opts = append(opts, validate.ErrorAll())
	}
	if len(c.Skip) > 0 {
		opts = append(opts, validate.SkipPrefixes(c.Skip...))
	}
	return opts
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Project: ProjectConfig{
			Root: ".",
		},
	}
}
