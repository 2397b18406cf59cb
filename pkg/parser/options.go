package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	gosrc "github.com/cmmoran/zodanno/internal/parser"
	"github.com/cmmoran/zodanno/pkg/annotation"
)

// TagFilter excludes a Go struct field when its tag Key contains Value.
type TagFilter = gosrc.TagFilter

// Options control loading, annotation processing and rendering.
//
// Input             – model document (.yaml, .yml, .json) or Go package directory
// OutDir            – output directory
// OutFile           – TypeScript module written into OutDir
// Suffix            – appended to model and enum names (default "Schema")
// Dialect           – auto, legacy (zod v3) or modern (zod v4)
// Prefix            – annotation prefix (default "@zod")
// UnknownMethods    – passthrough (default) or reject
// PluralExports     – also export `z.array(...)` schemas under plural names
// TypeExports       – also export `z.infer` types
// GoPackage         – when set, write a Go manifest of the schemas into OutDir
// GoFile            – file name of the Go manifest
// Workers           – concurrent field workers, 0 uses GOMAXPROCS
// FlattenEmbedded   – lift embedded Go struct fields into the parent
// ExcludeDeprecated – skip Go structs and fields marked deprecated
// ExcludeTypes      – names of models to skip (case-insensitive)
// ExcludeByTags     – filters to skip Go struct fields
type Options struct {
	Input             string      `json:"input,omitempty" yaml:"input,omitempty" toml:"input,omitempty" mapstructure:"input,omitempty"`
	OutDir            string      `json:"out_dir,omitempty" yaml:"out_dir,omitempty" toml:"out_dir,omitempty" mapstructure:"out_dir,omitempty"`
	OutFile           string      `json:"out_file,omitempty" yaml:"out_file,omitempty" toml:"out_file,omitempty" mapstructure:"out_file,omitempty"`
	Suffix            string      `json:"suffix,omitempty" yaml:"suffix,omitempty" toml:"suffix,omitempty" mapstructure:"suffix,omitempty"`
	Dialect           string      `json:"dialect,omitempty" yaml:"dialect,omitempty" toml:"dialect,omitempty" mapstructure:"dialect,omitempty"`
	Prefix            string      `json:"prefix,omitempty" yaml:"prefix,omitempty" toml:"prefix,omitempty" mapstructure:"prefix,omitempty"`
	UnknownMethods    string      `json:"unknown_methods,omitempty" yaml:"unknown_methods,omitempty" toml:"unknown_methods,omitempty" mapstructure:"unknown_methods,omitempty"`
	PluralExports     bool        `json:"plural_exports,omitempty" yaml:"plural_exports,omitempty" toml:"plural_exports,omitempty" mapstructure:"plural_exports,omitempty"`
	TypeExports       bool        `json:"type_exports,omitempty" yaml:"type_exports,omitempty" toml:"type_exports,omitempty" mapstructure:"type_exports,omitempty"`
	GoPackage         string      `json:"go_package,omitempty" yaml:"go_package,omitempty" toml:"go_package,omitempty" mapstructure:"go_package,omitempty"`
	GoFile            string      `json:"go_file,omitempty" yaml:"go_file,omitempty" toml:"go_file,omitempty" mapstructure:"go_file,omitempty"`
	Workers           int         `json:"workers,omitempty" yaml:"workers,omitempty" toml:"workers,omitempty" mapstructure:"workers,omitempty"`
	FlattenEmbedded   bool        `json:"flatten_embedded,omitempty" yaml:"flatten_embedded,omitempty" toml:"flatten_embedded,omitempty" mapstructure:"flatten_embedded,omitempty"`
	ExcludeDeprecated bool        `json:"exclude_deprecated,omitempty" yaml:"exclude_deprecated,omitempty" toml:"exclude_deprecated,omitempty" mapstructure:"exclude_deprecated,omitempty"`
	ExcludeTypes      []string    `json:"exclude_types,omitempty" yaml:"exclude_types,omitempty" toml:"exclude_types,omitempty" mapstructure:"exclude_types,omitempty"`
	ExcludeByTags     []TagFilter `json:"exclude_by_tags,omitempty" yaml:"exclude_by_tags,omitempty" toml:"exclude_by_tags,omitempty" mapstructure:"exclude_by_tags,omitempty"`
}

func NewOptions() *Options {
	return &Options{
		Input:           ".",
		OutDir:          "schemas",
		OutFile:         "schemas.ts",
		Dialect:         string(annotation.DialectAuto),
		Prefix:          annotation.DefaultPrefix,
		UnknownMethods:  "passthrough",
		GoFile:          "schemas_gen.go",
		FlattenEmbedded: true,
	}
}

// Normalize fills defaults, parses "key:value" tag filters and checks the
// enumerated settings.
func (o *Options) Normalize(excludeByTagsStrings ...string) error {
	for _, s := range excludeByTagsStrings {
		f, ok := gosrc.ParseTagFilter(s)
		if !ok {
			return fmt.Errorf("invalid tag filter %q (want key:value)", s)
		}
		o.ExcludeByTags = append(o.ExcludeByTags, f)
	}
	if o.Input == "" {
		o.Input = "."
	}
	if o.OutDir == "" {
		o.OutDir = "schemas"
	}
	if o.OutFile == "" {
		o.OutFile = "schemas.ts"
	}
	if o.GoFile == "" {
		o.GoFile = "schemas_gen.go"
	}
	if o.Prefix == "" {
		o.Prefix = annotation.DefaultPrefix
	}
	for i, n := range o.ExcludeTypes {
		o.ExcludeTypes[i] = strings.TrimSpace(n)
	}

	d, err := annotation.ParseDialect(o.Dialect)
	if err != nil {
		return err
	}
	o.Dialect = string(d)
	if _, err := annotation.ParseUnknownPolicy(o.UnknownMethods); err != nil {
		return err
	}
	if o.UnknownMethods == "" {
		o.UnknownMethods = "passthrough"
	}
	return nil
}

// OutputPath is the TypeScript module path.
func (o *Options) OutputPath() string { return filepath.Clean(filepath.Join(o.OutDir, o.OutFile)) }

// GoOutputPath is the Go manifest path, empty when no manifest is requested.
func (o *Options) GoOutputPath() string {
	if o.GoPackage == "" {
		return ""
	}
	return filepath.Clean(filepath.Join(o.OutDir, o.GoFile))
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithInput(p string) Option   { return func(o *Options) { o.Input = p } }
func WithOutDir(d string) Option  { return func(o *Options) { o.OutDir = d } }
func WithOutFile(f string) Option { return func(o *Options) { o.OutFile = f } }
func WithSuffix(s string) Option  { return func(o *Options) { o.Suffix = s } }
func WithDialect(d annotation.Dialect) Option {
	return func(o *Options) { o.Dialect = string(d) }
}
func WithPrefix(p string) Option         { return func(o *Options) { o.Prefix = p } }
func WithUnknownMethods(s string) Option { return func(o *Options) { o.UnknownMethods = s } }
func WithPluralExports() Option          { return func(o *Options) { o.PluralExports = true } }
func WithTypeExports() Option            { return func(o *Options) { o.TypeExports = true } }
func WithGoPackage(pkg string) Option    { return func(o *Options) { o.GoPackage = pkg } }
func WithWorkers(n int) Option           { return func(o *Options) { o.Workers = n } }
func WithFlattenEmbedded(b bool) Option  { return func(o *Options) { o.FlattenEmbedded = b } }
func WithExcludeDeprecated() Option      { return func(o *Options) { o.ExcludeDeprecated = true } }
func WithExcludeTypes(names ...string) Option {
	return func(o *Options) {
		for _, n := range names {
			o.ExcludeTypes = append(o.ExcludeTypes, strings.TrimSpace(n))
		}
	}
}
func WithExcludeByTag(key, val string) Option {
	return func(o *Options) { o.ExcludeByTags = append(o.ExcludeByTags, TagFilter{Key: key, Value: val}) }
}
