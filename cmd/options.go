package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmmoran/zodanno/pkg/parser"
)

// generatorFlags maps command flags onto keys under "generator" in the
// config file.
var generatorFlags = map[string]string{
	"input":              "input",
	"output-directory":   "out_dir",
	"output-file":        "out_file",
	"suffix":             "suffix",
	"dialect":            "dialect",
	"prefix":             "prefix",
	"unknown-methods":    "unknown_methods",
	"plural-exports":     "plural_exports",
	"type-exports":       "type_exports",
	"go-package":         "go_package",
	"go-file":            "go_file",
	"workers":            "workers",
	"flatten-embedded":   "flatten_embedded",
	"exclude-deprecated": "exclude_deprecated",
	"exclude-types":      "exclude_types",
}

type generatorConfig struct {
	Generator parser.Options `mapstructure:"generator"`
}

// addGeneratorFlags registers the flags shared by every command that runs
// the generator. Tag filters are returned separately since they are parsed
// from "key:value" strings.
func addGeneratorFlags(c *cobra.Command) *[]string {
	d := parser.NewOptions()
	fs := c.Flags()
	fs.StringP("input", "i", d.Input, "model document (.yaml, .yml, .json) or Go package directory")
	fs.StringP("output-directory", "o", d.OutDir, "directory to write schemas")
	fs.StringP("output-file", "f", d.OutFile, "TypeScript module written into the output directory")
	fs.StringP("suffix", "s", d.Suffix, "suffix appended to model and enum schema names (default Schema)")
	fs.String("dialect", d.Dialect, "zod dialect: auto, legacy (v3) or modern (v4)")
	fs.String("prefix", d.Prefix, "annotation prefix")
	fs.String("unknown-methods", d.UnknownMethods, "unknown annotation methods: passthrough or reject")
	fs.Bool("plural-exports", d.PluralExports, "also export array schemas under plural names")
	fs.Bool("type-exports", d.TypeExports, "also export z.infer types")
	fs.String("go-package", d.GoPackage, "write a Go manifest of the schemas in this package")
	fs.String("go-file", d.GoFile, "file name of the Go manifest")
	fs.Int("workers", d.Workers, "concurrent field workers (0 uses all CPUs)")
	fs.BoolP("flatten-embedded", "F", d.FlattenEmbedded, "flatten embedded Go struct fields into parent")
	fs.BoolP("exclude-deprecated", "d", d.ExcludeDeprecated, "exclude deprecated Go structs and fields")
	fs.StringSliceP("exclude-types", "t", []string{}, "exclude named models")
	tags := make([]string, 0)
	fs.StringSliceVarP(&tags, "exclude-tags", "T", []string{}, "exclude Go struct fields with matching tags, ex: gorm:\"-\"")
	return &tags
}

// loadOptions merges config file values and flags, flags winning when set.
func loadOptions(c *cobra.Command, tags []string) (*parser.Options, error) {
	for flag, key := range generatorFlags {
		if err := viper.BindPFlag("generator."+key, c.Flags().Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	cfg := generatorConfig{Generator: *parser.NewOptions()}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal generator config: %w", err)
	}
	o := &cfg.Generator
	if err := o.Normalize(tags...); err != nil {
		return nil, err
	}
	return o, nil
}
