package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cmmoran/zodanno/pkg/action/generate"
	"github.com/cmmoran/zodanno/pkg/schema"
)

func init() {
	var generateCmd = NewGenerateCommand()
	rootCmd.AddCommand(generateCmd)
}

func NewGenerateCommand() *cobra.Command {
	var (
		strict bool
		tags   *[]string
	)

	// generateCmd represents the zodanno generate command
	var generateCmd = &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "generate zod schemas",
		Long:    "Generate a zod schema module from annotated models",
		RunE: func(c *cobra.Command, args []string) error {
			options, err := loadOptions(c, *tags)
			if err != nil {
				return err
			}
			out, err := generate.Generate(c.Context(), options)
			if err != nil {
				return err
			}
			n := report(out.Result)
			slog.With("file", out.Path, "go_file", out.GoPath).Info("wrote schemas")
			if strict && n > 0 {
				return fmt.Errorf("%d annotation errors", n)
			}
			return nil
		},
	}
	tags = addGeneratorFlags(generateCmd)
	generateCmd.Flags().BoolVar(&strict, "strict", false, "fail when any annotation is invalid")

	return generateCmd
}

// report logs every annotation problem and returns the error count.
func report(res *schema.Result) int {
	errs := res.Errors()
	for _, err := range errs {
		slog.With("error", err).Warn("invalid annotation")
	}
	for _, w := range res.Warnings() {
		slog.With("warning", w).Warn("annotation degraded")
	}
	return len(errs)
}
