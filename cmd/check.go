package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmmoran/zodanno/pkg/action/check"
)

func init() {
	rootCmd.AddCommand(NewCheckCommand())
}

func NewCheckCommand() *cobra.Command {
	var tags *[]string
	var checkCmd = &cobra.Command{
		Use:   "check",
		Short: "verify generated schemas are current",
		Long:  "Render schemas in memory and fail when the files on disk differ",
		RunE: func(c *cobra.Command, args []string) error {
			options, err := loadOptions(c, *tags)
			if err != nil {
				return err
			}
			diff, err := check.Check(c.Context(), options)
			if errors.Is(err, check.ErrStale) {
				_, _ = fmt.Fprint(c.OutOrStdout(), diff)
			}
			return err
		},
	}
	tags = addGeneratorFlags(checkCmd)

	return checkCmd
}
