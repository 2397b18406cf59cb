package cmd

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cmmoran/zodanno/pkg/action/snapshot"
)

const defaultManifest = "zod/manifest.yaml"

func init() {
	rootCmd.AddCommand(NewSnapshotCommand())
}

func NewSnapshotCommand() *cobra.Command {
	var manifestPath, name, version string

	var tags *[]string
	var snapshotCmd = &cobra.Command{
		Use:   "snapshot",
		Short: "record a versioned schema snapshot",
		Long:  "Generate schemas, keep a versioned copy and record it in the snapshot manifest",
		RunE: func(c *cobra.Command, args []string) error {
			if version == "" {
				return fmt.Errorf("--version is required")
			}
			options, err := loadOptions(c, *tags)
			if err != nil {
				return err
			}
			file, err := snapshot.Generate(c.Context(), options, manifestPath, name, version)
			if err != nil {
				return err
			}
			slog.With("file", file, "version", version, "manifest", manifestPath).Info("recorded snapshot")
			return nil
		},
	}
	tags = addGeneratorFlags(snapshotCmd)
	snapshotCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", defaultManifest, "snapshot manifest file")
	snapshotCmd.Flags().StringVarP(&name, "name", "n", "schemas", "snapshot name")
	snapshotCmd.Flags().StringVarP(&version, "version", "v", "", "snapshot semantic version")

	snapshotCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "list recorded snapshots",
		RunE: func(c *cobra.Command, args []string) error {
			m, err := snapshot.List(manifestPath)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(c.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "NAME\tVERSION\tDIALECT\tMODELS\tFILE")
			for _, s := range m.Snapshots {
				mark := ""
				if s.Version == m.CurrentVersion {
					mark = " *"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s%s\t%s\t%d\t%s\n", s.Name, s.Version, mark, s.Dialect, s.Models, s.File)
			}
			return w.Flush()
		},
	})
	snapshotCmd.AddCommand(&cobra.Command{
		Use:   "diff",
		Short: "diff the current snapshot against the previous one",
		RunE: func(c *cobra.Command, args []string) error {
			diff, err := snapshot.DiffCurrentWithPrevious(manifestPath)
			if err != nil {
				return err
			}
			if diff == "" {
				slog.Info("snapshots are identical")
				return nil
			}
			_, _ = fmt.Fprint(c.OutOrStdout(), diff)
			return nil
		},
	})

	return snapshotCmd
}
