package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/j2objc/deadcode"
	"github.com/dhamidi/j2objc/project"
)

func newDeadCodeCmd() *cobra.Command {
	var report string
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "deadcode --report <usage.txt> [file or directory...]",
		Short: "Remove the code a ProGuard usage report lists as unused",
		Long: `Applies a ProGuard usage report to Java sources and prints what would be
removed. The sources are not modified; with --diff the changes are
printed as a unified diff.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dead, err := deadcode.ReadReport(report)
			if err != nil {
				return err
			}
			files, err := project.Collect(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, path := range files {
				src, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				res, err := deadcode.Eliminate(path, src, dead)
				if err != nil {
					return err
				}
				if !res.Changed() {
					continue
				}
				if showDiff {
					d, err := deadcode.Diff(path, src, res.Source)
					if err != nil {
						return err
					}
					out.Write(d)
					continue
				}
				for _, r := range res.Removed {
					fmt.Fprintf(out, "%s: %s\n", path, r)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&report, "report", "", "ProGuard usage report")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a unified diff of the changes")
	cmd.MarkFlagRequired("report")

	return cmd
}
