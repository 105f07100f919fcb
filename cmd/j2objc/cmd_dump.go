package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/j2objc/driver"
	"github.com/dhamidi/j2objc/format"
)

func newDumpCmd() *cobra.Command {
	var flags optionFlags
	var dumpFormat string

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Translate a .java file and dump the result instead of writing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			d, err := driver.New(opts)
			if err != nil {
				return err
			}
			in, err := d.Inspect(args[0])
			if err != nil {
				return err
			}
			for _, diag := range in.Diagnostics {
				fmt.Fprintln(cmd.ErrOrStderr(), diag)
			}
			if in.Unit == nil {
				return errFailed
			}

			switch dumpFormat {
			case "json":
				return format.NewASTJSONEncoder(os.Stdout).Encode(in.Unit)
			case "tree":
				_, err := fmt.Fprint(os.Stdout, in.Unit.Dump(in.Unit.Root))
				return err
			case "line":
				return format.NewLineEncoder(os.Stdout, in.Namer).Encode(in.Unit)
			case "objc", "h", "m":
				enc := format.NewObjCEncoder(in.Namer, opts)
				if dumpFormat != "m" {
					if err := enc.EncodeHeader(os.Stdout, in.Unit); err != nil {
						return fmt.Errorf("encode header: %w", err)
					}
				}
				if dumpFormat != "h" {
					if err := enc.EncodeImplementation(os.Stdout, in.Unit); err != nil {
						return fmt.Errorf("encode implementation: %w", err)
					}
				}
				return nil
			default:
				return fmt.Errorf("unknown format: %s", dumpFormat)
			}
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&dumpFormat, "format", "f", "objc", "output format (json, tree, line, objc, h, m)")

	return cmd
}
