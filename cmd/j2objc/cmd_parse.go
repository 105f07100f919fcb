package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/j2objc/format"
	"github.com/dhamidi/j2objc/java/parser"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var includeComments bool
	var includePositions bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a .java file and dump its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read java file: %w", err)
			}

			opts := []parser.Option{parser.WithFile(filename)}
			if includeComments {
				opts = append(opts, parser.WithComments())
			}
			if includePositions {
				opts = append(opts, parser.WithPositions())
			}
			p := parser.ParseCompilationUnit(bytes.NewReader(data), opts...)
			node := p.Finish()
			if node == nil {
				return fmt.Errorf("parse java file: incomplete or invalid syntax")
			}

			switch outputFormat {
			case "json":
				return format.NewCSTJSONEncoder(os.Stdout).Encode(node)
			case "tree":
				if p.IncludesPositions() {
					fmt.Println(node.StringWithPositions())
				} else {
					fmt.Println(node.String())
				}
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, tree)")
	cmd.Flags().BoolVar(&includeComments, "comments", true, "include comments")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include token positions in tree output")

	return cmd
}
